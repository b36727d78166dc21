package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/user"
	"github.com/matchpulse/predictor-league/internal/platform/id"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// MatchInput describes one match of a round on create or edit.
type MatchInput struct {
	ID          string
	HomeTeamID  string
	AwayTeamID  string
	KickoffAt   time.Time
	ExternalRef int64
}

// RoundInput is the admin-facing shape for creating or editing a round.
type RoundInput struct {
	SeasonID           string
	Number             int
	StartsAt           time.Time
	PredictionDeadline time.Time
	Matches            []MatchInput
}

// RoundAdminService covers the administrative round lifecycle: creation,
// editing, manual publishing and guarded status overrides. Every operation
// requires an admin principal.
type RoundAdminService struct {
	roundRepo round.Repository
	idGen     id.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewRoundAdminService(roundRepo round.Repository, idGen id.Generator, logger *logging.Logger) *RoundAdminService {
	if logger == nil {
		logger = logging.Default()
	}
	return &RoundAdminService{
		roundRepo: roundRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// Create stores a new draft round with its matches.
func (s *RoundAdminService) Create(ctx context.Context, principal user.Principal, in RoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundAdminService.Create")
	defer span.End()

	if !principal.IsAdmin {
		return round.Round{}, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	if err := validateRoundInput(in); err != nil {
		return round.Round{}, err
	}

	roundID, err := s.idGen.NewID()
	if err != nil {
		return round.Round{}, fmt.Errorf("generate round id: %w", err)
	}
	r := round.Round{
		ID:                 roundID,
		SeasonID:           in.SeasonID,
		Number:             in.Number,
		StartsAt:           in.StartsAt.UTC(),
		PredictionDeadline: in.PredictionDeadline.UTC(),
		Status:             round.StatusDraft,
	}
	for _, m := range in.Matches {
		matchID := m.ID
		if matchID == "" {
			matchID, err = s.idGen.NewID()
			if err != nil {
				return round.Round{}, fmt.Errorf("generate match id: %w", err)
			}
		}
		if err := r.AddMatch(round.Match{
			ID:          matchID,
			HomeTeamID:  m.HomeTeamID,
			AwayTeamID:  m.AwayTeamID,
			KickoffAt:   m.KickoffAt.UTC(),
			ExternalRef: m.ExternalRef,
		}); err != nil {
			return round.Round{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if err := s.roundRepo.Save(ctx, &r); err != nil {
		return round.Round{}, fmt.Errorf("save round: %w", err)
	}
	s.logger.InfoContext(ctx, "round created",
		"round_id", r.ID, "season_id", r.SeasonID, "matches", len(r.Matches))
	return r, nil
}

// Update edits a round's schedule and match list. Drafts can be reshaped
// freely; on published rounds a match that already has predictions cannot be
// removed.
func (s *RoundAdminService) Update(ctx context.Context, principal user.Principal, roundID string, in RoundInput) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundAdminService.Update")
	defer span.End()

	if !principal.IsAdmin {
		return round.Round{}, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}
	if err := validateRoundInput(in); err != nil {
		return round.Round{}, err
	}

	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	if r.Status == round.StatusInProgress || r.Status == round.StatusCompleted {
		return round.Round{}, fmt.Errorf("%w: round %s can no longer be edited", ErrConflict, roundID)
	}

	keep := make(map[string]struct{}, len(in.Matches))
	for _, m := range in.Matches {
		if m.ID != "" {
			keep[m.ID] = struct{}{}
		}
	}
	for _, existing := range r.Matches {
		if _, kept := keep[existing.ID]; kept {
			continue
		}
		if r.Status == round.StatusPublished {
			has, err := s.roundRepo.HasPredictions(ctx, existing.ID)
			if err != nil {
				return round.Round{}, fmt.Errorf("check predictions match=%s: %w", existing.ID, err)
			}
			if has {
				return round.Round{}, fmt.Errorf("%w: match %s has predictions and cannot be removed", ErrConflict, existing.ID)
			}
		}
		r.RemoveMatch(existing.ID)
	}

	for _, m := range in.Matches {
		if m.ID != "" {
			if existing, found := r.MatchByID(m.ID); found {
				existing.HomeTeamID = m.HomeTeamID
				existing.AwayTeamID = m.AwayTeamID
				existing.KickoffAt = m.KickoffAt.UTC()
				existing.ExternalRef = m.ExternalRef
				continue
			}
		}
		matchID := m.ID
		if matchID == "" {
			matchID, err = s.idGen.NewID()
			if err != nil {
				return round.Round{}, fmt.Errorf("generate match id: %w", err)
			}
		}
		if err := r.AddMatch(round.Match{
			ID:          matchID,
			HomeTeamID:  m.HomeTeamID,
			AwayTeamID:  m.AwayTeamID,
			KickoffAt:   m.KickoffAt.UTC(),
			ExternalRef: m.ExternalRef,
		}); err != nil {
			return round.Round{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	r.SeasonID = in.SeasonID
	r.Number = in.Number
	r.StartsAt = in.StartsAt.UTC()
	r.PredictionDeadline = in.PredictionDeadline.UTC()

	if err := s.roundRepo.Save(ctx, &r); err != nil {
		return round.Round{}, fmt.Errorf("save round: %w", err)
	}
	return r, nil
}

// SetStatus performs a manual status transition. Only the transitions the
// domain allows go through; anything else is rejected as a conflict.
func (s *RoundAdminService) SetStatus(ctx context.Context, principal user.Principal, roundID, status string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundAdminService.SetStatus")
	defer span.End()

	if !principal.IsAdmin {
		return round.Round{}, fmt.Errorf("%w: admin role required", ErrUnauthorized)
	}

	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}

	var transition error
	switch round.NormalizeStatus(status) {
	case round.StatusPublished:
		transition = r.Publish()
	case round.StatusDraft:
		transition = r.Unpublish()
	case round.StatusInProgress:
		transition = r.Begin()
	case round.StatusCompleted:
		transition = r.Complete()
	default:
		return round.Round{}, fmt.Errorf("%w: unknown round status %q", ErrInvalidInput, status)
	}
	if transition != nil {
		return round.Round{}, fmt.Errorf("%w: %v", ErrConflict, transition)
	}

	if err := s.roundRepo.Save(ctx, &r); err != nil {
		return round.Round{}, fmt.Errorf("save round: %w", err)
	}
	s.logger.InfoContext(ctx, "round status changed",
		"round_id", r.ID, "status", r.Status, "admin_id", principal.UserID)
	return r, nil
}

// Get returns one round with its matches.
func (s *RoundAdminService) Get(ctx context.Context, roundID string) (round.Round, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundAdminService.Get")
	defer span.End()

	r, ok, err := s.roundRepo.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("load round: %w", err)
	}
	if !ok {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	return r, nil
}

func validateRoundInput(in RoundInput) error {
	if strings.TrimSpace(in.SeasonID) == "" {
		return fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if in.Number <= 0 {
		return fmt.Errorf("%w: round number must be positive", ErrInvalidInput)
	}
	if in.StartsAt.IsZero() || in.PredictionDeadline.IsZero() {
		return fmt.Errorf("%w: start and prediction deadline are required", ErrInvalidInput)
	}
	if in.PredictionDeadline.After(in.StartsAt) {
		return fmt.Errorf("%w: prediction deadline must not be after the round start", ErrInvalidInput)
	}
	for _, m := range in.Matches {
		if m.HomeTeamID == "" || m.AwayTeamID == "" {
			return fmt.Errorf("%w: match teams are required", ErrInvalidInput)
		}
		if m.HomeTeamID == m.AwayTeamID {
			return fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
		}
	}
	return nil
}
