package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
)

// Notifier delivers deadline reminders. The transport (email, push) is an
// infrastructure concern behind this port.
type Notifier interface {
	SendDeadlineReminder(ctx context.Context, userID string, r round.Round) error
}

// DefaultReminderLead is how long before the prediction deadline the reminder
// sweep fires when no lead is configured.
const DefaultReminderLead = 24 * time.Hour

// SchedulerService hosts the periodic sweeps driven by an external scheduler:
// publishing draft rounds as their start date approaches and reminding users
// who have not submitted predictions.
type SchedulerService struct {
	roundRepo      round.Repository
	leagueRepo     league.Repository
	predictionRepo prediction.Repository
	notifier       Notifier
	reminderLead   time.Duration
	logger         *logging.Logger
	now            func() time.Time
}

func NewSchedulerService(
	roundRepo round.Repository,
	leagueRepo league.Repository,
	predictionRepo prediction.Repository,
	notifier Notifier,
	reminderLead time.Duration,
	logger *logging.Logger,
) *SchedulerService {
	if logger == nil {
		logger = logging.Default()
	}
	if reminderLead <= 0 {
		reminderLead = DefaultReminderLead
	}
	return &SchedulerService{
		roundRepo:      roundRepo,
		leagueRepo:     leagueRepo,
		predictionRepo: predictionRepo,
		notifier:       notifier,
		reminderLead:   reminderLead,
		logger:         logger,
		now:            time.Now,
	}
}

// PublishSweep publishes every draft round starting within the publish
// horizon and unpublishes any published round whose start has been pushed
// back out of it. It returns how many rounds were published. Rounds without
// matches stay in draft.
func (s *SchedulerService) PublishSweep(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.PublishSweep")
	defer span.End()

	drafts, err := s.roundRepo.ListByStatus(ctx, round.StatusDraft)
	if err != nil {
		return 0, fmt.Errorf("list draft rounds: %w", err)
	}

	now := s.now().UTC()
	horizon := now.Add(round.PublishHorizon)
	published := 0
	for _, r := range drafts {
		if len(r.Matches) == 0 {
			continue
		}
		if r.StartsAt.After(horizon) {
			continue
		}
		if err := r.Publish(); err != nil {
			return published, err
		}
		if err := s.roundRepo.Save(ctx, &r); err != nil {
			return published, fmt.Errorf("save published round %s: %w", r.ID, err)
		}
		published++
		s.logger.InfoContext(ctx, "round published by sweep",
			"round_id", r.ID, "starts_at", r.StartsAt)
	}

	// Admin reschedules can push a published round back out of the horizon.
	current, err := s.roundRepo.ListByStatus(ctx, round.StatusPublished)
	if err != nil {
		return published, fmt.Errorf("list published rounds: %w", err)
	}
	for _, r := range current {
		if !r.StartsAt.After(horizon) {
			continue
		}
		if err := r.Unpublish(); err != nil {
			return published, err
		}
		if err := s.roundRepo.Save(ctx, &r); err != nil {
			return published, fmt.Errorf("save unpublished round %s: %w", r.ID, err)
		}
		s.logger.InfoContext(ctx, "round unpublished by sweep",
			"round_id", r.ID, "starts_at", r.StartsAt)
	}

	return published, nil
}

// SendReminders notifies users inside the reminder window who still have at
// least one match without a prediction. Each round is reminded at most once;
// the round's last-reminder timestamp is the guard.
func (s *SchedulerService) SendReminders(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SchedulerService.SendReminders")
	defer span.End()

	rounds, err := s.roundRepo.ListByStatus(ctx, round.StatusPublished)
	if err != nil {
		return 0, fmt.Errorf("list published rounds: %w", err)
	}

	now := s.now().UTC()
	sent := 0
	for _, r := range rounds {
		if now.Before(r.PredictionDeadline.Add(-s.reminderLead)) || !now.Before(r.PredictionDeadline) {
			continue
		}
		if r.LastReminderAt != nil {
			continue
		}

		n, err := s.remindRound(ctx, r)
		if err != nil {
			return sent, err
		}
		sent += n

		if err := s.roundRepo.SetLastReminderAt(ctx, r.ID, now); err != nil {
			return sent, fmt.Errorf("mark round %s reminded: %w", r.ID, err)
		}
	}
	return sent, nil
}

func (s *SchedulerService) remindRound(ctx context.Context, r round.Round) (int, error) {
	matchIDs := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		matchIDs = append(matchIDs, m.ID)
	}
	preds, err := s.predictionRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return 0, fmt.Errorf("list predictions round=%s: %w", r.ID, err)
	}
	predicted := make(map[string]int)
	for _, p := range preds {
		predicted[p.UserID]++
	}

	leagues, err := s.leagueRepo.ListBySeason(ctx, r.SeasonID)
	if err != nil {
		return 0, fmt.Errorf("list season leagues: %w", err)
	}

	notified := make(map[string]struct{})
	sent := 0
	for _, lg := range leagues {
		members, err := s.leagueRepo.ListMembers(ctx, lg.ID)
		if err != nil {
			return sent, fmt.Errorf("list members league=%s: %w", lg.ID, err)
		}
		for _, m := range members {
			if !m.Approved {
				continue
			}
			if _, done := notified[m.UserID]; done {
				continue
			}
			if predicted[m.UserID] >= len(r.Matches) {
				continue
			}
			notified[m.UserID] = struct{}{}
			if err := s.notifier.SendDeadlineReminder(ctx, m.UserID, r); err != nil {
				// One failed delivery should not block the rest of the sweep.
				s.logger.WarnContext(ctx, "reminder delivery failed",
					"user_id", m.UserID, "round_id", r.ID, "error", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}
