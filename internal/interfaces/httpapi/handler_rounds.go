package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matchpulse/predictor-league/internal/usecase"
)

type matchInputDTO struct {
	ID          string    `json:"id"`
	HomeTeamID  string    `json:"homeTeamId" validate:"required"`
	AwayTeamID  string    `json:"awayTeamId" validate:"required"`
	KickoffAt   time.Time `json:"kickoffAt" validate:"required"`
	ExternalRef int64     `json:"externalRef"`
}

type roundUpsertRequest struct {
	SeasonID           string          `json:"seasonId" validate:"required"`
	Number             int             `json:"number" validate:"required,min=1"`
	StartsAt           time.Time       `json:"startsAt" validate:"required"`
	PredictionDeadline time.Time       `json:"predictionDeadline" validate:"required"`
	Matches            []matchInputDTO `json:"matches" validate:"required,min=1,dive"`
}

func (req roundUpsertRequest) toInput() usecase.RoundInput {
	matches := make([]usecase.MatchInput, 0, len(req.Matches))
	for _, m := range req.Matches {
		matches = append(matches, usecase.MatchInput{
			ID:          strings.TrimSpace(m.ID),
			HomeTeamID:  m.HomeTeamID,
			AwayTeamID:  m.AwayTeamID,
			KickoffAt:   m.KickoffAt,
			ExternalRef: m.ExternalRef,
		})
	}
	return usecase.RoundInput{
		SeasonID:           req.SeasonID,
		Number:             req.Number,
		StartsAt:           req.StartsAt,
		PredictionDeadline: req.PredictionDeadline,
		Matches:            matches,
	}
}

func (h *Handler) GetRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRound")
	defer span.End()

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	item, err := h.roundAdminService.Get(ctx, roundID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(item))
}

func (h *Handler) CreateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req roundUpsertRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.roundAdminService.Create(ctx, principal, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "create round failed", "season_id", req.SeasonID, "number", req.Number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, roundToDTO(created))
}

func (h *Handler) UpdateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateRound")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req roundUpsertRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	updated, err := h.roundAdminService.Update(ctx, principal, roundID, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "update round failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(updated))
}

type roundStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) SetRoundStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetRoundStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req roundStatusRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	updated, err := h.roundAdminService.SetStatus(ctx, principal, roundID, req.Status)
	if err != nil {
		h.logger.WarnContext(ctx, "set round status failed", "round_id", roundID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, roundToDTO(updated))
}
