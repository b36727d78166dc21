package httpapi

import (
	"net/http"
	"strings"

	"github.com/matchpulse/predictor-league/internal/usecase"
)

type matchResultDTO struct {
	MatchID   string `json:"matchId" validate:"required"`
	HomeGoals int    `json:"homeGoals" validate:"min=0"`
	AwayGoals int    `json:"awayGoals" validate:"min=0"`
	Status    string `json:"status" validate:"required"`
}

type submitResultsRequest struct {
	Results []matchResultDTO `json:"results" validate:"required,min=1,dive"`
}

func (h *Handler) SubmitRoundResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitRoundResults")
	defer span.End()

	var req submitResultsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	roundID := strings.TrimSpace(r.PathValue("roundID"))
	results := make([]usecase.MatchResult, 0, len(req.Results))
	for _, item := range req.Results {
		results = append(results, usecase.MatchResult{
			MatchID:   item.MatchID,
			HomeGoals: item.HomeGoals,
			AwayGoals: item.AwayGoals,
			Status:    item.Status,
		})
	}

	if err := h.settlementService.SubmitResults(ctx, roundID, results); err != nil {
		h.logger.WarnContext(ctx, "submit round results failed", "round_id", roundID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "settled"})
}

func (h *Handler) RunPublishSweepJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPublishSweepJob")
	defer span.End()

	published, err := h.schedulerService.PublishSweep(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "publish sweep job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"published": published})
}

func (h *Handler) RunReminderJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReminderJob")
	defer span.End()

	sent, err := h.schedulerService.SendReminders(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "reminder job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"remindersSent": sent})
}

func (h *Handler) RunLiveScoreJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunLiveScoreJob")
	defer span.End()

	updated, err := h.liveScoreService.Sweep(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "live score job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"matchesUpdated": updated})
}

func (h *Handler) RecalculateSeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecalculateSeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	if err := h.recalcService.RecalculateSeason(ctx, seasonID); err != nil {
		h.logger.WarnContext(ctx, "season recalculation failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "recalculated"})
}
