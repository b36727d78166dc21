package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/usecase"
)

func (h *Handler) ListLeagueWinnings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueWinnings")
	defer span.End()

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	winnings, err := h.prizeService.ListWinnings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list winnings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winningsToDTO(winnings))
}

type prizeSettingInputDTO struct {
	Category    string `json:"category" validate:"required"`
	AmountPence int64  `json:"amountPence" validate:"required,min=1"`
	Rank        int    `json:"rank" validate:"min=0"`
}

type replacePrizeSettingsRequest struct {
	Settings []prizeSettingInputDTO `json:"settings" validate:"required,min=1,dive"`
}

func (h *Handler) ReplacePrizeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReplacePrizeSettings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}
	if !principal.IsAdmin {
		writeError(ctx, w, fmt.Errorf("%w: admin access required", usecase.ErrUnauthorized))
		return
	}

	var req replacePrizeSettingsRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	lg, exists, err := h.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: league %s", usecase.ErrNotFound, leagueID))
		return
	}

	settings := make([]prize.Setting, 0, len(req.Settings))
	for _, item := range req.Settings {
		settings = append(settings, prize.Setting{
			LeagueID:    leagueID,
			Category:    strings.ToUpper(strings.TrimSpace(item.Category)),
			AmountPence: item.AmountPence,
			Rank:        item.Rank,
		})
	}

	if err := h.prizeService.ReplaceSettings(ctx, lg, settings); err != nil {
		h.logger.WarnContext(ctx, "replace prize settings failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "updated"})
}
