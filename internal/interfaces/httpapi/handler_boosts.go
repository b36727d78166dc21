package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchpulse/predictor-league/internal/domain/boost"
	"github.com/matchpulse/predictor-league/internal/usecase"
)

type boostEligibilityDTO struct {
	Allowed         bool   `json:"allowed"`
	AlreadyUsed     bool   `json:"alreadyUsed"`
	Reason          string `json:"reason,omitempty"`
	RemainingSeason int    `json:"remainingSeason"`
	RemainingWindow int    `json:"remainingWindow"`
}

func eligibilityToDTO(e boost.Eligibility) boostEligibilityDTO {
	return boostEligibilityDTO{
		Allowed:         e.Allowed,
		AlreadyUsed:     e.AlreadyUsed,
		Reason:          e.Reason,
		RemainingSeason: e.RemainingSeason,
		RemainingWindow: e.RemainingWindow,
	}
}

func (h *Handler) GetBoostEligibility(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBoostEligibility")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	roundID := strings.TrimSpace(r.PathValue("roundID"))
	code := strings.TrimSpace(r.PathValue("code"))

	eligibility, err := h.boostService.Eligibility(ctx, leagueID, principal.UserID, roundID, code)
	if err != nil {
		h.logger.WarnContext(ctx, "boost eligibility failed",
			"league_id", leagueID, "round_id", roundID, "code", code, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityToDTO(eligibility))
}

type applyBoostRequest struct {
	Code string `json:"code" validate:"required,max=32"`
}

func (h *Handler) ApplyBoost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyBoost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req applyBoostRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	roundID := strings.TrimSpace(r.PathValue("roundID"))

	eligibility, err := h.boostService.Apply(ctx, leagueID, principal.UserID, roundID, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "apply boost failed",
			"league_id", leagueID, "round_id", roundID, "code", req.Code, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eligibilityToDTO(eligibility))
}

func (h *Handler) RevokeBoost(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RevokeBoost")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	roundID := strings.TrimSpace(r.PathValue("roundID"))
	code := strings.TrimSpace(r.PathValue("code"))

	if err := h.boostService.Revoke(ctx, leagueID, principal.UserID, roundID, code); err != nil {
		h.logger.WarnContext(ctx, "revoke boost failed",
			"league_id", leagueID, "round_id", roundID, "code", code, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "revoked"})
}
