package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/standing"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
	"github.com/matchpulse/predictor-league/internal/usecase"
)

type Handler struct {
	settlementService *usecase.SettlementService
	standingsService  *usecase.StandingsService
	boostService      *usecase.BoostService
	prizeService      *usecase.PrizeService
	schedulerService  *usecase.SchedulerService
	liveScoreService  *usecase.LiveScoreService
	recalcService     *usecase.RecalcService
	roundAdminService *usecase.RoundAdminService
	leagueRepo        league.Repository
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	settlementService *usecase.SettlementService,
	standingsService *usecase.StandingsService,
	boostService *usecase.BoostService,
	prizeService *usecase.PrizeService,
	schedulerService *usecase.SchedulerService,
	liveScoreService *usecase.LiveScoreService,
	recalcService *usecase.RecalcService,
	roundAdminService *usecase.RoundAdminService,
	leagueRepo league.Repository,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		settlementService: settlementService,
		standingsService:  standingsService,
		boostService:      boostService,
		prizeService:      prizeService,
		schedulerService:  schedulerService,
		liveScoreService:  liveScoreService,
		recalcService:     recalcService,
		roundAdminService: roundAdminService,
		leagueRepo:        leagueRepo,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func decodeJSONBody(r *http.Request, target any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

type standingRowDTO struct {
	UserID        string `json:"userId"`
	Position      int    `json:"position"`
	Points        int    `json:"points"`
	ExactScores   int    `json:"exactScores"`
	RoundsCounted int    `json:"roundsCounted"`
}

func standingRowsToDTO(rows []standing.Row) []standingRowDTO {
	out := make([]standingRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingRowDTO{
			UserID:        row.UserID,
			Position:      row.Position,
			Points:        row.Points,
			ExactScores:   row.ExactScores,
			RoundsCounted: row.RoundsCounted,
		})
	}
	return out
}

type matchDTO struct {
	ID          string    `json:"id"`
	HomeTeamID  string    `json:"homeTeamId"`
	AwayTeamID  string    `json:"awayTeamId"`
	KickoffAt   time.Time `json:"kickoffAt"`
	ExternalRef int64     `json:"externalRef,omitempty"`
	HomeScore   *int      `json:"homeScore"`
	AwayScore   *int      `json:"awayScore"`
	Status      string    `json:"status"`
}

type roundDTO struct {
	ID                 string     `json:"id"`
	SeasonID           string     `json:"seasonId"`
	Number             int        `json:"number"`
	StartsAt           time.Time  `json:"startsAt"`
	PredictionDeadline time.Time  `json:"predictionDeadline"`
	Status             string     `json:"status"`
	Matches            []matchDTO `json:"matches"`
}

func roundToDTO(r round.Round) roundDTO {
	matches := make([]matchDTO, 0, len(r.Matches))
	for _, m := range r.Matches {
		matches = append(matches, matchDTO{
			ID:          m.ID,
			HomeTeamID:  m.HomeTeamID,
			AwayTeamID:  m.AwayTeamID,
			KickoffAt:   m.KickoffAt,
			ExternalRef: m.ExternalRef,
			HomeScore:   m.HomeScore,
			AwayScore:   m.AwayScore,
			Status:      m.Status,
		})
	}
	return roundDTO{
		ID:                 r.ID,
		SeasonID:           r.SeasonID,
		Number:             r.Number,
		StartsAt:           r.StartsAt,
		PredictionDeadline: r.PredictionDeadline,
		Status:             r.Status,
		Matches:            matches,
	}
}

type winningDTO struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	AmountPence int64   `json:"amountPence"`
	RoundID     *string `json:"roundId,omitempty"`
	Month       *string `json:"month,omitempty"`
}

func winningsToDTO(items []prize.Winning) []winningDTO {
	out := make([]winningDTO, 0, len(items))
	for _, item := range items {
		out = append(out, winningDTO{
			ID:          item.ID,
			UserID:      item.UserID,
			AmountPence: item.AmountPence,
			RoundID:     item.RoundID,
			Month:       item.Month,
		})
	}
	return out
}
