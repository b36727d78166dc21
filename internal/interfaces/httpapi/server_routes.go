package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings", handler.ListLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/standings/live", handler.ListLiveLeagueStandings)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/winnings", handler.ListLeagueWinnings)
	mux.HandleFunc("GET /v1/rounds/{roundID}", handler.GetRound)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedBoostRoutes(mux, handler, verifier)
	registerAuthorizedAdminRoutes(mux, handler, verifier)
}

func registerAuthorizedBoostRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/leagues/{leagueID}/rounds/{roundID}/boosts/{code}/eligibility",
		RequireAuth(verifier, http.HandlerFunc(handler.GetBoostEligibility)))
	mux.Handle("POST /v1/leagues/{leagueID}/rounds/{roundID}/boosts",
		RequireAuth(verifier, http.HandlerFunc(handler.ApplyBoost)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/rounds/{roundID}/boosts/{code}",
		RequireAuth(verifier, http.HandlerFunc(handler.RevokeBoost)))
}

func registerAuthorizedAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rounds", RequireAuth(verifier, http.HandlerFunc(handler.CreateRound)))
	mux.Handle("PUT /v1/rounds/{roundID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateRound)))
	mux.Handle("PUT /v1/rounds/{roundID}/status", RequireAuth(verifier, http.HandlerFunc(handler.SetRoundStatus)))
	mux.Handle("PUT /v1/leagues/{leagueID}/prize-settings", RequireAuth(verifier, http.HandlerFunc(handler.ReplacePrizeSettings)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/rounds/{roundID}/results",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SubmitRoundResults)))
	mux.Handle("POST /v1/internal/jobs/publish-sweep",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPublishSweepJob)))
	mux.Handle("POST /v1/internal/jobs/reminders",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunReminderJob)))
	mux.Handle("POST /v1/internal/jobs/live-scores",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunLiveScoreJob)))
	mux.Handle("POST /v1/internal/seasons/{seasonID}/recalculate",
		RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecalculateSeason)))
}
