package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/matchpulse/predictor-league/external/scorefeed"
	"github.com/matchpulse/predictor-league/internal/config"
	"github.com/matchpulse/predictor-league/internal/domain/boost"
	"github.com/matchpulse/predictor-league/internal/domain/league"
	"github.com/matchpulse/predictor-league/internal/domain/prediction"
	"github.com/matchpulse/predictor-league/internal/domain/prize"
	"github.com/matchpulse/predictor-league/internal/domain/round"
	"github.com/matchpulse/predictor-league/internal/domain/season"
	"github.com/matchpulse/predictor-league/internal/domain/standing"
	"github.com/matchpulse/predictor-league/internal/infrastructure/account"
	"github.com/matchpulse/predictor-league/internal/infrastructure/notify"
	cacherepo "github.com/matchpulse/predictor-league/internal/infrastructure/repository/cache"
	"github.com/matchpulse/predictor-league/internal/infrastructure/repository/memory"
	"github.com/matchpulse/predictor-league/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/predictor-league/internal/interfaces/httpapi"
	basecache "github.com/matchpulse/predictor-league/internal/platform/cache"
	idgen "github.com/matchpulse/predictor-league/internal/platform/id"
	"github.com/matchpulse/predictor-league/internal/platform/logging"
	"github.com/matchpulse/predictor-league/internal/platform/resilience"
	"github.com/matchpulse/predictor-league/internal/usecase"
)

// repositories groups the storage ports so the postgres and in-memory builds
// wire the service graph identically.
type repositories struct {
	rounds      round.Repository
	leagues     league.Repository
	seasons     season.Repository
	results     league.ResultRepository
	predictions prediction.Repository
	boosts      boost.Repository
	standings   standing.Repository
	settings    prize.SettingRepository
	winnings    prize.WinningRepository
	tx          usecase.TxRunner
}

// App owns the HTTP server and the resources that must outlive a request.
type App struct {
	Server *http.Server

	db     *sqlx.DB
	logger *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		db    *sqlx.DB
		repos repositories
	)
	if strings.TrimSpace(cfg.DBURL) != "" {
		var err error
		db, err = openDB(cfg)
		if err != nil {
			return nil, err
		}
		repos = newPostgresRepositories(db)
		logger.Info("storage backend selected", "backend", "postgres", "database", dbNameFromURL(cfg.DBURL))
	} else {
		repos = newMemoryRepositories()
		logger.Info("storage backend selected", "backend", "memory")
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.leagues = cacherepo.NewLeagueRepository(repos.leagues, store)
		repos.seasons = cacherepo.NewSeasonRepository(repos.seasons, store)
	}

	ids := idgen.NewRandomGenerator()

	boosts := usecase.NewBoostService(repos.boosts, repos.leagues, repos.rounds, repos.results, logger)
	standings := usecase.NewStandingsService(repos.standings, repos.results, repos.rounds, repos.leagues, repos.predictions, logger)
	prizes := usecase.NewPrizeService(repos.settings, repos.winnings, repos.results, repos.rounds, repos.standings, ids, logger)
	settlement := usecase.NewSettlementService(repos.rounds, repos.leagues, repos.results, repos.predictions, boosts, standings, prizes, repos.tx, logger)
	scheduler := usecase.NewSchedulerService(repos.rounds, repos.leagues, repos.predictions, notify.NewLogNotifier(logger), cfg.ReminderLead, logger)

	var feed usecase.ResultsFeed
	if cfg.ScoreFeedEnabled {
		feed = scorefeed.NewClient(scorefeed.ClientConfig{
			BaseURL:    cfg.ScoreFeedBaseURL,
			Token:      cfg.ScoreFeedToken,
			Timeout:    cfg.ScoreFeedTimeout,
			MaxRetries: cfg.ScoreFeedMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.ScoreFeedCircuitEnabled,
				FailureThreshold: cfg.ScoreFeedCircuitFailureCount,
				OpenTimeout:      cfg.ScoreFeedCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.ScoreFeedCircuitHalfOpenMax,
			},
		})
	} else {
		logger.Info("score feed disabled", "reason", "SCORE_FEED_ENABLED=false")
	}

	liveScores := usecase.NewLiveScoreService(repos.seasons, repos.rounds, settlement, feed, cfg.LiveScoreWorkers, logger)
	recalc := usecase.NewRecalcService(repos.seasons, repos.leagues, repos.rounds, settlement, boosts, standings, prizes, cfg.RecalcWorkers, logger)
	roundAdmin := usecase.NewRoundAdminService(repos.rounds, ids, logger)

	verifier := account.NewClient(account.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AccountTimeout},
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		CacheTTL:       cfg.AccountCacheTTL,
		Logger:         logger,
	})

	handler := httpapi.NewHandler(settlement, standings, boosts, prizes, scheduler, liveScores, recalc, roundAdmin, repos.leagues, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db, logger: logger}, nil
}

// Close releases resources held outside the HTTP server, currently the
// database pool. Call it after the server has shut down.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func newPostgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		rounds:      postgres.NewRoundRepository(db),
		leagues:     postgres.NewLeagueRepository(db),
		seasons:     postgres.NewSeasonRepository(db),
		results:     postgres.NewLeagueResultRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		boosts:      postgres.NewBoostRepository(db),
		standings:   postgres.NewStandingRepository(db),
		settings:    postgres.NewPrizeSettingRepository(db),
		winnings:    postgres.NewPrizeWinningRepository(db),
		tx:          postgres.NewTxManager(db),
	}
}

// newMemoryRepositories backs the service graph with seeded in-memory stores.
// It keeps local development working without a database.
func newMemoryRepositories() repositories {
	return repositories{
		rounds:      memory.NewRoundRepository(memory.SeedRounds()),
		leagues:     memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedMembers()),
		seasons:     memory.NewSeasonRepository(memory.SeedSeasons()),
		results:     memory.NewLeagueResultRepository(),
		predictions: memory.NewPredictionRepository(memory.SeedPredictions()),
		boosts:      memory.NewBoostRepository(memory.SeedBoostRules()),
		standings:   memory.NewStandingRepository(),
		settings:    memory.NewPrizeSettingRepository(memory.SeedPrizeSettings()),
		winnings:    memory.NewPrizeWinningRepository(),
		tx:          usecase.NewNoopTxRunner(),
	}
}
