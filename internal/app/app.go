package app

import (
	"fmt"
	"net/http"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/config"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/season"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/infrastructure/repository/memory"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/infrastructure/repository/postgres"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/interfaces/httpapi"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/cache"
	idgen "github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/id"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/token"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router. The
// returned cleanup closes the database handle and is nil-safe to call.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		riderRepo   rider.Repository
		raceRepo    race.Repository
		teamRepo    roster.Repository
		codeRepo    identity.CodeRepository
		profileRepo identity.ProfileRepository
	)
	cleanup := func() error { return nil }

	if cfg.DBURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		cleanup = db.Close

		riderRepo = postgres.NewRiderRepository(db)
		raceRepo = postgres.NewRaceRepository(db)
		teamRepo = postgres.NewTeamRepository(db)
		profileRepo = postgres.NewProfileRepository(db)
		codeRepo = postgres.NewCodeRepository(db)

		logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))
	} else {
		riders, races, teams, codes, profiles := memory.SeedRepositories()
		riderRepo = riders
		raceRepo = races
		teamRepo = teams
		codeRepo = codes
		profileRepo = profiles

		logger.Info("using seeded in-memory repositories", "reason", "DB_URL empty")
	}

	minter, err := token.NewMinter(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("build token minter: %w", err)
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}

	idGen := idgen.NewRandomGenerator()
	rules := roster.Rules{MaxSlots: cfg.MaxRosterSlots, BudgetCap: cfg.BudgetCap}
	locks := season.NewLockSchedule(cfg.SeasonLocks)

	handler := httpapi.NewHandler(
		usecase.NewExchangeService(codeRepo, profileRepo, minter, idGen, logger),
		usecase.NewTeamService(teamRepo, riderRepo, rules, locks, idGen, cacheStore, logger),
		usecase.NewLeaderboardService(teamRepo, raceRepo, cacheStore, logger),
		usecase.NewRaceService(raceRepo),
		usecase.NewRiderService(riderRepo),
		usecase.NewAdminService(codeRepo, profileRepo, idGen, cfg.CodePrefix, cfg.CodeSuffixLength, logger),
		logger,
	)

	router := httpapi.NewRouter(handler, minter, logger, cfg.CORSAllowedOrigins, cfg.AdminPassword)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
