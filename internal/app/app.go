package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/smashcolombia/startgg-stats/external/startgg"
	"github.com/smashcolombia/startgg-stats/internal/config"
	"github.com/smashcolombia/startgg-stats/internal/domain/auditlog"
	"github.com/smashcolombia/startgg-stats/internal/domain/player"
	"github.com/smashcolombia/startgg-stats/internal/domain/report"
	"github.com/smashcolombia/startgg-stats/internal/domain/set"
	"github.com/smashcolombia/startgg-stats/internal/domain/tournament"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/auditship"
	cacherepo "github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/cache"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/memory"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/repository/postgres"
	"github.com/smashcolombia/startgg-stats/internal/infrastructure/reportrender"
	"github.com/smashcolombia/startgg-stats/internal/interfaces/httpapi"
	basecache "github.com/smashcolombia/startgg-stats/internal/platform/cache"
	idgen "github.com/smashcolombia/startgg-stats/internal/platform/id"
	"github.com/smashcolombia/startgg-stats/internal/platform/logging"
	"github.com/smashcolombia/startgg-stats/internal/platform/resilience"
	"github.com/smashcolombia/startgg-stats/internal/usecase"
)

// Cleanup releases resources owned by the wired application: worker pools
// and the database handle when one was opened.
type Cleanup func(ctx context.Context) error

// NewHTTPServer wires repositories, the start.gg client and the use case
// layer into a ready http.Server. With an empty DB_URL the service runs on
// in-memory repositories, which is the mode integration tests use.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, Cleanup, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}
	if logger == nil {
		logger = logging.Default()
	}

	var (
		tournamentRepo tournament.Repository
		playerRepo     player.Repository
		setRepo        set.Repository
		auditRepo      auditlog.Repository
		reportRepo     report.Repository
		closeDB        func() error
	)

	if cfg.DBURL != "" {
		db, err := otelsqlx.Connect("postgres",
			normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		closeDB = db.Close

		tournamentRepo = postgres.NewTournamentRepository(db)
		playerRepo = postgres.NewPlayerRepository(db)
		setRepo = postgres.NewSetRepository(db)
		auditRepo = postgres.NewAuditLogRepository(db)
		reportRepo = postgres.NewReportRepository(db)
	} else {
		logger.Warn("DB_URL is empty, using in-memory repositories")
		tournamentRepo = memory.NewTournamentRepository()
		playerRepo = memory.NewPlayerRepository()
		setRepo = memory.NewSetRepository()
		auditRepo = memory.NewAuditLogRepository()
		reportRepo = memory.NewReportRepository()
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		tournamentRepo = cacherepo.NewTournamentRepository(tournamentRepo, store)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, store)
	}

	provider := startgg.NewClient(startgg.ClientConfig{
		BaseURL: cfg.StartGGBaseURL,
		Token:   cfg.StartGGToken,
		Timeout: cfg.StartGGTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StartGGCircuitEnabled,
			FailureThreshold: cfg.StartGGCircuitFailureCount,
			OpenTimeout:      cfg.StartGGCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StartGGCircuitHalfOpenMaxReq,
		},
		ResolveTTL: cfg.StartGGResolveTTL,
	})

	ids := idgen.NewRandomGenerator()
	auditSvc := usecase.NewAuditService(auditRepo, ids, logger)

	var recorder usecase.AuditRecorder
	if cfg.AuditRemoteEnabled {
		recorder = auditship.NewPublisher(auditship.PublisherConfig{
			BaseURL:     cfg.AuditRemoteBaseURL,
			Token:       cfg.AuditRemoteToken,
			ServiceName: cfg.ServiceName,
			Timeout:     cfg.AuditRemoteTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AuditCircuitEnabled,
				FailureThreshold: cfg.AuditCircuitFailureCount,
				OpenTimeout:      cfg.AuditCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.AuditCircuitHalfOpenMaxReq,
			},
		}, logger)
	} else {
		recorder = usecase.NewStoreAuditRecorder(auditSvc, cfg.ServiceName, logger)
	}

	svcCfg := usecase.TournamentServiceConfig{
		ParticipantsPerPage: cfg.ParticipantsPerPage,
		ParticipantsDelay:   cfg.ParticipantsDelay,
		SetsPerPage:         cfg.SetsPerPage,
		SetsDelay:           cfg.SetsDelay,
	}

	tournamentSvc := usecase.NewTournamentService(provider, tournamentRepo, recorder, logger, svcCfg)
	eventSvc := usecase.NewEventService(provider, setRepo, logger, svcCfg)
	playerSvc := usecase.NewPlayerService(provider, playerRepo, recorder, logger, cfg.SyncWorkers, svcCfg)

	reportSvc, err := usecase.NewReportService(
		reportRepo,
		reportrender.NewJSONRenderer(cfg.ReportsDir),
		ids,
		logger,
		cfg.ReportAsyncWorkers,
	)
	if err != nil {
		if closeDB != nil {
			_ = closeDB()
		}
		return nil, nil, fmt.Errorf("create report service: %w", err)
	}

	handler := httpapi.NewHandler(tournamentSvc, eventSvc, playerSvc, auditSvc, reportSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func(context.Context) error {
		reportSvc.Close()
		if closeDB != nil {
			return closeDB()
		}
		return nil
	}

	return server, cleanup, nil
}
