package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/tinkrentals/rent-ledger/internal"
	"github.com/tinkrentals/rent-ledger/internal/core/events"
	identityPostgres "github.com/tinkrentals/rent-ledger/internal/identity/postgres"
	"github.com/tinkrentals/rent-ledger/internal/ledger"
	ledgerPostgres "github.com/tinkrentals/rent-ledger/internal/ledger/postgres"
	"github.com/tinkrentals/rent-ledger/internal/report"
	"github.com/tinkrentals/rent-ledger/internal/transport/rest"
	"github.com/tinkrentals/rent-ledger/pkg/logger"
	"github.com/tinkrentals/rent-ledger/pkg/money"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that exposes the payment ledger and reporting API`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config        *internal.Config
	DB            *sqlx.DB
	GormDB        *gorm.DB
	Router        *chi.Mux
	LedgerHandler *ledger.Handler
	ReportHandler *report.Handler
	Logger        *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.LedgerHandler, deps.ReportHandler, deps.Config.Server.AllowedOrigins, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	report.NewSettlementListener(lg).Register(eventBus)

	paymentRepo := ledgerPostgres.NewPaymentRepository(gormDB)
	resolver := identityPostgres.NewResolver(gormDB)

	ledgerService := ledger.NewService(paymentRepo, resolver, eventBus, lg,
		ledger.WithFeeSchedule(money.FeeSchedule{
			BasisPoints: config.Payments.FeeBasisPoints,
			FixedCents:  money.Cents(config.Payments.FeeFixedCents),
		}),
		ledger.WithFeeOnFailure(config.Payments.FeeOnFailure),
	)

	grace := report.NewGracePolicy(config.Payments.GraceDays)
	reportService := report.NewService(paymentRepo, report.NewClassifier(grace), config.Payments.RecentLimit, lg)

	return &Dependencies{
		Config:        config,
		DB:            db,
		GormDB:        gormDB,
		Router:        chi.NewRouter(),
		LedgerHandler: ledger.NewHandler(ledgerService),
		ReportHandler: report.NewHandler(reportService),
		Logger:        lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
