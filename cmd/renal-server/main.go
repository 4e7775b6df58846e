package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/renalcare/renalcare/internal/config"
	"github.com/renalcare/renalcare/internal/domain/alerts"
	"github.com/renalcare/renalcare/internal/domain/labs"
	"github.com/renalcare/renalcare/internal/domain/medication"
	"github.com/renalcare/renalcare/internal/domain/messages"
	"github.com/renalcare/renalcare/internal/domain/rules"
	"github.com/renalcare/renalcare/internal/domain/snapshot"
	"github.com/renalcare/renalcare/internal/engine"
	"github.com/renalcare/renalcare/internal/platform/audit"
	"github.com/renalcare/renalcare/internal/platform/auth"
	"github.com/renalcare/renalcare/internal/platform/db"
	"github.com/renalcare/renalcare/internal/platform/metrics"
	"github.com/renalcare/renalcare/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "renal-server",
		Short: "CKD decision-snapshot API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s)\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "migrations", "Migrations directory")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Printf("%03d %-40s %s\n", s.Version, s.Name, state)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "migrations", "Migrations directory")

	cmd.AddCommand(upCmd)
	cmd.AddCommand(statusCmd)
	return cmd
}

// engineConfig builds the engine configuration from the clinical defaults,
// applying any list overrides carried in the server config.
func engineConfig(cfg *config.Config) engine.Config {
	ec := engine.DefaultConfig()
	if len(cfg.RiskMedications) > 0 {
		ec.RiskMedications = cfg.RiskMedications
	}
	if len(cfg.RiskKeywords) > 0 {
		ec.RiskKeywords = cfg.RiskKeywords
	}
	return ec
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Audit event stream
	var auditPub audit.Publisher = audit.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPub := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic, logger)
		defer kafkaPub.Close()
		auditPub = kafkaPub
		logger.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.AuditTopic).Msg("audit publishing enabled")
	}

	// Metrics and decision engine
	m := metrics.New()
	eng := engine.NewEngine(engineConfig(cfg), logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			SigningKey: []byte(cfg.JWTSecret),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	// Repositories
	labResultRepo := labs.NewLabResultRepoPG(pool)
	vitalsRepo := labs.NewVitalsRepoPG(pool)
	overrideRepo := labs.NewOverrideRepoPG(pool)
	medRepo := medication.NewRepoPG(pool)
	msgRepo := messages.NewRepoPG(pool)
	alertRepo := alerts.NewRepoPG(pool)
	ruleRepo := rules.NewRepoPG(pool)
	chartRepo := snapshot.NewChartRepoPG(pool)
	reviewRepo := snapshot.NewReviewRepoPG(pool)
	tagRepo := snapshot.NewTagRepoPG(pool)

	// Services. The snapshot service assembles patient bundles, so it
	// doubles as the bundle source for ad-hoc rule evaluation.
	labSvc := labs.NewService(labResultRepo, vitalsRepo, overrideRepo)
	medSvc := medication.NewService(medRepo, eng.Config().RiskMedications)
	msgSvc := messages.NewService(msgRepo, eng.Config().RiskKeywords)
	alertSvc := alerts.NewService(alertRepo)
	snapSvc := snapshot.NewService(chartRepo, reviewRepo, tagRepo, eng, auditPub, m, logger)
	ruleSvc := rules.NewService(ruleRepo, eng, snapSvc, m)

	// Handlers
	labs.NewHandler(labSvc).RegisterRoutes(apiV1)
	medication.NewHandler(medSvc).RegisterRoutes(apiV1)
	messages.NewHandler(msgSvc).RegisterRoutes(apiV1)
	alerts.NewHandler(alertSvc).RegisterRoutes(apiV1)
	rules.NewHandler(ruleSvc).RegisterRoutes(apiV1)
	snapshot.NewHandler(snapSvc).RegisterRoutes(apiV1)

	// Health and metrics
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))
	e.GET("/metrics", m.Handler())

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
