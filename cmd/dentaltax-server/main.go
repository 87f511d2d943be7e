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

	"github.com/dentaltax/dentaltax/internal/config"
	"github.com/dentaltax/dentaltax/internal/domain/patient"
	"github.com/dentaltax/dentaltax/internal/domain/report"
	"github.com/dentaltax/dentaltax/internal/domain/settings"
	"github.com/dentaltax/dentaltax/internal/domain/taxonomy"
	"github.com/dentaltax/dentaltax/internal/platform/db"
	"github.com/dentaltax/dentaltax/internal/platform/middleware"
)

func main() {
	root := &cobra.Command{
		Use:   "dentaltax-server",
		Short: "Dental clinic tax report server",
	}
	root.AddCommand(serveCmd(), migrateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("validate config: %w", err)
			}
			logger := newLogger(cfg)

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL:             cfg.DatabaseURL,
				MaxConns:        cfg.DBMaxConns,
				MinConns:        cfg.DBMinConns,
				MaxConnLifetime: cfg.DBConnLifetime,
				MaxConnIdleTime: cfg.DBConnIdleTime,
			})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()
			logger.Info().Msg("database connected")

			store := settings.NewStore(seedSettings(cfg))

			taxonomyRepo := taxonomy.NewTaxonomyRepoPG(pool)
			taxonomySvc := taxonomy.NewService(taxonomyRepo)
			patientRepo := patient.NewPatientRepoPG(pool)
			patientSvc := patient.NewService(patientRepo)
			reportRepo := report.NewReportRepoPG(pool)
			reportSvc := report.NewService(reportRepo)

			e := echo.New()
			e.HideBanner = true
			e.Use(middleware.RequestID())
			e.Use(middleware.Recovery(logger))
			e.Use(middleware.Logger(logger))
			e.Use(middleware.SecurityHeaders())
			e.Use(middleware.BodyLimit("1M"))
			e.Use(middleware.RequestTimeout(30 * time.Second))
			e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
				AllowOrigins: cfg.CORSOrigins,
				AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			}))

			e.GET("/health", func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})
			e.GET("/health/db", db.HealthHandler(pool))

			api := e.Group("/api/v1")
			taxonomy.NewHandler(taxonomySvc, store).RegisterRoutes(api)
			patient.NewHandler(patientSvc).RegisterRoutes(api)
			settings.NewHandler(store, patientSvc).RegisterRoutes(api)
			report.NewHandler(reportSvc, store).RegisterRoutes(api)

			go func() {
				addr := ":" + cfg.Port
				logger.Info().Str("addr", addr).Msg("server starting")
				if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
			<-quit

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}

// seedSettings pre-fills the report settings with the clinic requisites
// from the environment so a fresh server starts usable.
func seedSettings(cfg *config.Config) *settings.Settings {
	s := settings.New()
	s.ClinicName = cfg.ClinicName
	s.TaxID = cfg.ClinicTaxID
	s.RegistrationCode = cfg.ClinicRegCode
	s.ExportPath = cfg.ExportPath
	if cfg.CopiesCount > 0 {
		s.CopiesCount = cfg.CopiesCount
	}
	return s
}

func migrateCmd() *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the development schema",
	}

	var dir string
	migrate.PersistentFlags().StringVar(&dir, "dir", "migrations", "migrations directory")

	withMigrator := func(run func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := newLogger(cfg)

			ctx := cmd.Context()
			pool, err := db.NewPool(ctx, db.PoolConfig{
				URL:             cfg.DatabaseURL,
				MaxConns:        cfg.DBMaxConns,
				MinConns:        cfg.DBMinConns,
				MaxConnLifetime: cfg.DBConnLifetime,
				MaxConnIdleTime: cfg.DBConnIdleTime,
			})
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return run(ctx, db.NewMigrator(pool, dir), logger)
		}
	}

	migrate.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
			applied, err := m.Up(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("applied", applied).Msg("migrations applied")
			return nil
		}),
	})

	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: withMigrator(func(ctx context.Context, m *db.Migrator, logger zerolog.Logger) error {
			statuses, err := m.Status(ctx)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				state := "pending"
				if st.Applied {
					state = "applied"
				}
				fmt.Printf("%4d  %-40s %s\n", st.Version, st.Name, state)
			}
			return nil
		}),
	})

	return migrate
}
