package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scout-genomics/scout/internal/api"
	"github.com/scout-genomics/scout/internal/config"
	"github.com/scout-genomics/scout/internal/domain"
	"github.com/scout-genomics/scout/internal/store"
)

func newServeCommand() *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if demo {
				return serveDemo(ctx)
			}
			return serve(ctx)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "serve an in-memory demo instance, no database required")
	return cmd
}

func serve(ctx context.Context) error {
	settings, logger, err := loadSettings()
	if err != nil {
		return err
	}

	st, db, err := openRepository(ctx, settings, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	deps, err := buildDependencies(st, settings, logger)
	if err != nil {
		return err
	}

	server := api.NewServer(settings.Server, deps, !settings.IsProduction())
	return server.Start(ctx)
}

// serveDemo runs against an in-memory store seeded from the demo fixtures,
// or from a built-in family when no fixtures are installed.
func serveDemo(ctx context.Context) error {
	demo := config.LoadDemoSettings()
	logger := newLogger(config.LoggingSettings{Level: demo.LogLevel, Format: demo.LogFormat})

	st := store.NewMemStore()
	if err := seedDemo(ctx, st, demo, logger); err != nil {
		return err
	}

	settings := &config.Settings{
		Environment: "demo",
		Server: config.ServerSettings{
			Host:         "127.0.0.1",
			Port:         demo.HTTPPort,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}

	deps, err := buildDependencies(st, settings, logger)
	if err != nil {
		return err
	}

	server := api.NewServer(settings.Server, deps, true)
	return server.Start(ctx)
}

func seedDemo(ctx context.Context, st store.Store, demo *config.DemoSettings, logger *logrus.Logger) error {
	institute := &domain.Institute{ID: demo.Institute, DisplayName: "Demo institute"}
	if err := loadFixture(demo.FixturePath("institute.json"), institute); err != nil {
		return err
	}
	if err := st.Institutes().UpsertInstitute(ctx, institute); err != nil {
		return err
	}

	user := &domain.User{
		Email:      "demo@scout.test",
		Name:       "Demo User",
		Roles:      []string{domain.RoleAdmin},
		Institutes: []string{institute.ID},
	}
	if err := loadFixture(demo.FixturePath("user.json"), user); err != nil {
		return err
	}
	if err := st.Users().UpsertUser(ctx, user); err != nil {
		return err
	}

	kase := &domain.Case{
		ID:          demo.CaseName,
		DisplayName: demo.CaseName,
		Owner:       institute.ID,
		GenomeBuild: "37",
		Status:      domain.StatusInactive,
	}
	if err := loadFixture(demo.FixturePath("case.json"), kase); err != nil {
		return err
	}
	if err := st.Cases().InsertCase(ctx, kase); err != nil {
		return err
	}

	var variants []*domain.Variant
	if err := loadFixture(demo.FixturePath("variants.json"), &variants); err != nil {
		return err
	}
	for _, variant := range variants {
		if variant.CaseID == "" {
			variant.CaseID = kase.ID
		}
		if err := st.Variants().InsertVariant(ctx, variant); err != nil {
			return err
		}
	}

	logger.WithFields(logrus.Fields{
		"institute": institute.ID,
		"case":      kase.ID,
		"variants":  len(variants),
	}).Info("Demo data seeded")
	return nil
}

// loadFixture overlays a JSON fixture onto target when the file exists.
func loadFixture(path string, target any) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(content, target); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", path, err)
	}
	return nil
}
