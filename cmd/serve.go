package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kfreiman/careercoach/internal/career"
	"github.com/kfreiman/careercoach/internal/config"
	"github.com/kfreiman/careercoach/internal/interview"
	"github.com/kfreiman/careercoach/internal/llm"
	"github.com/kfreiman/careercoach/internal/mcp"
	"github.com/kfreiman/careercoach/internal/server"
	"github.com/kfreiman/careercoach/internal/storage"
	"github.com/kfreiman/careercoach/internal/telemetry"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and MCP server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := loadLogger()

		if err := runServe(ctx, logger); err != nil {
			logger.ErrorContext(ctx, "server stopped with error", "error", err)
			os.Exit(1)
		}
	},
}

func runServe(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		logger.ErrorContext(ctx, "failed to load config", "error", err)
		return err
	}

	gen, err := llm.New(ctx, cfg.LLM())
	if err != nil {
		logger.ErrorContext(ctx, "failed to create text generator",
			"provider", cfg.LLMProvider,
			"error", err,
		)
		return err
	}

	recorder := telemetry.Setup(ctx, cfg.Telemetry(version), logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Close(closeCtx); err != nil {
			logger.WarnContext(closeCtx, "failed to flush metrics", "error", err)
		}
	}()

	managerCfg := interview.ManagerConfig{
		Generator: gen,
		Budgets:   cfg.Budgets(),
		Timeout:   cfg.GenerationTimeout,
		Logger:    logger,
		Recorder:  recorder,
	}
	serverDeps := server.Deps{Logger: logger}
	mcpCfg := mcp.ServerConfig{Logger: logger, Version: version}

	if cfg.ArchiveEnabled {
		archive, err := storage.NewArchive(storage.ArchiveConfig{
			BasePath:   cfg.ArchivePath,
			DefaultTTL: cfg.ArchiveTTL,
			Logger:     logger,
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to open transcript archive",
				"path", cfg.ArchivePath,
				"error", err,
			)
			return err
		}
		managerCfg.Archiver = archive
		serverDeps.Archive = archive
		mcpCfg.Transcripts = archive
		go runArchiveCleanup(ctx, archive, cfg.ArchiveTTL, logger)
	}

	manager, err := interview.NewManager(managerCfg)
	if err != nil {
		return err
	}
	advisor, err := career.NewAdvisor(career.AdvisorConfig{
		Generator: gen,
		Timeout:   cfg.GenerationTimeout,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	mcpCfg.Interviewer = manager
	serverDeps.Interviews = manager
	serverDeps.Advisor = advisor
	serverDeps.MCP = mcp.NewServer(mcpCfg).Handler()

	logger.InfoContext(ctx, "careercoach starting",
		"version", version,
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
		"archive_enabled", cfg.ArchiveEnabled,
		"session_ttl", cfg.SessionTTL,
	)

	srv := server.New(server.Config{
		Port:           cfg.Port,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SessionTTL:     cfg.SessionTTL,
		SweepInterval:  cfg.SessionSweepInterval,
		Version:        version,
	}, serverDeps)

	return srv.Run(ctx)
}

// runArchiveCleanup removes expired transcripts at startup and then hourly
func runArchiveCleanup(ctx context.Context, archive *storage.Archive, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		if _, err := archive.Cleanup(ctx, ttl); err != nil {
			logger.WarnContext(ctx, "archive cleanup failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
