package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kfreiman/careercoach/internal/config"
	"github.com/kfreiman/careercoach/internal/storage"
)

var cleanupTTL time.Duration

// transcriptsCmd groups the archive maintenance commands
var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Inspect and clean the interview transcript archive",
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived interviews, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		archive := openArchive(ctx)

		summaries, err := archive.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to list transcripts: %v\n", err)
			os.Exit(1)
		}
		if len(summaries) == 0 {
			fmt.Println("No archived interviews found.")
			return
		}
		for _, s := range summaries {
			fmt.Printf("%s\t%s\t%s\t%d questions\t%s\n",
				s.URI, s.JobRole, s.Outcome, s.QuestionCount, s.ArchivedAt.Format(time.RFC3339))
		}
	},
}

var transcriptsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove transcripts older than the archive TTL",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		archive := openArchive(ctx)

		removed, err := archive.Cleanup(ctx, cleanupTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Removed %d transcript(s).\n", removed)
	},
}

// openArchive opens the archive configured by ARCHIVE_PATH and ARCHIVE_TTL
func openArchive(ctx context.Context) *storage.Archive {
	logger := loadLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}
	archive, err := storage.NewArchive(storage.ArchiveConfig{
		BasePath:   cfg.ArchivePath,
		DefaultTTL: cfg.ArchiveTTL,
		Logger:     logger,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to open transcript archive", "path", cfg.ArchivePath, "error", err)
		os.Exit(1)
	}
	return archive
}

func init() {
	transcriptsCleanupCmd.Flags().DurationVar(&cleanupTTL, "ttl", 0, "Override ARCHIVE_TTL (e.g. 168h)")

	transcriptsCmd.AddCommand(transcriptsListCmd, transcriptsCleanupCmd)
	rootCmd.AddCommand(transcriptsCmd)
}
