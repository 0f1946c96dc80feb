package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/astevko/randombmir/config"
	"github.com/astevko/randombmir/core/archive"
	"github.com/astevko/randombmir/db"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/repository"

	"github.com/spf13/cobra"
)

var backupDir string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Download every clip's audio asset for backup",
	Long: `Download all audio files referenced by the clip catalog into a local
directory mirroring the remote category layout. Files already present are
skipped, so interrupted runs can be restarted.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if backupDir == "" {
			backupDir = cfg.BackupDir
		}

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		downloader := archive.NewDownloader(repository.NewMySQLClipRepository(), backupDir)
		stats, err := downloader.DownloadAll(context.Background())
		if err != nil {
			log.Fatalf("Backup failed: %v", err)
		}

		fmt.Printf("Backup complete: %d total, %d downloaded, %d skipped, %d failed, %d bytes\n",
			stats.Total, stats.Downloaded, stats.Skipped, stats.Failed, stats.TotalBytes)
	},
}

func init() {
	rootCmd.AddCommand(backupCmd)

	backupCmd.Flags().StringVarP(&backupDir, "dir", "d", "", "Backup directory (defaults to BACKUP_DIR)")
}
