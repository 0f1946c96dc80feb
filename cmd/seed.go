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
	"github.com/astevko/randombmir/storage"

	"github.com/spf13/cobra"
)

var (
	seedDir         string
	seedSkipUploads bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import clips from a directory of media files",
	Long: `Import a directory of .mp3 files into the clip catalog. For each file the
category is derived from its numeric filename prefix, the audio URL is built
against the remote storage base, and sidecar .title and .txt files supply the
display title and transcript. Already-imported filenames are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.DB.Close()

		if err := db.InitDB(); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}

		var transcripts archive.TranscriptWriter
		if !seedSkipUploads {
			if err := storage.InitMinio(cfg); err != nil {
				log.Fatalf("Failed to initialize MinIO: %v", err)
			}
			transcripts = storage.NewTranscriptStore(storage.GetMinioClient(), cfg.MinioBucket)
		}

		importer := archive.NewImporter(repository.NewMySQLClipRepository(), transcripts, cfg.AudioBaseURL)
		stats, err := importer.ImportDir(context.Background(), seedDir)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}

		fmt.Printf("Import complete: %d total, %d imported, %d skipped, %d failed\n",
			stats.Total, stats.Imported, stats.Skipped, stats.Failed)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVarP(&seedDir, "dir", "d", "audio_files", "Directory containing .mp3 files with sidecar .title/.txt files")
	seedCmd.Flags().BoolVar(&seedSkipUploads, "skip-uploads", false, "Do not upload transcript files to object storage")
}
