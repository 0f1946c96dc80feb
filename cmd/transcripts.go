package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/astevko/randombmir/config"
	"github.com/astevko/randombmir/logger"
	"github.com/astevko/randombmir/storage"

	"github.com/spf13/cobra"
)

var (
	transcriptsPrefix string
	transcriptsShow   string
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Inspect stored transcript files",
	Long:  `List transcript objects held in object storage, or print one transcript's content.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		store := storage.NewTranscriptStore(storage.GetMinioClient(), cfg.MinioBucket)
		ctx := context.Background()

		if transcriptsShow != "" {
			content, err := store.ReadTranscript(ctx, transcriptsShow)
			if err != nil {
				log.Fatalf("Failed to read transcript %s: %v", transcriptsShow, err)
			}
			fmt.Println(content)
			return
		}

		names, err := store.ListTranscripts(ctx, transcriptsPrefix)
		if err != nil {
			log.Fatalf("Failed to list transcripts: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		fmt.Printf("\n%d transcript(s)\n", len(names))
	},
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)

	transcriptsCmd.Flags().StringVarP(&transcriptsPrefix, "prefix", "p", "", "Filter transcript names by prefix")
	transcriptsCmd.Flags().StringVarP(&transcriptsShow, "show", "s", "", "Print the content of one transcript (.txt resource name)")
}
