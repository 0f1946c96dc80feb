package cmd

import (
	"github.com/astevko/randombmir/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the RandomBMIR server",
	Long:  `Start the HTTP server providing the clip catalog, session state, transcript and player APIs.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
