package main

import (
	"log/slog"
	"os"

	"github.com/qepting91/collage-tracker/internal/dashboard"
	"github.com/spf13/cobra"
)

var serveDiff string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve charts of the last diff.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		slog.Info("Starting Dashboard", "port", port, "diff", serveDiff)
		return dashboard.StartServer(serveDiff, port)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveDiff, "diff", "diff.json", "diff document to chart")
	rootCmd.AddCommand(serveCmd)
}
