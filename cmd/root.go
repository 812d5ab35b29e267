package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facerec",
	Short: "Face enrollment and matching service",
	Long: `Facerec stores per-user face embeddings and answers "which enrolled
user does this face belong to" queries. Face detection and embedding
extraction are delegated to an external embedding server; this tool owns
enrollment, persistence, and confidence-scored matching.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
