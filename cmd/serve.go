package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arkadas/facerec/internal/config"
	"github.com/arkadas/facerec/internal/embedder"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/facematch"
	"github.com/arkadas/facerec/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the face recognition API server",
	Long: `Start the face recognition API server.
Loads every persisted encoding into memory, then serves enrollment,
matching, training, and user management endpoints over HTTP.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to WEB_PORT or 8000)")
	serveCmd.Flags().String("host", "", "Host to bind to (defaults to WEB_HOST or 0.0.0.0)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	port := mustGetInt(cmd, "port")
	if port == 0 {
		port = cfg.Server.Port
	}
	host := mustGetString(cmd, "host")
	if host == "" {
		host = cfg.Server.Host
	}

	if cfg.Server.APIKey == "" {
		fmt.Println("Warning: AI_SERVICE_API_KEY not set. Authentication disabled.")
	}

	fmt.Printf("Loading face encodings from %s...\n", cfg.Face.EncodingsPath)
	store, err := encodings.NewStore(cfg.Face.EncodingsPath)
	if err != nil {
		return fmt.Errorf("initializing encoding store: %w", err)
	}
	fmt.Printf("Encoding store ready with %d enrolled users\n", store.Count())

	client := embedder.NewClient(cfg.Embedding.URL)
	matcher := facematch.New(cfg.Face.MinConfidence)
	svc := enrollment.NewService(store, client, matcher)

	server := web.NewServer(cfg, svc, store, port, host)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting face recognition API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
