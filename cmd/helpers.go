package cmd

import (
	"fmt"
	"os"

	"github.com/arkadas/facerec/internal/config"
	"github.com/arkadas/facerec/internal/embedder"
	"github.com/arkadas/facerec/internal/encodings"
	"github.com/arkadas/facerec/internal/enrollment"
	"github.com/arkadas/facerec/internal/facematch"
	"github.com/arkadas/facerec/internal/imaging"
)

// newCore builds the encoding store and enrollment service from config.
// Shared by the CLI commands that operate on the store directly.
func newCore(cfg *config.Config) (*encodings.Store, *enrollment.Service, error) {
	store, err := encodings.NewStore(cfg.Face.EncodingsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing encoding store: %w", err)
	}
	client := embedder.NewClient(cfg.Embedding.URL)
	matcher := facematch.New(cfg.Face.MinConfidence)
	return store, enrollment.NewService(store, client, matcher), nil
}

// readImageFile loads an image from disk and downscales it if oversized.
func readImageFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	resized, err := imaging.Resize(data, imaging.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", path, err)
	}
	return resized, nil
}
