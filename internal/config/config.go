package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

type Config struct {
	Server    ServerConfig
	Face      FaceConfig
	Embedding EmbeddingConfig
	Models    ModelsConfig
}

type ServerConfig struct {
	Host   string
	Port   int
	APIKey string // X-API-Key value; empty disables authentication (dev mode)
}

type FaceConfig struct {
	EncodingsPath string  // directory holding one JSON file per enrolled user
	MinConfidence float64 // confidence floor for match results
	Tolerance     float64 // historical matching knob; surfaced but not applied beyond the confidence floor
}

type EmbeddingConfig struct {
	URL string // embedding server base URL, defaults to http://localhost:8000
	Dim int    // expected embedding dimensionality, defaults to 128
}

// ModelsConfig holds distance conventions for known embedding models,
// loaded from the embedded models.yaml.
type ModelsConfig struct {
	Models map[string]ModelProfile `yaml:"models"`
}

// ModelProfile pins one embedding model's distance convention. Confidence is
// computed as 1 - distance, so the usable range depends on MaxDistance.
type ModelProfile struct {
	Dim              int     `yaml:"dim"`
	MaxDistance      float64 `yaml:"max_distance"`
	DefaultTolerance float64 `yaml:"default_tolerance"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// envString reads an environment variable, falling back to a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

func Load() *Config {
	var models ModelsConfig
	if err := yaml.Unmarshal(modelsYAML, &models); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded models.yaml: " + err.Error())
	}

	return &Config{
		Server: ServerConfig{
			Host:   envString("WEB_HOST", "0.0.0.0"),
			Port:   envInt("WEB_PORT", 8000),
			APIKey: os.Getenv("AI_SERVICE_API_KEY"),
		},
		Face: FaceConfig{
			EncodingsPath: envString("FACE_ENCODINGS_PATH", "./data/encodings"),
			MinConfidence: envFloat("MIN_CONFIDENCE_SCORE", 0.7),
			Tolerance:     envFloat("FACE_RECOGNITION_TOLERANCE", 0.6),
		},
		Embedding: EmbeddingConfig{
			URL: envString("EMBEDDING_URL", "http://localhost:8000"),
			Dim: envInt("EMBEDDING_DIM", 128),
		},
		Models: models,
	}
}

// GetModelProfile returns the distance profile for an embedding model
// reported by the embedding server. Unknown models get a conservative
// default.
func (c *Config) GetModelProfile(modelName string) ModelProfile {
	if profile, ok := c.Models.Models[modelName]; ok {
		return profile
	}
	return ModelProfile{Dim: c.Embedding.Dim, MaxDistance: 2.0, DefaultTolerance: c.Face.Tolerance}
}
