// Package config loads the service's YAML configuration, overlaying secrets
// from the environment, following the same Load/Save shape the teacher repo
// uses for its own configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Request   RequestConfig   `yaml:"request"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Providers ProvidersConfig `yaml:"providers"`
	Features  FeaturesConfig  `yaml:"features"`
	LLM       LLMConfig       `yaml:"llm"`
}

// RequestConfig holds HTTP request settings for provider clients.
type RequestConfig struct {
	Timeout         Duration      `yaml:"timeout"`          // 10s for most providers
	GeocoderTimeout Duration      `yaml:"geocoder_timeout"` // 3s, reverse-geocoder only
	Retries         int           `yaml:"retries"`          // <=3
	Backoff         BackoffConfig `yaml:"backoff"`
	InterCallDelay  Duration      `yaml:"inter_call_delay"` // 0.3-1.0s between calls to one provider
}

// BackoffConfig holds the fixed-delay retry setting.
type BackoffConfig struct {
	Delay Duration `yaml:"delay"` // fixed 2s per spec
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Throttle Duration    `yaml:"throttle"` // 30s repeat-INFO throttle window
}

// LogSettings holds settings for a specific logger sink.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// CacheConfig holds filesystem cache settings.
type CacheConfig struct {
	Dir string   `yaml:"dir"`
	TTL Duration `yaml:"ttl"` // 24h
}

// ProvidersConfig holds the outbound endpoint URLs for each provider.
type ProvidersConfig struct {
	OverpassURL     string `yaml:"overpass_url"`
	EncyclopediaURL string `yaml:"encyclopedia_url"` // .../api/rest_v1/page/summary/{title}
	WikibaseURL     string `yaml:"wikibase_url"`     // SPARQL endpoint
	DBpediaURL      string `yaml:"dbpedia_url"`      // SPARQL endpoint
	GeocoderURL     string `yaml:"geocoder_url"`     // .../reverse?format=jsonv2
	WebSearchURL    string `yaml:"web_search_url"`
	CSEURL          string `yaml:"cse_url"` // alternate web-search backend for diving sites
}

// FeaturesConfig holds the spec's enumerated feature flags.
type FeaturesConfig struct {
	EnableExtendedEnrichment bool `yaml:"enable_extended_enrichment"`
	EnableLLMFilter          bool `yaml:"enable_llm_filter"`
	EnableCSEDiveWreck       bool `yaml:"enable_cse_dive_wreck"`
	InvalidateCache          bool `yaml:"invalidate_cache"`
}

// LLMConfig holds settings for the optional LLM extractor.
type LLMConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"-"` // loaded from LLM_API_KEY env var only
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Request: RequestConfig{
			Timeout:         Duration(10 * time.Second),
			GeocoderTimeout: Duration(3 * time.Second),
			Retries:         3,
			Backoff: BackoffConfig{
				Delay: Duration(2 * time.Second),
			},
			InterCallDelay: Duration(500 * time.Millisecond),
		},
		Log: LogConfig{
			Server:   LogSettings{Path: "./logs/server.log", Level: "INFO"},
			Requests: LogSettings{Path: "./logs/requests.log", Level: "INFO"},
			Throttle: Duration(30 * time.Second),
		},
		Cache: CacheConfig{
			Dir: "./cache",
			TTL: Duration(24 * time.Hour),
		},
		Providers: ProvidersConfig{
			OverpassURL:     "https://overpass-api.de/api/interpreter",
			EncyclopediaURL: "https://en.wikipedia.org/api/rest_v1/page/summary/%s",
			WikibaseURL:     "https://query.wikidata.org/sparql",
			DBpediaURL:      "https://dbpedia.org/sparql",
			GeocoderURL:     "https://nominatim.openstreetmap.org/reverse",
			WebSearchURL:    "https://duckduckgo.com/html/",
		},
		Features: FeaturesConfig{},
		LLM: LLMConfig{
			Model: "gemini-2.5-flash-lite",
		},
	}
}

// Load loads the configuration from the given path, creating it with
// defaults if it does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}

		_ = godotenv.Load(".env.local", ".env")
		loadSecretsFromEnv(cfg)
		return cfg, nil
	}

	if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	_ = godotenv.Load(".env.local", ".env")
	loadSecretsFromEnv(cfg)
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# ZonePOI Engine Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
#   Distance: m (meters), km (kilometers), nm (nautical miles)

`)
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path if it
// does not already exist.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return Save(path, DefaultConfig())
}

func loadSecretsFromEnv(cfg *Config) {
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if model := os.Getenv("LLM_MODEL"); model != "" {
		cfg.LLM.Model = model
	}
}
