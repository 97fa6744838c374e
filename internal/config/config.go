package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override, e.g. TRYGGINN_API_BASE_URL.
const EnvPrefix = "TRYGGINN"

// Config holds everything the client needs to reach the backend and
// store local preferences. Fields have no envconfig defaults so that an
// unset variable keeps the value from the defaults or the YAML file.
type Config struct {
	APIBaseURL       string        `yaml:"api_base_url" envconfig:"API_BASE_URL"`
	RequestTimeout   time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	FanOutLimit      int           `yaml:"fan_out_limit" envconfig:"FAN_OUT_LIMIT"`
	DBPath           string        `yaml:"db_path" envconfig:"DB_PATH"`
	LogFile          string        `yaml:"log_file" envconfig:"LOG_FILE"`
	LogCalls         bool          `yaml:"log_calls" envconfig:"LOG_CALLS"`
	DefaultDaycareID int64         `yaml:"default_daycare_id" envconfig:"DEFAULT_DAYCARE_ID"`
}

// DefaultConfig returns a Config pointing at a locally running backend.
func DefaultConfig() Config {
	dir := DataDir()
	return Config{
		APIBaseURL:       "http://localhost:8080/api",
		RequestTimeout:   10 * time.Second,
		FanOutLimit:      8,
		DBPath:           filepath.Join(dir, "trygginn.db"),
		LogFile:          filepath.Join(dir, "trygginn.log"),
		LogCalls:         false,
		DefaultDaycareID: 1,
	}
}

// DataDir is where the database, log and config file live by default.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trygginn"
	}
	return filepath.Join(home, ".trygginn")
}

// ConfigPath resolves the YAML file location, honouring TRYGGINN_CONFIG.
func ConfigPath() string {
	if v := os.Getenv(EnvPrefix + "_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(DataDir(), "config.yaml")
}

// Load layers defaults, then the YAML file at path (a missing file is
// fine), then environment variables.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("reading environment: %w", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values that would make the client unusable.
func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("api_base_url must not be empty")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("api_base_url %q must start with http:// or https://", c.APIBaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.FanOutLimit < 1 {
		return fmt.Errorf("fan_out_limit must be at least 1, got %d", c.FanOutLimit)
	}
	return nil
}
