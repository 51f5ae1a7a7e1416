package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	GitHub struct {
		Token   string        `koanf:"token"`
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"github"`

	Gemini struct {
		APIKey      string        `koanf:"api_key"`
		Model       string        `koanf:"model"`
		Temperature float64       `koanf:"temperature"`
		Timeout     time.Duration `koanf:"timeout"`
	} `koanf:"gemini"`

	Render struct {
		Width          int           `koanf:"width"`
		Height         int           `koanf:"height"`
		Scale          float64       `koanf:"scale"`
		SettleDelay    time.Duration `koanf:"settle_delay"`
		CaptureTimeout time.Duration `koanf:"capture_timeout"`
		ChromePath     string        `koanf:"chrome_path"`
	} `koanf:"render"`

	Output struct {
		Dir string `koanf:"dir"`
	} `koanf:"output"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"github.base_url":        "https://api.github.com",
		"github.timeout":         "30s",
		"gemini.model":           "gemini-3-flash-preview",
		"gemini.temperature":     0.4,
		"gemini.timeout":         "5m",
		"render.width":           1280,
		"render.height":          720,
		"render.scale":           1.5,
		"render.settle_delay":    "200ms",
		"render.capture_timeout": "30s",
		"output.dir":             ".",
		"log.level":              "info",
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		// Try to load from default locations
		defaultPaths := []string{"./commitdeck.toml", "$HOME/.commitdeck.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix COMMITDECK_
	k.Load(env.Provider("COMMITDECK_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "COMMITDECK_")), "_", ".", 1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	// Create sample configuration
	sampleConfig := `# commitdeck configuration

[github]
# Optional: personal access token for private repositories and higher rate limits
token = ""
timeout = "30s"

[gemini]
api_key = "your-gemini-api-key"
model = "gemini-3-flash-preview"
temperature = 0.4
timeout = "5m"

[render]
width = 1280
height = 720
scale = 1.5
settle_delay = "200ms"
capture_timeout = "30s"
# chrome_path = "/usr/bin/chromium"

[output]
dir = "."

[log]
level = "info"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Gemini.APIKey == "" {
		return fmt.Errorf("gemini api_key is required")
	}

	if config.Gemini.Model == "" {
		return fmt.Errorf("gemini model is required")
	}

	if config.Render.Width <= 0 || config.Render.Height <= 0 {
		return fmt.Errorf("render width and height must be positive")
	}

	if config.Render.Scale <= 0 {
		return fmt.Errorf("render scale must be positive")
	}

	return nil
}
