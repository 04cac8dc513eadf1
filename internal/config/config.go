// Package config loads application configuration from a YAML file,
// environment variables, and an optional .env file, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       App       `mapstructure:"app"`
	API       API       `mapstructure:"api"`
	WordPress WordPress `mapstructure:"wordpress"`
	Site      Site      `mapstructure:"site"`
	Notify    Notify    `mapstructure:"notify"`
}

// App holds general application configuration.
type App struct {
	Debug    bool   `mapstructure:"debug"`
	DataDir  string `mapstructure:"data_dir"`
	TestMode bool   `mapstructure:"test_mode"`
}

// API holds generative API configuration.
type API struct {
	Key          string        `mapstructure:"key"`
	Model        string        `mapstructure:"model"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestDelay time.Duration `mapstructure:"request_delay"` // Courtesy pacing between locations
}

// WordPress holds the target site credentials for the REST page store.
type WordPress struct {
	BaseURL     string `mapstructure:"base_url"`
	User        string `mapstructure:"user"`
	AppPassword string `mapstructure:"app_password"`
	IndexPageID int64  `mapstructure:"index_page_id"` // Parent page for all state pages
}

// Site holds site-level generation settings.
type Site struct {
	BaseURL           string           `mapstructure:"base_url"`           // Public site URL for links, schema, sitemap
	FoundedYear       int              `mapstructure:"founded_year"`       // Basis for the years-of-experience placeholders
	TestimonialBlocks map[string]int64 `mapstructure:"testimonial_blocks"` // Testimonial key to reusable block id
	ServicesBlockID   int64            `mapstructure:"services_block_id"`  // Reusable block id for the services section
	CTABlockID        int64            `mapstructure:"cta_block_id"`       // Reusable block id for the call-to-action
}

// Notify holds outbound webhook configuration.
type Notify struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// Load reads configuration with the standard lookup chain: .env file when
// present, then environment variables, then the YAML config file.
func Load(cfgFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".localpages")
	}

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; everything has env fallbacks.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.data_dir", defaultDataDir())
	viper.SetDefault("app.test_mode", false)
	viper.SetDefault("api.base_url", "https://api.anthropic.com")
	viper.SetDefault("api.max_tokens", 4096)
	viper.SetDefault("api.timeout", "300s")
	viper.SetDefault("api.request_delay", "2s")
	viper.SetDefault("site.base_url", "https://84em.com")
	viper.SetDefault("site.founded_year", 2012)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOCAL_PAGES_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("LOCAL_PAGES_MODEL"); v != "" {
		cfg.API.Model = v
	}
	if v := os.Getenv("LOCAL_PAGES_WEBHOOK_URL"); v != "" {
		cfg.Notify.WebhookURL = v
	}
	if v := os.Getenv("WORDPRESS_APP_PASSWORD"); v != "" {
		cfg.WordPress.AppPassword = v
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".localpages"
	}
	return filepath.Join(home, ".localpages")
}
