package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like CLICKUP_TOKEN
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the usual relative locations plus the
// project root, so the binary and the tests behave the same.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders inside string config values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "personal-webhook"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.PortRetries == 0 {
		cfg.Server.PortRetries = 5
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.ClickUp.BaseURL == "" {
		cfg.ClickUp.BaseURL = "https://api.clickup.com/api/v2"
	}
	if cfg.ClickUp.Timeout == 0 {
		cfg.ClickUp.Timeout = 30
	}
	if cfg.ClickUp.DescriptionCharLimit == 0 {
		cfg.ClickUp.DescriptionCharLimit = 50000
	}
	if cfg.Extraction.Model == "" {
		cfg.Extraction.Model = "gemini-2.0-flash"
	}
	if cfg.Extraction.BaseURL == "" {
		cfg.Extraction.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 60
	}
	if cfg.Extraction.TranscriptCharLimit == 0 {
		cfg.Extraction.TranscriptCharLimit = 100000
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideEmptyConfig applies well-known environment variables for values
// that are still empty after file load and placeholder expansion.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty := func(dst *string, envKeys ...string) {
		if *dst != "" {
			return
		}
		for _, key := range envKeys {
			if val := os.Getenv(key); val != "" {
				*dst = val
				return
			}
		}
	}

	setIfEmpty(&cfg.ClickUp.Token, "CLICKUP_TOKEN", "CLICKUP_API_TOKEN")
	setIfEmpty(&cfg.ClickUp.DefaultRouteList, "CLICKUP_DEFAULT_LIST_ID")
	setIfEmpty(&cfg.ClickUp.TaskListID, "CLICKUP_TASK_LIST_ID")
	setIfEmpty(&cfg.ClickUp.DefaultStatus, "CLICKUP_TASK_STATUS")
	setIfEmpty(&cfg.ClickUp.Assignees, "CLICKUP_TASK_ASSIGNEES")
	setIfEmpty(&cfg.ClickUp.Assignee, "CLICKUP_TASK_ASSIGNEE")
	setIfEmpty(&cfg.ClickUp.TaskCreation, "CLICKUP_TASK_CREATION")
	setIfEmpty(&cfg.Routing.RoutesJSON, "CLICKUP_ROUTES")
	setIfEmpty(&cfg.Extraction.APIKey, "GEMINI_API_KEY")
	setIfEmpty(&cfg.Extraction.ConfidenceThreshold, "TASK_CONFIDENCE_THRESHOLD")
}
