package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	ClickUp    ClickUpConfig    `mapstructure:"clickup"`
	Extraction ExtractionConfig `mapstructure:"extraction"`
	Routing    RoutingConfig    `mapstructure:"routing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	PortRetries     int `mapstructure:"port_retries"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
}

// ClickUpConfig holds the shared ClickUp credentials and the global
// fallbacks used when a route does not override them.
type ClickUpConfig struct {
	Token     string `mapstructure:"token"`
	BaseURL   string `mapstructure:"base_url"`
	Timeout   int    `mapstructure:"timeout"` // seconds
	NotifyAll bool   `mapstructure:"notify_all"`

	// DefaultRouteList is the comment target of the synthetic "default"
	// route used when no configured route matches an event.
	DefaultRouteList string `mapstructure:"default_route_list"`

	// TaskListID is the global fallback list for created tasks.
	TaskListID    string `mapstructure:"task_list_id"`
	DefaultStatus string `mapstructure:"default_status"`

	// Assignees is a comma-separated id list; Assignee is the legacy
	// single-id variable kept for backwards compatibility.
	Assignees string `mapstructure:"assignees"`
	Assignee  string `mapstructure:"assignee"`

	// TaskCreation disables task creation globally when set to a
	// case-insensitive false/0/no/off.
	TaskCreation string `mapstructure:"task_creation"`

	// DescriptionCharLimit caps the parent task description length.
	DescriptionCharLimit int `mapstructure:"description_char_limit"`
}

// ExtractionConfig configures the Gemini action-item extraction call.
type ExtractionConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds

	// ConfidenceThreshold is kept as a string so that a non-numeric value
	// degrades to the built-in default instead of failing the load.
	ConfidenceThreshold string `mapstructure:"confidence_threshold"`

	// TranscriptCharLimit caps how much transcript is sent for extraction.
	TranscriptCharLimit int `mapstructure:"transcript_char_limit"`
}

// RoutingConfig carries the destination route table as raw JSON; parsing
// and per-entry validation happen in the routing package.
type RoutingConfig struct {
	RoutesJSON string `mapstructure:"routes_json"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", cfg.Server.Port)
	}
	if cfg.ClickUp.Timeout <= 0 {
		return fmt.Errorf("clickup.timeout must be positive")
	}
	if cfg.Extraction.Timeout <= 0 {
		return fmt.Errorf("extraction.timeout must be positive")
	}
	return nil
}
