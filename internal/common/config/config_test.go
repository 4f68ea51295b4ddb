package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "personal-webhook", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.PortRetries)
	assert.Equal(t, "https://api.clickup.com/api/v2", cfg.ClickUp.BaseURL)
	assert.Equal(t, 50000, cfg.ClickUp.DescriptionCharLimit)
	assert.Equal(t, "gemini-2.0-flash", cfg.Extraction.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Extraction.BaseURL)
	assert.Equal(t, 100000, cfg.Extraction.TranscriptCharLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Extraction.Model = "gemini-1.5-pro"
	applyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "gemini-1.5-pro", cfg.Extraction.Model)
}

func TestOverrideEmptyConfigFillsFromEnv(t *testing.T) {
	t.Setenv("CLICKUP_TOKEN", "pk_env")
	t.Setenv("CLICKUP_DEFAULT_LIST_ID", "901")
	t.Setenv("GEMINI_API_KEY", "gk_env")
	t.Setenv("TASK_CONFIDENCE_THRESHOLD", "0.7")

	cfg := &Config{}
	overrideEmptyConfig(cfg)

	assert.Equal(t, "pk_env", cfg.ClickUp.Token)
	assert.Equal(t, "901", cfg.ClickUp.DefaultRouteList)
	assert.Equal(t, "gk_env", cfg.Extraction.APIKey)
	assert.Equal(t, "0.7", cfg.Extraction.ConfidenceThreshold)
}

func TestOverrideEmptyConfigHonorsLegacyTokenName(t *testing.T) {
	t.Setenv("CLICKUP_TOKEN", "")
	t.Setenv("CLICKUP_API_TOKEN", "pk_legacy")

	cfg := &Config{}
	overrideEmptyConfig(cfg)

	assert.Equal(t, "pk_legacy", cfg.ClickUp.Token)
}

func TestOverrideEmptyConfigDoesNotClobber(t *testing.T) {
	t.Setenv("CLICKUP_TOKEN", "pk_env")

	cfg := &Config{}
	cfg.ClickUp.Token = "pk_file"
	overrideEmptyConfig(cfg)

	assert.Equal(t, "pk_file", cfg.ClickUp.Token)
}

func TestValidateConfig(t *testing.T) {
	valid := &Config{}
	applyDefaults(valid)
	assert.NoError(t, validateConfig(valid))

	badPort := &Config{}
	applyDefaults(badPort)
	badPort.Server.Port = -1
	assert.Error(t, validateConfig(badPort))

	badTimeout := &Config{}
	applyDefaults(badTimeout)
	badTimeout.ClickUp.Timeout = 0
	assert.Error(t, validateConfig(badTimeout))
}
