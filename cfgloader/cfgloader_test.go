package cfgloader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/errorbot/cfgloader"
)

type reporterConfig struct {
	APIKey  string `yaml:"api_key" validate:"required" mask:"true"`
	Project string `yaml:"project" validate:"required"`
	Level   string `yaml:"level" validate:"oneof=debug info warn error" default:"info"`
}

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoad(t *testing.T) {
	t.Setenv("ERRORBOT_API_KEY", "eb_test_key")
	dir := writeConfig(t, cfgloader.EnvTest, "api_key: ${ERRORBOT_API_KEY}\nproject: billing\n")

	cfg, err := cfgloader.Load[reporterConfig](
		cfgloader.WithDir(dir),
		cfgloader.WithEnvironment(cfgloader.EnvTest),
		cfgloader.WithSilent(),
	)

	require.NoError(t, err)
	assert.Equal(t, reporterConfig{APIKey: "eb_test_key", Project: "billing", Level: "info"}, cfg)
}

func TestLoad_EnvironmentFromVariable(t *testing.T) {
	t.Setenv("ENVIRONMENT", cfgloader.EnvLocal)
	dir := writeConfig(t, cfgloader.EnvLocal, "api_key: k\nproject: p\nlevel: debug\n")

	cfg, err := cfgloader.Load[reporterConfig](cfgloader.WithDir(dir))

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Level)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name          string
		env           string
		body          string
		errorContains string
	}{
		{
			name:          "invalid environment",
			env:           "qa",
			body:          "api_key: k\nproject: p\n",
			errorContains: "ENVIRONMENT is not set or invalid",
		},
		{
			name:          "missing required field",
			env:           cfgloader.EnvTest,
			body:          "project: p\n",
			errorContains: "reporterConfig.APIKey: required",
		},
		{
			name:          "oneof violation",
			env:           cfgloader.EnvTest,
			body:          "api_key: k\nproject: p\nlevel: loud\n",
			errorContains: "reporterConfig.Level: oneof=debug info warn error",
		},
		{
			name:          "malformed yaml",
			env:           cfgloader.EnvTest,
			body:          "api_key: [unterminated\n",
			errorContains: "failed to unmarshal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeConfig(t, cfgloader.EnvTest, tc.body)

			_, err := cfgloader.Load[reporterConfig](
				cfgloader.WithDir(dir),
				cfgloader.WithEnvironment(tc.env),
				cfgloader.WithSilent(),
			)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
			assert.True(t, errx.IsCodeIn(err, cfgloader.CodeInvalidConfig))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := cfgloader.Load[reporterConfig](
		cfgloader.WithDir(t.TempDir()),
		cfgloader.WithEnvironment(cfgloader.EnvStaging),
		cfgloader.WithSilent(),
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_PointerType(t *testing.T) {
	_, err := cfgloader.Load[*reporterConfig](cfgloader.WithSilent())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be a pointer")
}
