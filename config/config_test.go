package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jgiet001-AI/GLP-Sync-2-sub003/circuitbreaker"
	"github.com/Jgiet001-AI/GLP-Sync-2-sub003/config"
)

func writeConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
	viper.Reset()
}

func TestLoad_ValidFile(t *testing.T) {
	writeConfigFile(t, `
breakers:
  - name: glp_api
    failure_threshold: 3
    recovery_timeout: "30s"
  - name: partner_portal
    failure_threshold: 5
    recovery_timeout: "1m"
`)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Len(t, cfg.Breakers, 2)

	assert.Equal(t, "glp_api", cfg.Breakers[0].Name)
	assert.Equal(t, 3, cfg.Breakers[0].FailureThreshold)
	assert.Equal(t, "30s", cfg.Breakers[0].RecoveryTimeout)
	assert.Equal(t, "partner_portal", cfg.Breakers[1].Name)
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "zero threshold",
			content: `
breakers:
  - name: glp_api
    failure_threshold: 0
    recovery_timeout: "30s"
`,
		},
		{
			name: "unparseable timeout",
			content: `
breakers:
  - name: glp_api
    failure_threshold: 3
    recovery_timeout: "soon"
`,
		},
		{
			name: "negative timeout",
			content: `
breakers:
  - name: glp_api
    failure_threshold: 3
    recovery_timeout: "-30s"
`,
		},
		{
			name: "missing name",
			content: `
breakers:
  - failure_threshold: 3
    recovery_timeout: "30s"
`,
		},
		{
			name:    "no breakers",
			content: `breakers: []`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfigFile(t, tt.content)

			cfg, err := config.Load()
			require.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestConfig_Register(t *testing.T) {
	cfg := &config.Config{
		Breakers: []config.BreakerConfig{
			{Name: "glp_api", FailureThreshold: 3, RecoveryTimeout: "30s"},
			{Name: "partner_portal", FailureThreshold: 5, RecoveryTimeout: "1m"},
		},
	}

	registry := circuitbreaker.NewRegistry()

	breakers, err := cfg.Register(registry)
	require.NoError(t, err)
	require.Len(t, breakers, 2)

	assert.Equal(t, 2, registry.Len())

	glp, ok := registry.Lookup("glp_api")
	require.True(t, ok)
	assert.Same(t, breakers[0], glp)

	// Configured threshold of 3 in effect.
	glp.RecordFailure()
	glp.RecordFailure()
	assert.Equal(t, circuitbreaker.StateClosed, glp.State())
	glp.RecordFailure()
	assert.Equal(t, circuitbreaker.StateOpen, glp.State())

	statuses := registry.Snapshots()
	require.Len(t, statuses, 2)
	assert.Equal(t, "glp_api", statuses[0].Name)
	assert.Equal(t, "partner_portal", statuses[1].Name)
}

func TestConfig_RegisterIsIdempotentPerName(t *testing.T) {
	cfg := &config.Config{
		Breakers: []config.BreakerConfig{
			{Name: "glp_api", FailureThreshold: 3, RecoveryTimeout: "30s"},
		},
	}

	registry := circuitbreaker.NewRegistry()

	first, err := cfg.Register(registry)
	require.NoError(t, err)

	second, err := cfg.Register(registry)
	require.NoError(t, err)

	assert.Same(t, first[0], second[0])
	assert.Equal(t, 1, registry.Len())
}

func TestConfig_RegisterRejectsBadDuration(t *testing.T) {
	cfg := &config.Config{
		Breakers: []config.BreakerConfig{
			{Name: "glp_api", FailureThreshold: 3, RecoveryTimeout: "later"},
		},
	}

	_, err := cfg.Register(circuitbreaker.NewRegistry())
	require.Error(t, err)
}
