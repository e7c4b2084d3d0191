package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-features/internal/policy"
	"insider-features/internal/record"
)

func TestSetupConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logon.csv"), []byte("id\n"), 0o644))
	t.Setenv("DATA_DIR", dir)
	t.Setenv("HTTP_CSV", "/elsewhere/http.csv")

	cfg, err := SetupConfig()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "logon.csv"), cfg.Sources.Logon)
	assert.Empty(t, cfg.Sources.Device, "missing default file leaves the stream empty")
	assert.Equal(t, "/elsewhere/http.csv", cfg.Sources.Http)
	assert.Equal(t, policy.Default(), cfg.Policy)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.Parallel)
	assert.Empty(t, cfg.KafkaURL)
	assert.Equal(t, "features", cfg.NatsSubject)
}

func TestSetupConfig_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("office_hours:\n  start: \"09:00\"\n  end: \"17:30\"\norganization_domain: corp.example\n"), 0o644))
	t.Setenv("POLICY_FILE", path)
	t.Setenv("PIPELINE_PARALLEL", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := SetupConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Parallel)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "corp.example", cfg.Policy.OrganizationDomain)

	start, _ := record.ParseClock("09:00")
	assert.Equal(t, start, cfg.Policy.OfficeHours.Start)
}

func TestSetupConfig_Errors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := SetupConfig()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("POLICY_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = SetupConfig()
	assert.Error(t, err)
}

func TestSinks_OutputOnly(t *testing.T) {
	cfg := &Config{Output: "-"}
	var buf bytes.Buffer
	multi, err := cfg.Sinks(context.Background(), &buf, cfg.Logger(&buf), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, multi.Len())
	require.NoError(t, multi.Close())

	cfg.Output = filepath.Join(t.TempDir(), "rows.jsonl")
	multi, err = cfg.Sinks(context.Background(), &buf, cfg.Logger(&buf), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, multi.Len())
	require.NoError(t, multi.Close())
	assert.FileExists(t, cfg.Output)

	cfg.Output = ""
	multi, err = cfg.Sinks(context.Background(), &buf, cfg.Logger(&buf), nil)
	require.NoError(t, err)
	assert.Zero(t, multi.Len())
}
