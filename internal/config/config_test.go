package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "namerelay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom("", nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "https://api.wiseoldman.net/league", cfg.SourceURL)
	assert.Equal(t, "https://api.wiseoldman.net/v2", cfg.DestinationURL)
	assert.Equal(t, "submitted_names.json", cfg.LedgerPath)
	assert.Equal(t, 1, cfg.LogMaxSizeMB)
	assert.Equal(t, 20, cfg.LogMaxBackups)
	assert.Empty(t, cfg.HistoryDB)
	assert.Zero(t, cfg.HTTPTimeout)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
source_url: https://league.example.com
ledger_path: /var/lib/namerelay/submitted.json
log_level: INFO
history_db: /var/lib/namerelay/history.db
http_timeout: 30s
`)

	cfg, err := LoadFrom(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://league.example.com", cfg.SourceURL)
	assert.Equal(t, "/var/lib/namerelay/submitted.json", cfg.LedgerPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/var/lib/namerelay/history.db", cfg.HistoryDB)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, "https://api.wiseoldman.net/v2", cfg.DestinationURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "ledger_path: from-file.json\n")

	cfg, err := LoadFrom(path, map[string]string{
		"NAMERELAY_LEDGER_PATH":     "from-env.json",
		"NAMERELAY_LOG_MAX_BACKUPS": "5",
		"NAMERELAY_HTTP_TIMEOUT":    "1m",
		"LEDGER_PATH":               "ignored-without-prefix.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env.json", cfg.LedgerPath)
	assert.Equal(t, 5, cfg.LogMaxBackups)
	assert.Equal(t, time.Minute, cfg.HTTPTimeout)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, ""), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "unknown key",
			file:    "sorce_url: https://typo.example.com\n",
			wantErr: "field sorce_url not found",
		},
		{
			name:    "invalid yaml",
			file:    "source_url: [\n",
			wantErr: "parse config",
		},
		{
			name:    "invalid url",
			file:    "destination_url: not a url\n",
			wantErr: "destination_url: must satisfy url",
		},
		{
			name:    "invalid level",
			env:     map[string]string{"NAMERELAY_LOG_LEVEL": "verbose"},
			wantErr: "log_level: must satisfy oneof=debug info warn error",
		},
		{
			name:    "invalid int",
			env:     map[string]string{"NAMERELAY_LOG_MAX_SIZE_MB": "big"},
			wantErr: "parse env",
		},
		{
			name:    "zero size",
			env:     map[string]string{"NAMERELAY_LOG_MAX_SIZE_MB": "0"},
			wantErr: "log_max_size_mb: must satisfy min=1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}
			_, err := LoadFrom(path, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.SourceURL = ""
	cfg.UserAgent = ""

	err := cfg.Validate()
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Problems, 2)
}
