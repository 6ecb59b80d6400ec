package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
camunda:
  broker_address: ${TEST_ZEEBE_ADDRESS}
database:
  postgres:
    host: localhost
    database: loans
    user: loans
  redis:
    address: localhost:6379
workflow:
  rates:
    HOME: 8.75
workers:
  calculate-affordability:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_DefaultsAndExpansion(t *testing.T) {
	t.Setenv("TEST_ZEEBE_ADDRESS", "zeebe:26500")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "loan-application-review", cfg.Camunda.ReviewProcessID)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 60.0, cfg.Workflow.MaxDTI)
	assert.Equal(t, 6, cfg.Workflow.MinTenure)
	assert.Equal(t, 360, cfg.Workflow.MaxTenure)
	assert.Equal(t, 30*time.Second, GetDuration(cfg.Drafts.AutoSaveInterval))
	assert.Equal(t, 10, cfg.Drafts.MaxPerApplicant)
	assert.False(t, cfg.Drafts.CompletionIncludeApplicant)
	assert.Equal(t, "loan-documents", cfg.Storage.MinIO.Bucket)

	// viper lower-cases map keys
	assert.Equal(t, 8.75, cfg.Workflow.Rates["home"])
}

func TestLoadFromFile_WorkerDefaults(t *testing.T) {
	t.Setenv("TEST_ZEEBE_ADDRESS", "zeebe:26500")

	cfg, err := LoadFromFile(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	w := GetWorkerConfig(cfg, "calculate-affordability")
	assert.False(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
	assert.Equal(t, 3, w.MaxRetries)

	assert.False(t, IsWorkerEnabled(cfg, "calculate-affordability"))
	assert.True(t, IsWorkerEnabled(cfg, "validate-loan-application"))
	assert.True(t, GetWorkerConfig(cfg, "validate-loan-application").Enabled)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing broker",
			body:    "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\n",
			wantErr: "camunda.broker_address is required",
		},
		{
			name:    "missing redis",
			body:    "camunda:\n  broker_address: z\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			wantErr: "database.redis.address is required",
		},
		{
			name:    "inverted tenure bounds",
			body:    "camunda:\n  broker_address: z\ndatabase:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r\nworkflow:\n  min_tenure: 400\n",
			wantErr: "workflow.min_tenure must not exceed workflow.max_tenure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestOverrideEmptyConfig(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("MINIO_ACCESS_KEY", "minio")

	cfg := &Config{}
	cfg.Storage.MinIO.AccessKey = "configured"
	overrideEmptyConfig(cfg)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "configured", cfg.Storage.MinIO.AccessKey)
}
