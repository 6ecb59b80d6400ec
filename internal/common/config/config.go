// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Storage  StorageConfig           `mapstructure:"storage"`
	Workflow WorkflowConfig          `mapstructure:"workflow"`
	Drafts   DraftsConfig            `mapstructure:"drafts"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress   string `mapstructure:"broker_address"`
	MaxJobsActive   int    `mapstructure:"max_jobs_active"`
	Timeout         int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout  int    `mapstructure:"request_timeout"` // milliseconds
	ReviewProcessID string `mapstructure:"review_process_id"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig holds the object store used for uploaded documents.
type StorageConfig struct {
	MinIO MinIOConfig `mapstructure:"minio"`
	// PresignTTL is how long document URLs stay valid, in milliseconds.
	PresignTTL int `mapstructure:"presign_ttl"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// WorkflowConfig tunes eligibility rules of the application workflow.
type WorkflowConfig struct {
	// Rates are annual interest percentages keyed by loan type.
	Rates         map[string]float64 `mapstructure:"rates"`
	MaxDTI        float64            `mapstructure:"max_dti"`
	MinAmount     float64            `mapstructure:"min_amount"`
	MaxAmount     float64            `mapstructure:"max_amount"`
	MinTenure     int                `mapstructure:"min_tenure"`
	MaxTenure     int                `mapstructure:"max_tenure"`
	SubmitTimeout int                `mapstructure:"submit_timeout"` // milliseconds
}

type DraftsConfig struct {
	AutoSaveInterval           int  `mapstructure:"auto_save_interval"` // milliseconds
	MaxPerApplicant            int  `mapstructure:"max_per_applicant"`
	TTL                        int  `mapstructure:"ttl"` // milliseconds, 0 keeps drafts forever
	CompletionIncludeApplicant bool `mapstructure:"completion_includes_applicant"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
