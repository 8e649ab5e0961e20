package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source          SourceConfig     `yaml:"source" mapstructure:"source"`
	Report          ReportConfig     `yaml:"report" mapstructure:"report"`
	Validation      ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Transformations []string         `yaml:"transformations" mapstructure:"transformations"`
	Store           StoreConfig      `yaml:"store" mapstructure:"store"`
	Export          ExportConfig     `yaml:"export" mapstructure:"export"`
	Server          ServerConfig     `yaml:"server" mapstructure:"server"`
	Job             JobConfig        `yaml:"job" mapstructure:"job"`
	Retry           RetryConfig      `yaml:"retry" mapstructure:"retry"`
	Log             LogConfig        `yaml:"log" mapstructure:"log"`
}

// SourceConfig points at the order table the dashboard serves.
type SourceConfig struct {
	Type            string `yaml:"type" mapstructure:"type"`
	URL             string `yaml:"url" mapstructure:"url"`
	TimestampLayout string `yaml:"timestamp_layout" mapstructure:"timestamp_layout"`
}

// ReportConfig configures report building.
type ReportConfig struct {
	TopN     int  `yaml:"top_n" mapstructure:"top_n"`
	Parallel bool `yaml:"parallel" mapstructure:"parallel"`
}

// ValidationConfig configures load-time row validation.
type ValidationConfig struct {
	SkipInvalid bool `yaml:"skip_invalid" mapstructure:"skip_invalid"`
}

// StoreConfig configures the SQLite job store.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures report exports.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// JobConfig configures asynchronous report jobs.
type JobConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// RetryConfig configures retries of remote source fetches.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay" mapstructure:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" mapstructure:"max_delay"`
	Multiplier   float64       `yaml:"multiplier" mapstructure:"multiplier"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.type", "csv")
	v.SetDefault("source.url", "main_data.csv")
	v.SetDefault("source.timestamp_layout", "2006-01-02 15:04:05")
	v.SetDefault("report.top_n", 10)
	v.SetDefault("report.parallel", false)
	v.SetDefault("validation.skip_invalid", false)
	v.SetDefault("transformations", []string{})
	v.SetDefault("store.path", "dashboard.db")
	v.SetDefault("export.dir", "outputs")
	v.SetDefault("export.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("job.timeout", "5m")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay", "1s")
	v.SetDefault("retry.max_delay", "30s")
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
