package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Discover DiscoverConfig `yaml:"discover" mapstructure:"discover"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Filings  FilingsConfig  `yaml:"filings" mapstructure:"filings"`
	Trustees TrusteesConfig `yaml:"trustees" mapstructure:"trustees"`
	Email    EmailConfig    `yaml:"email" mapstructure:"email"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// DiscoverConfig configures the discovery pipeline defaults.
type DiscoverConfig struct {
	Roles         []string `yaml:"roles" mapstructure:"roles"`
	BatchSize     int      `yaml:"batch_size" mapstructure:"batch_size"`
	MinConfidence float64  `yaml:"min_confidence" mapstructure:"min_confidence"`
	Checkpoint    string   `yaml:"checkpoint" mapstructure:"checkpoint"`
}

// FetchConfig configures the HTTP fetcher used by the website and filings
// adapters.
type FetchConfig struct {
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
}

// SearchConfig configures the web-search client used for website discovery
// and network-profile lookups.
type SearchConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// FilingsConfig configures the public-filings index.
type FilingsConfig struct {
	LocalDir string `yaml:"local_dir" mapstructure:"local_dir"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	FTPHost  string `yaml:"ftp_host" mapstructure:"ftp_host"`
	FTPPath  string `yaml:"ftp_path" mapstructure:"ftp_path"`
}

// TrusteesConfig configures the internal trustee-contact database adapter.
type TrusteesConfig struct {
	DatabaseURL         string  `yaml:"database_url" mapstructure:"database_url"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	MaxCandidates       int     `yaml:"max_candidates" mapstructure:"max_candidates"`
}

// EmailConfig configures email candidate generation and verification.
type EmailConfig struct {
	ProbesPerSec float64  `yaml:"probes_per_sec" mapstructure:"probes_per_sec"`
	TLDs         []string `yaml:"tlds" mapstructure:"tlds"`
}

// ServerConfig configures the results HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("CONTACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "contact-cli.db")
	v.SetDefault("discover.roles", []string{"General Counsel", "CFO"})
	v.SetDefault("discover.batch_size", 10)
	v.SetDefault("discover.min_confidence", 0.6)
	v.SetDefault("discover.checkpoint", "checkpoint.json")
	v.SetDefault("fetch.user_agent", "contact-cli/1.0 (+https://sellsadvisors.com/bot)")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.requests_per_sec", 2)
	v.SetDefault("search.base_url", "https://html.duckduckgo.com/html")
	v.SetDefault("search.timeout_secs", 15)
	v.SetDefault("trustees.similarity_threshold", 0.4)
	v.SetDefault("trustees.max_candidates", 10)
	v.SetDefault("email.probes_per_sec", 1)
	v.SetDefault("email.tlds", []string{".com", ".org", ".net", ".us"})
	v.SetDefault("server.port", 8080)
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
