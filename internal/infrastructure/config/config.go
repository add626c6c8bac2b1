package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	SourceDB SourceDBConfig
	TargetDB TargetDBConfig
	Sync     SyncConfig
	Storage  StorageConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// SourceDBConfig holds the OpenCart (MySQL) connection settings. These are
// the operator-entered credentials; they may legitimately be absent, in
// which case the sync cannot start and the step endpoint reports a
// configuration warning instead of an error trace.
type SourceDBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Configured reports whether the minimum credentials are present.
// Password is allowed to be empty, matching the original integration.
func (s *SourceDBConfig) Configured() bool {
	return s.Host != "" && s.User != "" && s.DBName != ""
}

// DSN returns the MySQL connection string for the source catalog.
func (s *SourceDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True",
		s.User, s.Password, s.Host, s.Port, s.DBName)
}

// TargetDBConfig holds the target catalog (PostgreSQL) connection settings.
type TargetDBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the database connection string with properly escaped values
func (d *TargetDBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// SyncConfig holds the chunked synchronization settings.
type SyncConfig struct {
	// ChunkSize bounds how many variations one step materializes.
	ChunkSize int
	// ImageBaseURL prefixes source image paths for best-effort sideloading
	// (e.g. "https://shop.example.com/image"). Empty disables image import.
	ImageBaseURL string
}

// StorageConfig holds S3-compatible object storage settings for imported
// product images.
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CARTBRIDGE_ prefix (e.g. CARTBRIDGE_SOURCEDB_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CARTBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		SourceDB: SourceDBConfig{
			Host:     v.GetString("sourcedb.host"),
			Port:     v.GetInt("sourcedb.port"),
			User:     v.GetString("sourcedb.user"),
			Password: v.GetString("sourcedb.password"),
			DBName:   v.GetString("sourcedb.dbname"),
		},
		TargetDB: TargetDBConfig{
			Host:            v.GetString("targetdb.host"),
			Port:            v.GetInt("targetdb.port"),
			User:            v.GetString("targetdb.user"),
			Password:        v.GetString("targetdb.password"),
			DBName:          v.GetString("targetdb.dbname"),
			SSLMode:         v.GetString("targetdb.sslmode"),
			MaxOpenConns:    v.GetInt("targetdb.max_open_conns"),
			MaxIdleConns:    v.GetInt("targetdb.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("targetdb.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("targetdb.conn_max_idle_time"),
		},
		Sync: SyncConfig{
			ChunkSize:    v.GetInt("sync.chunk_size"),
			ImageBaseURL: v.GetString("sync.image_base_url"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("storage.enabled"),
			Endpoint:  v.GetString("storage.endpoint"),
			Region:    v.GetString("storage.region"),
			Bucket:    v.GetString("storage.bucket"),
			AccessKey: v.GetString("storage.access_key"),
			SecretKey: v.GetString("storage.secret_key"),
			UseSSL:    v.GetBool("storage.use_ssl"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "cartbridge"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// One step can materialize a full chunk against a remote database;
		// give writes more headroom than reads.
		cfg.HTTP.WriteTimeout = 120 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20
	}
	if cfg.SourceDB.Port == 0 {
		cfg.SourceDB.Port = 3306
	}
	if cfg.TargetDB.Host == "" {
		cfg.TargetDB.Host = "localhost"
	}
	if cfg.TargetDB.Port == 0 {
		cfg.TargetDB.Port = 5432
	}
	if cfg.TargetDB.User == "" {
		cfg.TargetDB.User = "postgres"
	}
	if cfg.TargetDB.DBName == "" {
		cfg.TargetDB.DBName = "cartbridge"
	}
	if cfg.TargetDB.SSLMode == "" {
		cfg.TargetDB.SSLMode = "disable"
	}
	if cfg.TargetDB.MaxOpenConns == 0 {
		cfg.TargetDB.MaxOpenConns = 25
	}
	if cfg.TargetDB.MaxIdleConns == 0 {
		cfg.TargetDB.MaxIdleConns = 5
	}
	if cfg.TargetDB.ConnMaxLifetime == 0 {
		cfg.TargetDB.ConnMaxLifetime = 30
	}
	if cfg.TargetDB.ConnMaxIdleTime == 0 {
		cfg.TargetDB.ConnMaxIdleTime = 10
	}
	if cfg.Sync.ChunkSize == 0 {
		cfg.Sync.ChunkSize = 20
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.TargetDB.MaxOpenConns <= 0 {
		return fmt.Errorf("targetdb.max_open_conns must be positive")
	}
	if c.TargetDB.MaxIdleConns < 0 {
		return fmt.Errorf("targetdb.max_idle_conns cannot be negative")
	}
	if c.TargetDB.MaxIdleConns > c.TargetDB.MaxOpenConns {
		return fmt.Errorf("targetdb.max_idle_conns (%d) cannot exceed targetdb.max_open_conns (%d)",
			c.TargetDB.MaxIdleConns, c.TargetDB.MaxOpenConns)
	}
	if c.Sync.ChunkSize <= 0 {
		return fmt.Errorf("sync.chunk_size must be positive")
	}
	if c.Storage.Enabled {
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required when storage is enabled")
		}
		if c.Storage.AccessKey == "" || c.Storage.SecretKey == "" {
			return fmt.Errorf("storage credentials are required when storage is enabled")
		}
	}

	if c.App.Env == "production" {
		if c.TargetDB.Password == "" {
			return fmt.Errorf("targetdb.password is required in production")
		}
		if c.TargetDB.SSLMode == "disable" {
			return fmt.Errorf("targetdb.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
