package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends selectable with storage.backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendS3     = "s3"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	Log      LogConfig      `mapstructure:"log"`
	Timer    TimerConfig    `mapstructure:"timer"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// GinMode is passed to gin.SetMode ("debug", "release", "test")
	GinMode string `mapstructure:"gin_mode"`
}

// StorageConfig selects where the key-value state is persisted.
type StorageConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig is the MongoDB connection, used by the mongo backend.
type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	Prefix          string `mapstructure:"prefix"` // Object key prefix, e.g. "bodyapp/"
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	JSON     bool   `mapstructure:"json"`
	File     string `mapstructure:"file"` // Empty means stdout only
	ToStdout bool   `mapstructure:"to_stdout"`
}

// TimerConfig tunes the rest timer.
type TimerConfig struct {
	// TickInterval is how often the countdown decrements (one second in production)
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// DefaultRest is used when a completed set has no rest time
	DefaultRest time.Duration `mapstructure:"default_rest"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Nested keys map to env vars, e.g. storage.backend -> STORAGE_BACKEND
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.sqlite_path", "bodyapp.db")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "bodyapp")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.prefix", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("timer.tick_interval", "1s")
	v.SetDefault("timer.default_rest", "60s")

	err = v.ReadInConfig()
	// A missing config file is fine, defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("1s", "60s") decode straight into time.Duration fields.
	if err = v.Unmarshal(&config); err != nil {
		return
	}

	return config, nil
}
