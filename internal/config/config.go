package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Pool     PoolConfig     `mapstructure:"pool"`
	Startup  StartupConfig  `mapstructure:"startup"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite or postgres
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type MQTTConfig struct {
	Broker      string `mapstructure:"broker"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	ClientID    string `mapstructure:"client_id"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

// PoolConfig mirrors the Lazy Device Pool's recognized options.
type PoolConfig struct {
	IdleTimeoutMS    int `mapstructure:"idle_timeout_ms"`
	MaxDevices       int `mapstructure:"max_devices"`
	ReaperIntervalMS int `mapstructure:"reaper_interval_ms"`
}

func (p PoolConfig) IdleTimeout() time.Duration {
	return time.Duration(p.IdleTimeoutMS) * time.Millisecond
}

func (p PoolConfig) ReaperInterval() time.Duration {
	return time.Duration(p.ReaperIntervalMS) * time.Millisecond
}

// StartupConfig mirrors Multi-Device Startup's recognized options.
type StartupConfig struct {
	PortRangeStart    int `mapstructure:"port_range_start"`
	PortRangeEnd      int `mapstructure:"port_range_end"`
	ParallelWorkers   int `mapstructure:"parallel_workers"`
	PerTaskTimeoutMS  int `mapstructure:"per_task_timeout_ms"`
}

func (s StartupConfig) PerTaskTimeout() time.Duration {
	return time.Duration(s.PerTaskTimeoutMS) * time.Millisecond
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/data")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("DEVICESIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/devicesim.db")

	// MQTT defaults
	v.SetDefault("mqtt.broker", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.client_id", "devicesim")
	v.SetDefault("mqtt.topic_prefix", "devicesim")

	// Pool defaults: 30 minute idle timeout, 10,000 device cap, reaper
	// period of half the idle timeout.
	v.SetDefault("pool.idle_timeout_ms", 30*60*1000)
	v.SetDefault("pool.max_devices", 10_000)
	v.SetDefault("pool.reaper_interval_ms", 15*60*1000)

	// Startup defaults: 10 parallel workers, 10s per-task timeout.
	v.SetDefault("startup.port_range_start", 30_000)
	v.SetDefault("startup.port_range_end", 60_000)
	v.SetDefault("startup.parallel_workers", 10)
	v.SetDefault("startup.per_task_timeout_ms", 10_000)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// GetDSN returns the database connection string.
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite" || c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.DBName)
}
