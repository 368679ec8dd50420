package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root of the YAML deployment configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	App     AppConfig     `mapstructure:"app"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig defines HTTP server options.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MySQLConfig configures the relational database connection.
type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"`
}

// RedisConfig configures the Redis client connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig configures Kafka producer/consumer settings.
type KafkaConfig struct {
	Brokers    []string `mapstructure:"brokers"`
	Topic      string   `mapstructure:"topic"`
	RetryTopic string   `mapstructure:"retryTopic"`
	DLQTopic   string   `mapstructure:"dlqTopic"`
	GroupID    string   `mapstructure:"groupId"`
}

// AppConfig carries platform-wide policy settings: the NSFW tag forced into
// every anonymous viewer's block set, and the default follow/membership
// targets fanned out when a new alias is created.
type AppConfig struct {
	NSFWTagID                 int64  `mapstructure:"nsfwTagId"`
	DefaultFollowBlogIDs      string `mapstructure:"defaultFollowBlogIds"`
	DefaultMemberCommunityIDs string `mapstructure:"defaultMemberCommunityIds"`
	DefaultFollowCommunityIDs string `mapstructure:"defaultFollowCommunityIds"`
}

// LoggingConfig controls structured logging output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Defaults is the parsed form of the AppConfig id lists.
type Defaults struct {
	FollowBlogIDs      []int64
	MemberCommunityIDs []int64
	FollowCommunityIDs []int64
}

// Load loads configuration from a YAML file path and validates the
// app section eagerly so a bad deployment fails at startup, not mid-request.
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	if err := vp.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := vp.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.App.NSFWTagID <= 0 {
		return nil, fmt.Errorf("config: app.nsfwTagId is required")
	}
	if _, err := cfg.App.ParseDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ParseDefaults parses the comma-separated default-follow lists. An empty
// string is an empty list; a malformed token is an error.
func (a AppConfig) ParseDefaults() (*Defaults, error) {
	blogs, err := parseIDList("app.defaultFollowBlogIds", a.DefaultFollowBlogIDs)
	if err != nil {
		return nil, err
	}
	members, err := parseIDList("app.defaultMemberCommunityIds", a.DefaultMemberCommunityIDs)
	if err != nil {
		return nil, err
	}
	follows, err := parseIDList("app.defaultFollowCommunityIds", a.DefaultFollowCommunityIDs)
	if err != nil {
		return nil, err
	}
	return &Defaults{
		FollowBlogIDs:      blogs,
		MemberCommunityIDs: members,
		FollowCommunityIDs: follows,
	}, nil
}

func parseIDList(key, raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("config: %s contains invalid id %q", key, p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
