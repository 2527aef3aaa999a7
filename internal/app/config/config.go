package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string

	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	DBConnLifetime time.Duration
	MigrateOnStart bool
	MigrateTimeout time.Duration

	GraphQLURL        string
	GraphQLTimeout    time.Duration
	GraphQLAuthHeader string
	GraphQLAppToken   string

	// Empty KafkaBrokers means notifications are mailed directly, without a queue.
	KafkaBrokers       []string
	KafkaTopic         string
	KafkaConsumerGroup string
	KafkaMaxBytes      int
	KafkaMinBytes      int

	// Empty MailURL disables customer notifications.
	MailURL     string
	MailTimeout time.Duration

	BrowseSessionTTL time.Duration
	CacheMaxEntries  int
	CacheTTL         time.Duration
	AdminPageSize    int

	// Basic auth for /admin. Empty AdminPassword keeps the back office closed.
	AdminUser     string
	AdminPassword string

	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_http_addr", ":8081")

	v.SetDefault("database_url", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("db_min_conns", 2)
	v.SetDefault("db_conn_lifetime", 30*time.Minute)
	v.SetDefault("migrate_on_start", true)
	v.SetDefault("migrate_timeout", 30*time.Second)

	v.SetDefault("graphql_url", "")
	v.SetDefault("graphql_timeout", 15*time.Second)
	v.SetDefault("graphql_auth_header", "VtexIdclientAutCookie")
	v.SetDefault("graphql_app_token", "")

	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "return-notifications")
	v.SetDefault("kafka_consumer_group", "return-mailer")
	v.SetDefault("kafka_min_bytes", 1e3)
	v.SetDefault("kafka_max_bytes", 10e6)

	v.SetDefault("mail_url", "")
	v.SetDefault("mail_timeout", 5*time.Second)

	v.SetDefault("browse_session_ttl", 30*time.Minute)
	v.SetDefault("cache_max_entries", 1000)
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("admin_page_size", 20)
	v.SetDefault("admin_user", "admin")
	v.SetDefault("admin_password", "")

	v.SetDefault("rate_limit_rps", 20.0)
	v.SetDefault("rate_limit_burst", 40)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// Load reads the environment and, when CONFIG_FILE names one, a YAML file
// with the same keys in lower case. The environment wins.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := strings.TrimSpace(v.GetString("config_file")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var c Config

	c.HTTPAddr = v.GetString("app_http_addr")

	c.DatabaseURL = strings.TrimSpace(v.GetString("database_url"))
	if c.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	c.DBMaxConns = v.GetInt32("db_max_conns")
	c.DBMinConns = v.GetInt32("db_min_conns")
	c.DBConnLifetime = v.GetDuration("db_conn_lifetime")
	c.MigrateOnStart = v.GetBool("migrate_on_start")
	c.MigrateTimeout = v.GetDuration("migrate_timeout")

	c.GraphQLURL = strings.TrimSpace(v.GetString("graphql_url"))
	if c.GraphQLURL == "" {
		return Config{}, errors.New("GRAPHQL_URL is required")
	}
	c.GraphQLTimeout = v.GetDuration("graphql_timeout")
	c.GraphQLAuthHeader = v.GetString("graphql_auth_header")
	c.GraphQLAppToken = v.GetString("graphql_app_token")

	c.KafkaBrokers = splitCSV(v.GetString("kafka_brokers"))
	c.KafkaTopic = v.GetString("kafka_topic")
	c.KafkaConsumerGroup = v.GetString("kafka_consumer_group")
	c.KafkaMinBytes = v.GetInt("kafka_min_bytes")
	c.KafkaMaxBytes = v.GetInt("kafka_max_bytes")

	c.MailURL = strings.TrimSpace(v.GetString("mail_url"))
	c.MailTimeout = v.GetDuration("mail_timeout")

	c.BrowseSessionTTL = v.GetDuration("browse_session_ttl")
	c.CacheMaxEntries = v.GetInt("cache_max_entries")
	c.CacheTTL = v.GetDuration("cache_ttl")
	c.AdminPageSize = v.GetInt("admin_page_size")
	if c.AdminPageSize <= 0 {
		return Config{}, errors.New("ADMIN_PAGE_SIZE must be positive")
	}
	c.AdminUser = strings.TrimSpace(v.GetString("admin_user"))
	c.AdminPassword = v.GetString("admin_password")

	c.RateLimitRPS = v.GetFloat64("rate_limit_rps")
	c.RateLimitBurst = v.GetInt("rate_limit_burst")

	c.LogLevel = v.GetString("log_level")
	c.LogFormat = v.GetString("log_format")

	c.ShutdownTimeout = v.GetDuration("shutdown_timeout")

	return c, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
