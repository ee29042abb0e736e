package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig is the root configuration for the publishing service.
type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Session   SessionSettings   `mapstructure:"session"`
	Lockout   LockoutSettings   `mapstructure:"lockout"`
	Content   ContentSettings   `mapstructure:"content"`
	Password  PasswordSettings  `mapstructure:"password"`
	Storage   StorageSettings   `mapstructure:"storage"`
	Telemetry TelemetrySettings `mapstructure:"telemetry"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// RedisSettings configures the ephemeral session backend.
type RedisSettings struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	DB            int    `mapstructure:"db"`
	Password      string `mapstructure:"password"`
	TLSEnabled    bool   `mapstructure:"tls_enabled"`
	SessionPrefix string `mapstructure:"session_prefix"`
}

// KafkaSettings configures the lifecycle event producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

// SessionSettings configures ephemeral session and remember-token lifetimes.
type SessionSettings struct {
	TTL            time.Duration `mapstructure:"ttl"`
	RememberTTL    time.Duration `mapstructure:"remember_ttl"`
	CookieName     string        `mapstructure:"cookie_name"`
	RememberCookie string        `mapstructure:"remember_cookie"`
	CookieSecure   bool          `mapstructure:"cookie_secure"`
}

// LockoutSettings configures the failed-login lockout window.
type LockoutSettings struct {
	Window      time.Duration `mapstructure:"window"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// ContentSettings configures listing and validation limits.
type ContentSettings struct {
	PostsPerPage      int `mapstructure:"posts_per_page"`
	CommentsPerPage   int `mapstructure:"comments_per_page"`
	MinTitleLength    int `mapstructure:"min_title_length"`
	MinContentLength  int `mapstructure:"min_content_length"`
	MinCommentLength  int `mapstructure:"min_comment_length"`
	MaxCommentLength  int `mapstructure:"max_comment_length"`
	SlugMaxRetries    int `mapstructure:"slug_max_retries"`
}

// PasswordSettings configures registration password requirements.
type PasswordSettings struct {
	MinLength int `mapstructure:"min_length"`
	MinScore  int `mapstructure:"min_score"`
}

// StorageSettings configures the blob store collaborator.
type StorageSettings struct {
	UploadDir string `mapstructure:"upload_dir"`
}

type TelemetrySettings struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

// Load reads configuration from the environment with PUB_ prefixed variables.
func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("PUB")

	setDefaults(v)

	keys := []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"redis.tls_enabled",
		"redis.session_prefix",
		"kafka.brokers",
		"kafka.topic_prefix",
		"session.ttl",
		"session.remember_ttl",
		"session.cookie_name",
		"session.remember_cookie",
		"session.cookie_secure",
		"lockout.window",
		"lockout.max_attempts",
		"content.posts_per_page",
		"content.comments_per_page",
		"content.min_title_length",
		"content.min_content_length",
		"content.min_comment_length",
		"content.max_comment_length",
		"content.slug_max_retries",
		"password.min_length",
		"password.min_score",
		"storage.upload_dir",
		"telemetry.otlp_endpoint",
		"telemetry.service_name",
		"telemetry.sampling_rate",
	}
	if err := bindEnvs(v, keys); err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "social-platform-publishing")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "publishing")
	v.SetDefault("postgres.password", "publishing")
	v.SetDefault("postgres.database", "publishing")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_prefix", "pub:session")

	v.SetDefault("kafka.topic_prefix", "pub")

	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.remember_ttl", 30*24*time.Hour)
	v.SetDefault("session.cookie_name", "pub_session")
	v.SetDefault("session.remember_cookie", "pub_remember")
	v.SetDefault("session.cookie_secure", false)

	v.SetDefault("lockout.window", 15*time.Minute)
	v.SetDefault("lockout.max_attempts", 5)

	v.SetDefault("content.posts_per_page", 10)
	v.SetDefault("content.comments_per_page", 20)
	v.SetDefault("content.min_title_length", 5)
	v.SetDefault("content.min_content_length", 20)
	v.SetDefault("content.min_comment_length", 3)
	v.SetDefault("content.max_comment_length", 1000)
	v.SetDefault("content.slug_max_retries", 5)

	v.SetDefault("password.min_length", 8)
	v.SetDefault("password.min_score", 2)

	v.SetDefault("storage.upload_dir", "uploads")

	v.SetDefault("telemetry.service_name", "social-platform-publishing")
	v.SetDefault("telemetry.sampling_rate", 0.1)
}
