package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config는 애플리케이션 전체 설정입니다
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AppConfig는 애플리케이션 기본 설정입니다
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig는 서버 설정입니다
type ServerConfig struct {
	HTTP HTTPServerConfig `mapstructure:"http"`
}

// HTTPServerConfig는 HTTP 서버 설정입니다
type HTTPServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// PostgresConfig는 PostgreSQL(Supabase) 설정입니다
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
	UseVault        bool          `mapstructure:"use_vault"`
	VaultPath       string        `mapstructure:"vault_path"`
}

// RedisConfig는 Redis 설정입니다
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Addr는 Redis 접속 주소를 반환합니다
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// KafkaConfig는 Kafka 설정입니다
type KafkaConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Brokers    []string `mapstructure:"brokers"`
	ClientID   string   `mapstructure:"client_id"`
	AuditTopic string   `mapstructure:"audit_topic"`
	UseAsync   bool     `mapstructure:"use_async"`
}

// VaultConfig는 Vault 설정입니다
type VaultConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Token     string `mapstructure:"token"`
	Namespace string `mapstructure:"namespace"`
	MountPath string `mapstructure:"mount_path"`
}

// AuthConfig는 어드민 인증 설정입니다
type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// ObservabilityConfig는 관찰성 설정입니다
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LoggingConfig는 로깅 설정입니다
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// TracingConfig는 분산 추적 설정입니다
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// MetricsConfig는 메트릭 설정입니다
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig는 설정 파일을 로드합니다
func LoadConfig(configPath string, configName string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if configName != "" {
		v.SetConfigName(configName)
	} else {
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	// 환경변수 바인딩 (ADMIN_POSTGRES_PASSWORD 등)
	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// overrideFromEnv는 환경변수로 민감한 설정을 오버라이드합니다
func overrideFromEnv(config *Config) {
	if val := os.Getenv("VAULT_TOKEN"); val != "" {
		config.Vault.Token = val
	}
	if val := os.Getenv("VAULT_ADDRESS"); val != "" {
		config.Vault.Address = val
	}
	if val := os.Getenv("ADMIN_POSTGRES_PASSWORD"); val != "" {
		config.Postgres.Password = val
	}
	if val := os.Getenv("ADMIN_JWT_SECRET"); val != "" {
		config.Auth.JWTSecret = val
	}
}

// Validate는 필수 설정을 검증합니다
func (c *Config) Validate() error {
	if c.Postgres.Host == "" {
		return fmt.Errorf("postgres.host is required")
	}
	if c.Postgres.Database == "" {
		return fmt.Errorf("postgres.database is required")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required when auth is enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return fmt.Errorf("vault.address is required when vault is enabled")
	}
	return nil
}
