package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Backup   BackupConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	// Driver is either "sqlite" or "postgres".
	Driver       string
	SQLitePath   string
	PostgresDSN  string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Addr string
	// ReportLockTTL bounds how long a per-day report lock may be held.
	ReportLockTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	ReportCreated string
	ReportUpdated string
	ReportDeleted string
	BackupCreated string
}

type BackupConfig struct {
	Enabled       bool
	Hour          int
	Minute        int
	RetentionDays int
	CheckInterval time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8081"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:   getEnv("SQLITE_PATH", "file:scratch-tracker.db?cache=shared"),
			PostgresDSN:  getEnv("POSTGRES_DSN", ""),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
		},
		Redis: RedisConfig{
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			ReportLockTTL: time.Duration(getEnvInt("REPORT_LOCK_TTL_SECONDS", 120)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Topics: TopicConfig{
				ReportCreated: getEnv("KAFKA_TOPIC_REPORT_CREATED", "scratch.report.created"),
				ReportUpdated: getEnv("KAFKA_TOPIC_REPORT_UPDATED", "scratch.report.updated"),
				ReportDeleted: getEnv("KAFKA_TOPIC_REPORT_DELETED", "scratch.report.deleted"),
				BackupCreated: getEnv("KAFKA_TOPIC_BACKUP_CREATED", "scratch.backup.created"),
			},
		},
		Backup: BackupConfig{
			Enabled:       getEnvBool("BACKUP_ENABLED", true),
			Hour:          getEnvInt("BACKUP_HOUR", 2),
			Minute:        getEnvInt("BACKUP_MINUTE", 0),
			RetentionDays: getEnvInt("BACKUP_RETENTION_DAYS", 30),
			CheckInterval: time.Minute,
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
			TokenTTL:  time.Duration(getEnvInt("JWT_TTL_HOURS", 168)) * time.Hour,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
