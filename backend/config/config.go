package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type MailConfig struct {
	Server        string
	Port          int
	Username      string
	Password      string
	UseTLS        bool
	UseSSL        bool
	DefaultSender string
}

type Config struct {
	DBDriver        string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	SecretKey       string
	JWTSecret       string
	JWTExpiresHours int
	AdminSecret     string
	ServerPort      string
	AllowOrigins    string
	LogLevel        string
	LogFormat       string
	Mail            MailConfig
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	jwtHours, err := getEnvInt("JWT_EXPIRES_HOURS", 72)
	if err != nil {
		return nil, err
	}
	mailPort, err := getEnvInt("MAIL_PORT", 587)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DBDriver:        strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "project_tracker"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		SecretKey:       getEnv("SECRET_KEY", ""),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTExpiresHours: jwtHours,
		AdminSecret:     getEnv("ADMIN_SECRET", ""),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		AllowOrigins:    getEnv("CORS_ALLOW_ORIGINS", "*"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		Mail: MailConfig{
			Server:        getEnv("MAIL_SERVER", ""),
			Port:          mailPort,
			Username:      getEnv("MAIL_USERNAME", ""),
			Password:      getEnv("MAIL_PASSWORD", ""),
			UseTLS:        getEnvBool("MAIL_USE_TLS", true),
			UseSSL:        getEnvBool("MAIL_USE_SSL", false),
			DefaultSender: getEnv("MAIL_DEFAULT_SENDER", "noreply@projecttracker.local"),
		},
	}

	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// wins when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	if c.DBDriver == "sqlite" {
		return "project_tracker.db?_pragma=foreign_keys(1)"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}
