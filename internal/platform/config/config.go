package config

import (
	"log"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
)

type Config struct {
	APIPort string
	JWTKey  []byte
	JWTExp  time.Duration

	// Main database: users, assignments, grades, attempts.
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBConnStr  string

	// Sandbox database: where student and answer-key queries run. A
	// separate pool with a restricted role, never the main credentials.
	SandboxDBHost     string
	SandboxDBPort     string
	SandboxDBUser     string
	SandboxDBPassword string
	SandboxDBName     string
	SandboxDBSslMode  string
	SandboxDBConnStr  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	QueryTimeout  time.Duration
	MaxResultRows int
	KeyCacheTTL   time.Duration
}

var AppConfig *Config

func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = &Config{
		APIPort: getEnv("API_PORT", "8080"),
		JWTKey:  []byte(getEnv("JWT_SECRET", "defaultsecret")),
		JWTExp:  time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 72)) * time.Hour,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "sqltester"),
		DBPassword: getEnv("DB_PASSWORD", "sqltester"),
		DBName:     getEnv("DB_NAME", "sqltester"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		SandboxDBHost:     getEnv("SANDBOX_DB_HOST", "localhost"),
		SandboxDBPort:     getEnv("SANDBOX_DB_PORT", "5432"),
		SandboxDBUser:     getEnv("SANDBOX_DB_USER", "grader"),
		SandboxDBPassword: getEnv("SANDBOX_DB_PASSWORD", "grader"),
		SandboxDBName:     getEnv("SANDBOX_DB_NAME", "exercises"),
		SandboxDBSslMode:  getEnv("SANDBOX_DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		QueryTimeout:  time.Duration(getEnvAsInt("QUERY_TIMEOUT_MS", 5000)) * time.Millisecond,
		MaxResultRows: getEnvAsInt("MAX_RESULT_ROWS", 10000),
		KeyCacheTTL:   time.Duration(getEnvAsInt("KEY_CACHE_TTL_SECONDS", 600)) * time.Second,
	}

	AppConfig.DBConnStr = connStr(
		AppConfig.DBHost, AppConfig.DBPort, AppConfig.DBUser,
		AppConfig.DBPassword, AppConfig.DBName, AppConfig.DBSslMode,
	)
	AppConfig.SandboxDBConnStr = connStr(
		AppConfig.SandboxDBHost, AppConfig.SandboxDBPort, AppConfig.SandboxDBUser,
		AppConfig.SandboxDBPassword, AppConfig.SandboxDBName, AppConfig.SandboxDBSslMode,
	)

	return AppConfig.Validate()
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(
		c,
		validation.Field(&c.APIPort, validation.Required, is.Port),
		validation.Field(&c.JWTKey, validation.Required),
		validation.Field(&c.DBHost, validation.Required, is.Host),
		validation.Field(&c.DBPort, validation.Required, is.Port),
		validation.Field(&c.DBUser, validation.Required),
		validation.Field(&c.DBName, validation.Required),
		validation.Field(&c.SandboxDBHost, validation.Required, is.Host),
		validation.Field(&c.SandboxDBPort, validation.Required, is.Port),
		validation.Field(&c.SandboxDBUser, validation.Required),
		validation.Field(&c.SandboxDBName, validation.Required),
		validation.Field(&c.QueryTimeout, validation.Required, validation.Min(100*time.Millisecond)),
		validation.Field(&c.MaxResultRows, validation.Required, validation.Min(1)),
	)
}

func connStr(host, port, user, password, dbname, sslmode string) string {
	return "host=" + host +
		" port=" + port +
		" user=" + user +
		" password=" + password +
		" dbname=" + dbname +
		" sslmode=" + sslmode
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
