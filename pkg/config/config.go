package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Redis      RedisConfig
	Weather    WeatherConfig
	MQTT       MQTTConfig
	Automation AutomationConfig
}

type AppConfig struct {
	Name              string
	Version           string
	Environment       string
	AdminPasswordHash string
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TokenTTL  time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	Enabled       bool
}

type WeatherConfig struct {
	APIKey   string
	City     string
	BaseURL  string
	CacheTTL time.Duration
}

type MQTTConfig struct {
	BrokerURL   string
	ClientID    string
	TopicPrefix string
	Enabled     bool
}

// AutomationConfig drives the two background loops. The engine itself only
// exposes single-tick entry points; intervals live here with the wiring.
type AutomationConfig struct {
	ControlInterval  time.Duration
	ScheduleInterval time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid redis database")
		}
		redisDB = parsed
	}

	cfg := &Config{
		App: AppConfig{
			Name:              getEnv("APP_NAME", "Smart Light Control API"),
			Version:           getEnv("APP_VERSION", "1.0.0"),
			Environment:       getEnv("APP_ENV", "development"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "smart_lights"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			Enabled:       getEnv("REDIS_ENABLED", "false") == "true",
		},
		Weather: WeatherConfig{
			APIKey:   getEnv("WEATHER_API_KEY", "demo_key"),
			City:     getEnv("WEATHER_CITY", "London"),
			BaseURL:  getEnv("WEATHER_BASE_URL", "http://api.openweathermap.org/data/2.5/weather"),
			CacheTTL: getDuration("WEATHER_CACHE_TTL", 5*time.Minute),
		},
		MQTT: MQTTConfig{
			BrokerURL:   getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"),
			ClientID:    getEnv("MQTT_CLIENT_ID", "smartlights-backend"),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "smartlights"),
			Enabled:     getEnv("MQTT_ENABLED", "false") == "true",
		},
		Automation: AutomationConfig{
			ControlInterval:  getDuration("AI_CONTROL_INTERVAL", 30*time.Second),
			ScheduleInterval: getDuration("SCHEDULE_CHECK_INTERVAL", 60*time.Second),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.App.AdminPasswordHash == "" {
		return nil, errors.New("missing admin password hash")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}

	return defaultVal
}
