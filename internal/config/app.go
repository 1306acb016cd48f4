package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	AI        AIConfig
	Store     StoreConfig
	Log       LogConfig
	Interview InterviewConfig
}

// StoreConfig выбирает хранилище
type StoreConfig struct {
	Driver   string // bolt, sqlite или mongo
	Path     string
	MongoURL string
	Database string
}

type LogConfig struct {
	Level  string
	Format string // console или json
}

// InterviewConfig содержит таймауты AI и пути к файлам
type InterviewConfig struct {
	FeedbackTimeout   time.Duration
	AssessmentTimeout time.Duration
	QuestionSetsFile  string
	ResultsDir        string
}

// LoadEnvFile загружает переменные из файла. Отсутствие файла не ошибка,
// уже заданные переменные окружения не перезаписываются
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		AI: LoadAIConfig(),
		Store: StoreConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", "bolt")),
			Path:     getEnv("STORE_PATH", "data/interview.db"),
			MongoURL: getEnv("MONGODB_URL", "mongodb://localhost:27017"),
			Database: getEnv("DATABASE_NAME", "ai_interview"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
		Interview: InterviewConfig{
			FeedbackTimeout:   getEnvAsDuration("FEEDBACK_TIMEOUT", 20*time.Second),
			AssessmentTimeout: getEnvAsDuration("ASSESSMENT_TIMEOUT", 60*time.Second),
			QuestionSetsFile:  getEnv("QUESTION_SETS_FILE", "config/question_sets.yaml"),
			ResultsDir:        getEnv("RESULTS_DIR", "results"),
		},
	}
}

// Validate проверяет конфигурацию. AI может быть не настроен
func (c *AppConfig) Validate() error {
	switch c.Store.Driver {
	case "bolt", "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the %s store", c.Store.Driver)
		}
	case "mongo":
		if c.Store.MongoURL == "" || c.Store.Database == "" {
			return fmt.Errorf("MONGODB_URL and DATABASE_NAME are required for the mongo store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be bolt, sqlite or mongo, got %q", c.Store.Driver)
	}

	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("LOG_FORMAT must be console or json, got %q", c.Log.Format)
	}
	if c.Interview.FeedbackTimeout <= 0 {
		return fmt.Errorf("FEEDBACK_TIMEOUT must be positive")
	}
	if c.Interview.AssessmentTimeout <= 0 {
		return fmt.Errorf("ASSESSMENT_TIMEOUT must be positive")
	}
	return c.AI.ValidateConfig()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
