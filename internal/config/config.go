package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/textquiz/internal/llm"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

const (
	EngineSpacy = "spacy"
	EngineProse = "prose"
)

type AppConfig struct {
	Env         Environment
	LogLevel    string
	Addr        string
	CORSOrigins []string
	DBPath      string // empty means the XDG data path
}

type NLPConfig struct {
	Engine      string
	SpacyModel  string
	Python      string
	PythonDir   string
	Workers     int
	LexiconFile string
}

type QuizConfig struct {
	NumQuestions     int
	FalseProbability float64
}

type Config struct {
	App  AppConfig
	NLP  NLPConfig
	Quiz QuizConfig
	LLM  llm.Config
}

// Load reads .env (if present) and the TEXTQUIZ_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := parseEnvironment(getEnv("TEXTQUIZ_ENV", "development"))

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		App: AppConfig{
			Env:         env,
			LogLevel:    getLogLevel(env),
			Addr:        getEnv("TEXTQUIZ_ADDR", ":5000"),
			CORSOrigins: getEnvList("TEXTQUIZ_CORS_ORIGINS", []string{"*"}),
			DBPath:      getEnv("TEXTQUIZ_DB", ""),
		},
		NLP: NLPConfig{
			Engine:      strings.ToLower(getEnv("TEXTQUIZ_NLP_ENGINE", EngineSpacy)),
			SpacyModel:  getEnv("TEXTQUIZ_SPACY_MODEL", "en_core_web_sm"),
			Python:      getEnv("TEXTQUIZ_PYTHON", "python3"),
			PythonDir:   getEnv("TEXTQUIZ_PYTHON_DIR", filepath.Join(homeDir, ".config", "textquiz")),
			Workers:     getEnvInt("TEXTQUIZ_NLP_WORKERS", 2),
			LexiconFile: getEnv("TEXTQUIZ_LEXICON_FILE", ""),
		},
		Quiz: QuizConfig{
			NumQuestions:     getEnvInt("TEXTQUIZ_NUM_QUESTIONS", 10),
			FalseProbability: getEnvFloat("TEXTQUIZ_TF_FALSE_PROBABILITY", 0.5),
		},
		LLM: llm.ConfigFromEnv(),
	}, nil
}

// Validate checks the settings needed to generate quizzes. LLM settings are
// not checked here: study notes are optional and report their own error.
func (c *Config) Validate() error {
	switch c.NLP.Engine {
	case EngineSpacy, EngineProse:
	default:
		return fmt.Errorf("TEXTQUIZ_NLP_ENGINE must be %q or %q, got %q", EngineSpacy, EngineProse, c.NLP.Engine)
	}
	if c.NLP.Workers < 1 {
		return fmt.Errorf("TEXTQUIZ_NLP_WORKERS must be positive, got %d", c.NLP.Workers)
	}
	if c.Quiz.NumQuestions < 1 {
		return fmt.Errorf("TEXTQUIZ_NUM_QUESTIONS must be positive, got %d", c.Quiz.NumQuestions)
	}
	if c.Quiz.FalseProbability < 0 || c.Quiz.FalseProbability > 1 {
		return fmt.Errorf("TEXTQUIZ_TF_FALSE_PROBABILITY must be within [0,1], got %g", c.Quiz.FalseProbability)
	}
	if c.App.Addr == "" {
		return fmt.Errorf("TEXTQUIZ_ADDR is required")
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("TEXTQUIZ_LOG_LEVEL", "info")
	}

	return getEnv("TEXTQUIZ_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
