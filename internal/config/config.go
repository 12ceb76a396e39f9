package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vbonduro/staycheck/internal/analysis"
)

type Config struct {
	ListenAddr      string
	DBPath          string
	VisionBackend   string
	OllamaHost      string
	OllamaModel     string
	ClaudeAPIKey    string
	ClaudeModel     string
	GeminiAPIKey    string
	GeminiModel     string
	PhotoPath       string
	LogLevel        string
	LogFormat       string
	LogFile         string
	AnalysisTimeout time.Duration
	Analysis        analysis.Config
}

// fileConfig mirrors the YAML file. Every value is kept as text so file and
// environment values go through the same parsing.
type fileConfig struct {
	ListenAddr            string `yaml:"listen_addr"`
	DBPath                string `yaml:"db_path"`
	VisionBackend         string `yaml:"vision_backend"`
	OllamaHost            string `yaml:"ollama_host"`
	OllamaModel           string `yaml:"ollama_model"`
	ClaudeAPIKey          string `yaml:"claude_api_key"`
	ClaudeModel           string `yaml:"claude_model"`
	GeminiAPIKey          string `yaml:"gemini_api_key"`
	GeminiModel           string `yaml:"gemini_model"`
	PhotoPath             string `yaml:"photo_local_path"`
	LogLevel              string `yaml:"log_level"`
	LogFormat             string `yaml:"log_format"`
	LogFile               string `yaml:"log_file"`
	AnalysisTimeout       string `yaml:"analysis_timeout"`
	HighCostThreshold     string `yaml:"high_cost_threshold"`
	LowConditionThreshold string `yaml:"low_condition_threshold"`
}

func defaults() fileConfig {
	return fileConfig{
		ListenAddr:            ":8080",
		DBPath:                "/data/staycheck.db",
		VisionBackend:         "claude",
		OllamaHost:            "http://localhost:11434",
		OllamaModel:           "llava",
		ClaudeModel:           "claude-sonnet-4-5",
		GeminiModel:           "gemini-2.5-flash",
		PhotoPath:             "/data/photos",
		LogLevel:              "info",
		LogFormat:             "json",
		AnalysisTimeout:       "90s",
		HighCostThreshold:     "100",
		LowConditionThreshold: "5",
	}
}

// Load builds the configuration from defaults, then the YAML file at path (or
// $STAYCHECK_CONFIG when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	fc := defaults()

	if path == "" {
		path = os.Getenv("STAYCHECK_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	fc.ListenAddr = getEnv("LISTEN_ADDR", fc.ListenAddr)
	fc.DBPath = getEnv("DB_PATH", fc.DBPath)
	fc.VisionBackend = getEnv("VISION_BACKEND", fc.VisionBackend)
	fc.OllamaHost = getEnv("OLLAMA_HOST", fc.OllamaHost)
	fc.OllamaModel = getEnv("OLLAMA_MODEL", fc.OllamaModel)
	fc.ClaudeAPIKey = getEnv("CLAUDE_API_KEY", fc.ClaudeAPIKey)
	fc.ClaudeModel = getEnv("CLAUDE_MODEL", fc.ClaudeModel)
	fc.GeminiAPIKey = getEnv("GEMINI_API_KEY", fc.GeminiAPIKey)
	fc.GeminiModel = getEnv("GEMINI_MODEL", fc.GeminiModel)
	fc.PhotoPath = getEnv("PHOTO_LOCAL_PATH", fc.PhotoPath)
	fc.LogLevel = getEnv("LOG_LEVEL", fc.LogLevel)
	fc.LogFormat = getEnv("LOG_FORMAT", fc.LogFormat)
	fc.LogFile = getEnv("LOG_FILE", fc.LogFile)
	fc.AnalysisTimeout = getEnv("ANALYSIS_TIMEOUT", fc.AnalysisTimeout)
	fc.HighCostThreshold = getEnv("HIGH_COST_THRESHOLD", fc.HighCostThreshold)
	fc.LowConditionThreshold = getEnv("LOW_CONDITION_THRESHOLD", fc.LowConditionThreshold)

	return fc.resolve()
}

func (fc fileConfig) resolve() (*Config, error) {
	cfg := &Config{
		ListenAddr:    fc.ListenAddr,
		DBPath:        fc.DBPath,
		VisionBackend: fc.VisionBackend,
		OllamaHost:    fc.OllamaHost,
		OllamaModel:   fc.OllamaModel,
		ClaudeAPIKey:  fc.ClaudeAPIKey,
		ClaudeModel:   fc.ClaudeModel,
		GeminiAPIKey:  fc.GeminiAPIKey,
		GeminiModel:   fc.GeminiModel,
		PhotoPath:     fc.PhotoPath,
		LogLevel:      fc.LogLevel,
		LogFormat:     fc.LogFormat,
		LogFile:       fc.LogFile,
	}

	switch cfg.VisionBackend {
	case "claude", "gemini", "ollama":
	default:
		return nil, fmt.Errorf("unknown VISION_BACKEND %q (want claude, gemini or ollama)", cfg.VisionBackend)
	}

	var errs []error
	timeout, err := time.ParseDuration(fc.AnalysisTimeout)
	if err != nil || timeout < 0 {
		errs = append(errs, fmt.Errorf("invalid ANALYSIS_TIMEOUT %q", fc.AnalysisTimeout))
	}
	cfg.AnalysisTimeout = timeout

	highCost, err := decimal.NewFromString(fc.HighCostThreshold)
	if err != nil || highCost.IsNegative() {
		errs = append(errs, fmt.Errorf("invalid HIGH_COST_THRESHOLD %q", fc.HighCostThreshold))
	}
	lowCondition, err := strconv.ParseFloat(fc.LowConditionThreshold, 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("invalid LOW_CONDITION_THRESHOLD %q", fc.LowConditionThreshold))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	cfg.Analysis = analysis.Config{
		HighCostThreshold:     highCost,
		LowConditionThreshold: lowCondition,
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
