package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultModel is used when neither the flag nor the config file name one.
const DefaultModel = "gemini-2.5-flash"

// Config is the effective configuration: resolved once at startup,
// immutable afterwards, read only by the API caller.
type Config struct {
	APIKey string
	Model  string
}

// fileConfig mirrors the optional JSON config file.
type fileConfig struct {
	ApiKey string `json:"ApiKey"`
	Model  string `json:"Model"`
}

// DefaultPath returns the fixed config location beside the binary.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(exe), "config.json")
}

// Resolve merges the explicit values, the config file and the environment
// into one Config. Precedence, first non-empty wins:
//
//	apiKey: explicit -> file ApiKey -> GEMINI_API_KEY
//	model:  explicit -> file Model  -> DefaultModel
//
// A missing file contributes nothing; a file that exists but does not parse
// is an error. Whitespace-only values count as empty at every level.
func Resolve(explicitKey, explicitModel, path string) (*Config, error) {
	fc, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	env, err := LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	key := firstNonEmpty(explicitKey, fc.ApiKey, env.GeminiAPIKey)
	if key == "" {
		return nil, fmt.Errorf("no API key: pass -key, set ApiKey in %s, or export GEMINI_API_KEY", path)
	}

	model := firstNonEmpty(explicitModel, fc.Model)
	if model == "" {
		model = DefaultModel
	}

	return &Config{APIKey: key, Model: model}, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// optional file, nothing at this precedence level
			return fc, nil
		}
		return fc, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing %s: %w", path, err)
	}
	return fc, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
