package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings tune generation. All fields are optional; the zero value means
// the request carries no generationConfig and no system instruction.
type Settings struct {
	SystemPrompt    string   `yaml:"system_prompt"`
	Temperature     *float64 `yaml:"temperature"`
	TopP            *float64 `yaml:"top_p"`
	MaxOutputTokens int      `yaml:"max_output_tokens"`
}

// Empty reports whether the settings would change an outgoing request.
func (s *Settings) Empty() bool {
	return s == nil || (s.SystemPrompt == "" && s.Temperature == nil && s.TopP == nil && s.MaxOutputTokens == 0)
}

// DefaultSettingsPath returns the fixed settings location beside the binary.
func DefaultSettingsPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "gemcli.yaml"
	}
	return filepath.Join(filepath.Dir(exe), "gemcli.yaml")
}

// LoadSettings parses the YAML settings file. A missing file is not an
// error, it yields zero settings.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}
