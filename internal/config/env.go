package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type EnvVars struct {
	GeminiAPIKey string        `envconfig:"GEMINI_API_KEY"`
	Timeout      time.Duration `envconfig:"GEMCLI_TIMEOUT"`
}

func LoadEnv() (*EnvVars, error) {
	var v EnvVars
	if err := envconfig.Process("", &v); err != nil {
		return nil, err
	}
	return &v, nil
}
