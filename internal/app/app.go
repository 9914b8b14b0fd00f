package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ccastromar/gemcli/internal/config"
	"github.com/ccastromar/gemcli/internal/llm"
	"github.com/ccastromar/gemcli/internal/logx"
	"github.com/ccastromar/gemcli/internal/session"
)

// Options collects everything the CLI surface can supply.
type Options struct {
	APIKey       string
	Model        string
	ConfigPath   string
	SettingsPath string
	Timeout      time.Duration
	Interactive  bool
	Prompt       string

	// BaseURL overrides the Gemini endpoint; empty means production.
	BaseURL string

	In  io.Reader
	Out io.Writer
}

type App struct {
	cfg         *config.Config
	client      llm.Client
	interactive bool
	prompt      string
	in          io.Reader
	out         io.Writer
}

// New resolves the configuration and builds the client. Resolution failures
// happen here, before any network activity is possible.
func New(opts Options) (*App, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath()
	}
	if opts.SettingsPath == "" {
		opts.SettingsPath = config.DefaultSettingsPath()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	cfg, err := config.Resolve(opts.APIKey, opts.Model, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(opts.SettingsPath)
	if err != nil {
		return nil, err
	}

	if opts.Timeout == 0 {
		if env, err := config.LoadEnv(); err == nil {
			opts.Timeout = env.Timeout
		}
	}

	client := llm.NewGeminiClient(opts.BaseURL, cfg.APIKey, cfg.Model)
	client.Timeout = opts.Timeout
	if !settings.Empty() {
		client.System = settings.SystemPrompt
		if settings.Temperature != nil || settings.TopP != nil || settings.MaxOutputTokens > 0 {
			client.GenConfig = &llm.GenerationConfig{
				Temperature:     settings.Temperature,
				TopP:            settings.TopP,
				MaxOutputTokens: settings.MaxOutputTokens,
			}
		}
		logx.Info("Config", "generation settings loaded from %s", opts.SettingsPath)
	}

	logx.Info("App", "config resolved, model=%s", cfg.Model)

	return &App{
		cfg:         cfg,
		client:      client,
		interactive: opts.Interactive,
		prompt:      opts.Prompt,
		in:          opts.In,
		out:         opts.Out,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	drv := session.NewDriver(a.client, a.cfg.Model, a.out)

	if a.interactive {
		return drv.RunInteractive(ctx, a.in)
	}

	if strings.TrimSpace(a.prompt) == "" {
		return fmt.Errorf("no prompt given: pass one as an argument, pipe stdin, or use -i")
	}
	drv.RunOnce(ctx, a.prompt)
	return nil
}
