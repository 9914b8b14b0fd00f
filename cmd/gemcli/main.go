package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ccastromar/gemcli/internal/app"
	"github.com/ccastromar/gemcli/internal/config"
)

// runner is the minimal interface our app must satisfy for running.
type runner interface{ Run(context.Context) error }

// appCtor is a constructor indirection to enable testing without building the real app.
var appCtor = func(opts app.Options) (runner, error) { return app.New(opts) }

// fatalf indirection allows testing fatal paths without exiting the test process.
var fatalf = log.Fatalf

func run(ctx context.Context, opts app.Options) {
	a, err := appCtor(opts)
	if err != nil {
		fatalf("error initializing app: %v", err)
		return
	}
	if err := a.Run(ctx); err != nil {
		fatalf("error running app: %v", err)
		return
	}
}

func main() {
	// best-effort, a missing .env is fine
	_ = godotenv.Load()

	// CLI flags
	interactive := flag.Bool("i", false, "interactive chat mode")
	configPath := flag.String("config", config.DefaultPath(), "path to the JSON config file")
	settingsPath := flag.String("settings", config.DefaultSettingsPath(), "path to the YAML generation settings file")
	apiKey := flag.String("key", "", "API key (overrides the config file and GEMINI_API_KEY)")
	model := flag.String("model", "", "model name (overrides the config file)")
	timeout := flag.Duration("timeout", 0, "per-call timeout, 0 keeps the HTTP client default")
	flag.Parse()

	prompt := strings.Join(flag.Args(), " ")
	if prompt == "" && !*interactive {
		prompt = readPipedStdin()
	}

	run(context.Background(), app.Options{
		APIKey:       *apiKey,
		Model:        *model,
		ConfigPath:   *configPath,
		SettingsPath: *settingsPath,
		Timeout:      *timeout,
		Interactive:  *interactive,
		Prompt:       prompt,
	})
}

// readPipedStdin returns piped input, or "" when stdin is a terminal.
func readPipedStdin() string {
	st, err := os.Stdin.Stat()
	if err != nil || st.Mode()&os.ModeCharDevice != 0 {
		return ""
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
