package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/germanamz/llm7chat/cmd/llm7chat/internal/format"
	"github.com/germanamz/llm7chat/pkg/engine"
)

type options struct {
	configPath string
	envFile    string
	model      string
	pick       bool
	plain      bool
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: llm7chat [flags]\n\nChat with the models behind an OpenAI-compatible endpoint (api.llm7.io by default).\n\nFlags:\n")
		flag.PrintDefaults()
	}

	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to configuration file (default: llm7chat.yaml or llm7chat.toml if present)")
	flag.StringVar(&opts.envFile, "env", ".env", "path to .env file (ignored if missing)")
	flag.StringVar(&opts.model, "model", "", "model to start with (overrides default_model in config)")
	flag.BoolVar(&opts.pick, "pick", false, "choose the model interactively before starting")
	flag.BoolVar(&opts.plain, "plain", false, "line mode: read messages from stdin, write replies to stdout")
	flag.Parse()

	if err := loadDotEnv(opts.envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := engine.LoadConfig(resolveConfigPath(opts.configPath, "."))
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	eng, err := engine.New(cfg, engine.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	interactive := !opts.plain && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	model := opts.model
	if opts.pick {
		if !interactive {
			return fmt.Errorf("-pick needs a terminal")
		}
		current := model
		if current == "" {
			current = cfg.DefaultModel
		}
		if model, err = runModelPicker(eng.Catalog(), current); err != nil {
			return err
		}
	}

	sess, err := eng.NewSession(model)
	if err != nil {
		return err
	}

	if !interactive {
		return runPlain(ctx, sess, os.Stdin, os.Stdout)
	}

	return runTUI(ctx, newAppModel(ctx, sess), os.Stdout)
}

func runTUI(ctx context.Context, model appModel, out io.Writer) error {
	// Detect the background once, before bubbletea owns the terminal.
	format.IsDarkBG = lipgloss.HasDarkBackground()

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithOutput(out))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
