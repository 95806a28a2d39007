package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"ai-setup/internal/config"
	"ai-setup/internal/input"
	"ai-setup/internal/installer"
	"ai-setup/internal/logger"
	"ai-setup/internal/setup"
	"ai-setup/internal/shellenv"
	"ai-setup/internal/state"
)

// newSession wires the process environment into a setup.Session. The
// returned close func releases the terminal opened for prompts.
func newSession() (*setup.Session, config.Config, func() error, error) {
	mode, err := logger.ParseColorMode(rootFlags.color)
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	log := logger.NewStdout(mode, rootFlags.debug)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, config.Config{}, nil, fmt.Errorf("cannot determine home directory: %w", err)
	}

	fsys := afero.NewOsFs()
	configDir := config.DefaultDir(home, os.Getenv)

	configPath := rootFlags.configPath
	if configPath == "" {
		configPath = filepath.Join(configDir, "config.yaml")
	}
	cfg, err := config.LoadConfig(fsys, configPath)
	if err != nil {
		log.Warn("[WARN] Ignoring config file: %v\n", err)
	}
	log.Debug("[DEBUG] Config file: %s\n", configPath)

	statePath := rootFlags.statePath
	if statePath == "" {
		statePath = state.DefaultPath(configDir)
	}

	runner := installer.ExecRunner{Log: log}
	prompter, closePrompter := input.Open(os.Stdin, log.Writer())

	return &setup.Session{
		Log:       log,
		Prompt:    prompter,
		FS:        fsys,
		Runner:    runner,
		Platform:  shellenv.Detect(runtime.GOOS, os.Getenv, runner),
		Home:      home,
		Shell:     os.Getenv("SHELL"),
		StatePath: statePath,
	}, cfg, closePrompter, nil
}
