// Package setup sequences an interactive tool setup: banner, install check,
// credential prompt, config write, optional MCP integrations, environment
// variables and the completion message.
package setup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/afero"

	"ai-setup/internal/blockfile"
	"ai-setup/internal/config"
	"ai-setup/internal/input"
	"ai-setup/internal/installer"
	"ai-setup/internal/logger"
	"ai-setup/internal/shellenv"
	"ai-setup/internal/state"
)

var (
	// ErrMissingCredential aborts a run when the API key is empty.
	ErrMissingCredential = errors.New("API key must not be empty")
	// ErrAborted aborts a run when the user declines to continue.
	ErrAborted = errors.New("setup cancelled by user")
)

// APIKeyPrefix is the prefix expected on API keys of both tools.
const APIKeyPrefix = "sk-"

// Credentials are the values entered by the user for one run.
type Credentials struct {
	BaseURL string
	APIKey  string
}

// Session bundles the dependencies of one setup run.
type Session struct {
	Log       *logger.Logger
	Prompt    input.Prompter
	FS        afero.Fs
	Runner    installer.Runner
	Platform  shellenv.Platform
	Home      string
	Shell     string // raw SHELL value, for display
	StatePath string
	Now       func() time.Time
}

// Tools returns the configurable tools keyed by name, with cfg applied.
func Tools(cfg config.Config) map[string]Tool {
	return map[string]Tool{
		"claude": Claude{Config: cfg.Claude, MCP: cfg.MCP},
		"codex":  Codex{Config: cfg.Codex, MCP: cfg.MCP},
	}
}

// Tool is one configurable CLI.
type Tool interface {
	// Name is the state key and subcommand name.
	Name() string
	// Title is the human-readable product name.
	Title() string
	// Executable is looked up on PATH for the install check.
	Executable() string
	// InstallHint is the command suggested when the executable is missing.
	InstallHint() string
	// DefaultBaseURL is used when the user enters no base URL.
	DefaultBaseURL() string
	// NormalizeBaseURL adjusts a user-entered base URL.
	NormalizeBaseURL(raw string) string
	// WriteConfig writes the tool's config files and returns their paths.
	WriteConfig(s *Session, c Credentials) ([]string, error)
	// Integrate asks for and registers MCP servers, returning their names.
	Integrate(ctx context.Context, s *Session, installed bool, configFiles []string) ([]string, error)
	// Usage lists the closing instructions.
	Usage() []string
}

// EnvTool is implemented by tools that also persist environment variables.
type EnvTool interface {
	EnvMarkers() blockfile.Markers
	EnvVariables(c Credentials) []shellenv.Variable
}

// Run performs the full interactive setup of tool. It returns
// ErrMissingCredential or ErrAborted when the user input ends the run, and the
// context error when interrupted. Every other failure is reported and skipped.
func Run(ctx context.Context, s *Session, tool Tool) error {
	banner(s.Log, tool.Title())

	installed := checkInstalled(s, tool)

	creds, err := PromptCredentials(ctx, s, tool)
	if err != nil {
		return err
	}

	record := state.ToolState{}
	files, err := tool.WriteConfig(s, creds)
	if err != nil {
		s.Log.Error("✗ Failed to write configuration: %v\n", err)
	} else {
		record.ConfigFiles = files
		s.Log.Plain("\n")
		s.Log.Info("✓ API configuration complete!\n")
		s.Log.Plain("Configuration files:\n")
		for _, f := range files {
			s.Log.Plain("  %s\n", s.Log.Colorize(f))
		}
	}

	s.Log.Section("MCP servers")
	servers, err := tool.Integrate(ctx, s, installed, record.ConfigFiles)
	if err != nil {
		return err
	}
	record.MCPServers = servers

	if envTool, ok := tool.(EnvTool); ok {
		configurator := &shellenv.Configurator{
			Log:      s.Log,
			Prompt:   s.Prompt,
			FS:       s.FS,
			Platform: s.Platform,
			Home:     s.Home,
			Editor:   blockfile.NewEditor(s.FS, envTool.EnvMarkers()),
			Shell:    s.Shell,
		}
		res, err := configurator.Run(ctx, envTool.EnvVariables(creds))
		if err != nil {
			return err
		}
		record.Dialect = string(res.Dialect)
		if res.Written {
			record.ProfilePath = res.Path
		}
	}

	saveRecord(s, tool.Name(), record)
	completion(s.Log, tool.Usage())
	return nil
}

// PromptCredentials asks for the base URL and API key.
func PromptCredentials(ctx context.Context, s *Session, tool Tool) (Credentials, error) {
	def := tool.DefaultBaseURL()
	s.Log.Info("Enter the API base URL (press enter for the default %s):\n", def)
	raw, err := s.Prompt.Ask(ctx, "")
	if err != nil {
		return Credentials{}, err
	}
	baseURL := def
	if raw != "" {
		baseURL = tool.NormalizeBaseURL(raw)
	}
	s.Log.Note("Using base URL: %s\n", baseURL)
	if err := ValidateBaseURL(baseURL); err != nil {
		s.Log.Warn("[WARN] %v\n", err)
	}

	s.Log.Plain("\n")
	s.Log.Info("Enter your API key (%sxxx):\n", APIKeyPrefix)
	key, err := s.Prompt.Ask(ctx, "")
	if err != nil {
		return Credentials{}, err
	}
	if key == "" {
		s.Log.Error("[ERROR] The API key must not be empty!\n")
		return Credentials{}, ErrMissingCredential
	}
	if !strings.HasPrefix(key, APIKeyPrefix) {
		s.Log.Warn("[WARN] The API key may be malformed; it usually starts with '%s'\n", APIKeyPrefix)
		ok, err := s.Prompt.Confirm(ctx, "Continue anyway?", false)
		if err != nil {
			return Credentials{}, err
		}
		if !ok {
			s.Log.Error("Configuration cancelled\n")
			return Credentials{}, ErrAborted
		}
	}
	return Credentials{BaseURL: baseURL, APIKey: key}, nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL with a host.
func ValidateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("base URL %q does not parse: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q should start with http:// or https://", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", raw)
	}
	return nil
}

func checkInstalled(s *Session, tool Tool) bool {
	if installer.CommandExists(s.Runner, tool.Executable()) {
		s.Log.Debug("[DEBUG] Found %s on PATH\n", tool.Executable())
		return true
	}
	s.Log.Warn("[NOTE] %s was not found. Install it first:\n", tool.Title())
	s.Log.Plain("  %s\n\n", tool.InstallHint())
	return false
}

func saveRecord(s *Session, name string, record state.ToolState) {
	if s.StatePath == "" {
		return
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	record.UpdatedAt = now()
	st := state.LoadState(s.FS, s.StatePath)
	st.Record(name, record)
	state.SaveState(s.FS, s.StatePath, st, s.Log)
}

func banner(log *logger.Logger, title string) {
	const width = 60
	pad := func(text string) string {
		n := width - displayWidth(text)
		if n < 0 {
			n = 0
		}
		left := n / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", n-left)
	}
	log.Note("\n╔%s╗\n", strings.Repeat("═", width))
	log.Note("║%s║\n", pad(title+" setup"))
	log.Note("║%s║\n", pad("for Windows / Linux / WSL / macOS"))
	log.Note("╚%s╝\n\n", strings.Repeat("═", width))
}

func completion(log *logger.Logger, usage []string) {
	const width = 60
	title := "All done!"
	left := (width - len(title)) / 2
	log.Plain("\n")
	log.Info("╔%s╗\n", strings.Repeat("═", width))
	log.Info("║%s%s%s║\n", strings.Repeat(" ", left), title, strings.Repeat(" ", width-left-len(title)))
	log.Info("╚%s╝\n\n", strings.Repeat("═", width))
	log.Warn("Usage:\n")
	for _, line := range usage {
		log.Plain("%s\n", line)
	}
	log.Plain("\n")
	log.Info("Enjoy!\n")
}

func displayWidth(s string) int {
	return len([]rune(s))
}
