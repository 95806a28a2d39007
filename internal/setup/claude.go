package setup

import (
	"context"

	"ai-setup/internal/blockfile"
	"ai-setup/internal/config"
	"ai-setup/internal/installer"
	"ai-setup/internal/mcp"
	"ai-setup/internal/shellenv"
	"ai-setup/internal/toolconfig"
)

const (
	DefaultClaudeBaseURL = "https://api.anthropic.com"
	claudeInstallHint    = "npm install -g @anthropic-ai/claude-code"
)

// ClaudeMarkers delimit the environment block written for Claude Code.
var ClaudeMarkers = blockfile.Markers{
	Start: "# >>> Claude Code env (managed by ai-setup) >>>",
	End:   "# <<< Claude Code env <<<",
}

// Claude configures Claude Code. Empty config fields fall back to defaults.
type Claude struct {
	Config config.Claude
	MCP    config.MCP
}

func (Claude) Name() string        { return "claude" }
func (Claude) Title() string       { return "Claude Code" }
func (Claude) Executable() string  { return "claude" }
func (Claude) InstallHint() string { return claudeInstallHint }

func (t Claude) DefaultBaseURL() string {
	if t.Config.BaseURL != "" {
		return t.Config.BaseURL
	}
	return DefaultClaudeBaseURL
}

// NormalizeBaseURL keeps the entered URL as is.
func (Claude) NormalizeBaseURL(raw string) string { return raw }

func (t Claude) WriteConfig(s *Session, c Credentials) ([]string, error) {
	path, err := toolconfig.WriteClaudeSettings(s.FS, s.Home, toolconfig.ClaudeSettings{
		BaseURL:      c.BaseURL,
		APIKey:       c.APIKey,
		Model:        t.Config.Model,
		APITimeoutMS: t.Config.APITimeoutMS,
	})
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// Integrate registers the selected servers with `claude mcp add`. Without a
// claude executable there is nothing to register with, so the step is skipped.
func (t Claude) Integrate(ctx context.Context, s *Session, installed bool, _ []string) ([]string, error) {
	if !installed {
		s.Log.Warn("[SKIP] Claude Code is not installed, skipping MCP servers\n")
		return nil, nil
	}
	collector := &mcp.Collector{Log: s.Log, Prompt: s.Prompt, FS: s.FS, Options: mcpOptions(t.MCP)}
	servers, err := collector.Collect(ctx)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, nil
	}
	s.Log.Plain("\n")
	return installer.RegisterClaudeServers(ctx, s.Runner, s.Log, servers), nil
}

func (Claude) EnvMarkers() blockfile.Markers { return ClaudeMarkers }

func (t Claude) EnvVariables(c Credentials) []shellenv.Variable {
	timeout := t.Config.APITimeoutMS
	if timeout == "" {
		timeout = toolconfig.DefaultAPITimeoutMS
	}
	return []shellenv.Variable{
		{Name: "CLAUDE_CONFIG_DIR", Value: toolconfig.ClaudeDirName, Kind: shellenv.HomePath},
		{Name: "ANTHROPIC_BASE_URL", Value: c.BaseURL},
		{Name: "ANTHROPIC_AUTH_TOKEN", Value: c.APIKey, Secret: true},
		{Name: "API_TIMEOUT_MS", Value: timeout},
		{Name: "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC", Value: "1"},
	}
}

func (Claude) Usage() []string {
	return []string{
		"  1. Change into your project directory",
		"  2. Run: claude",
		"",
		"  List MCP servers: claude mcp list",
	}
}

func mcpOptions(cfg config.MCP) mcp.Options {
	return mcp.Options{
		Context7Package: cfg.Context7Package,
		GitHubURL:       cfg.GitHubURL,
	}
}
