package setup

import (
	"context"
	"strings"

	"ai-setup/internal/config"
	"ai-setup/internal/mcp"
	"ai-setup/internal/toolconfig"
)

const (
	DefaultCodexBaseURL = "https://api.openai.com/v1"
	codexInstallHint    = "npm install -g @openai/codex"
	codexAPISuffix      = "/v1"
)

// Codex configures Codex CLI. Empty config fields fall back to defaults.
type Codex struct {
	Config config.Codex
	MCP    config.MCP
}

func (Codex) Name() string        { return "codex" }
func (Codex) Title() string       { return "Codex CLI" }
func (Codex) Executable() string  { return "codex" }
func (Codex) InstallHint() string { return codexInstallHint }

func (t Codex) DefaultBaseURL() string {
	if t.Config.BaseURL != "" {
		return t.Config.BaseURL
	}
	return DefaultCodexBaseURL
}

// NormalizeBaseURL strips trailing slashes and appends /v1 when missing.
func (Codex) NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(raw, "/")
	if !strings.HasSuffix(u, codexAPISuffix) {
		u += codexAPISuffix
	}
	return u
}

func (t Codex) WriteConfig(s *Session, c Credentials) ([]string, error) {
	configPath, authPath, err := toolconfig.WriteCodexConfig(s.FS, s.Home, toolconfig.CodexSettings{
		BaseURL:         c.BaseURL,
		APIKey:          c.APIKey,
		Model:           t.Config.Model,
		ReasoningEffort: t.Config.ReasoningEffort,
		Verbosity:       t.Config.Verbosity,
	})
	if err != nil {
		return nil, err
	}
	return []string{configPath, authPath}, nil
}

// Integrate appends the selected servers to config.toml. It needs the config
// file from WriteConfig; the executable itself is not required.
func (t Codex) Integrate(ctx context.Context, s *Session, _ bool, configFiles []string) ([]string, error) {
	if len(configFiles) == 0 {
		s.Log.Warn("[SKIP] config.toml was not written, skipping MCP servers\n")
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
	if err := toolconfig.AppendCodexMCPServers(s.FS, configFiles[0], servers); err != nil {
		s.Log.Error("✗ Failed to add MCP servers to %s: %v\n", configFiles[0], err)
		return nil, nil
	}
	for _, srv := range servers {
		s.Log.Info("✓ %s MCP configured\n", srv.Name)
	}
	return mcp.Names(servers), nil
}

func (Codex) Usage() []string {
	return []string{
		"  1. Change into your project directory",
		"  2. Run: codex",
	}
}
