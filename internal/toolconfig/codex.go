package toolconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"ai-setup/internal/mcp"
)

const (
	CodexDirName    = ".codex"
	CodexConfigFile = "config.toml"
	CodexAuthFile   = "auth.json"

	DefaultCodexModel      = "gpt-5.2-codex"
	DefaultReasoningEffort = "high"
	DefaultVerbosity       = "high"

	codexProviderName = "custom"
)

// CodexConfig mirrors the keys of config.toml written by the setup.
type CodexConfig struct {
	ModelProvider          string                    `toml:"model_provider"`
	Model                  string                    `toml:"model"`
	ModelReasoningEffort   string                    `toml:"model_reasoning_effort"`
	NetworkAccess          string                    `toml:"network_access"`
	DisableResponseStorage bool                      `toml:"disable_response_storage"`
	ModelVerbosity         string                    `toml:"model_verbosity"`
	ModelProviders         map[string]CodexProvider  `toml:"model_providers"`
	MCPServers             map[string]CodexMCPServer `toml:"mcp_servers,omitempty"`
}

// CodexProvider is a [model_providers.<name>] table.
type CodexProvider struct {
	Name               string `toml:"name"`
	BaseURL            string `toml:"base_url"`
	WireAPI            string `toml:"wire_api"`
	RequiresOpenAIAuth bool   `toml:"requires_openai_auth"`
}

// CodexMCPServer is a [mcp_servers.<name>] table.
type CodexMCPServer struct {
	Type           string   `toml:"type"`
	Command        string   `toml:"command,omitempty"`
	Args           []string `toml:"args,omitempty"`
	URL            string   `toml:"url,omitempty"`
	ToolTimeoutSec float64  `toml:"tool_timeout_sec,omitempty"`
}

// CodexSettings are the user-dependent values of the Codex configuration.
type CodexSettings struct {
	BaseURL         string
	APIKey          string
	Model           string
	ReasoningEffort string
	Verbosity       string
}

// CodexPaths returns the config.toml and auth.json locations under home.
func CodexPaths(home string) (configPath, authPath string) {
	dir := filepath.Join(home, CodexDirName)
	return filepath.Join(dir, CodexConfigFile), filepath.Join(dir, CodexAuthFile)
}

// NewCodexConfig builds the fixed config document for s.
func NewCodexConfig(s CodexSettings) CodexConfig {
	if s.Model == "" {
		s.Model = DefaultCodexModel
	}
	if s.ReasoningEffort == "" {
		s.ReasoningEffort = DefaultReasoningEffort
	}
	if s.Verbosity == "" {
		s.Verbosity = DefaultVerbosity
	}
	return CodexConfig{
		ModelProvider:          codexProviderName,
		Model:                  s.Model,
		ModelReasoningEffort:   s.ReasoningEffort,
		NetworkAccess:          "enabled",
		DisableResponseStorage: true,
		ModelVerbosity:         s.Verbosity,
		ModelProviders: map[string]CodexProvider{
			codexProviderName: {
				Name:               codexProviderName,
				BaseURL:            s.BaseURL,
				WireAPI:            "responses",
				RequiresOpenAIAuth: true,
			},
		},
	}
}

// WriteCodexConfig writes config.toml and auth.json under home. The config
// file is replaced; auth.json keeps unrelated keys.
func WriteCodexConfig(fsys afero.Fs, home string, s CodexSettings) (configPath, authPath string, err error) {
	configPath, authPath = CodexPaths(home)

	data, err := toml.Marshal(NewCodexConfig(s))
	if err != nil {
		return "", "", fmt.Errorf("encode %s: %w", configPath, err)
	}
	if err := writeFile(fsys, configPath, data, secretMode); err != nil {
		return "", "", err
	}

	if err := mergeJSONFile(fsys, authPath, []jsonField{{Path: "OPENAI_API_KEY", Value: s.APIKey}}); err != nil {
		return "", "", err
	}
	return configPath, authPath, nil
}

// CodexMCPTables converts servers into their config.toml representation.
func CodexMCPTables(servers []mcp.Server) map[string]CodexMCPServer {
	tables := make(map[string]CodexMCPServer, len(servers))
	for _, s := range servers {
		tables[s.Name] = CodexMCPServer{
			Type:           string(s.Transport),
			Command:        s.Command,
			Args:           s.Args,
			URL:            s.URL,
			ToolTimeoutSec: s.TimeoutSec,
		}
	}
	return tables
}

// AppendCodexMCPServers appends [mcp_servers.<name>] tables to config.toml.
// Nothing is written when servers is empty.
func AppendCodexMCPServers(fsys afero.Fs, configPath string, servers []mcp.Server) error {
	if len(servers) == 0 {
		return nil
	}
	section := struct {
		MCPServers map[string]CodexMCPServer `toml:"mcp_servers"`
	}{MCPServers: CodexMCPTables(servers)}

	data, err := toml.Marshal(section)
	if err != nil {
		return fmt.Errorf("encode mcp servers: %w", err)
	}

	f, err := fsys.OpenFile(configPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, secretMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", configPath, err)
	}
	if _, err := f.Write(append([]byte("\n"), data...)); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to %s: %w", configPath, err)
	}
	return f.Close()
}

// ReadCodexConfig parses config.toml at path.
func ReadCodexConfig(fsys afero.Fs, path string) (CodexConfig, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return CodexConfig{}, err
	}
	var cfg CodexConfig
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return CodexConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// BaseURL returns the base URL of the active model provider.
func (c CodexConfig) BaseURL() string {
	return c.ModelProviders[c.ModelProvider].BaseURL
}
