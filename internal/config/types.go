package config

// Config is the optional user configuration loaded from config.yaml.
// Every field is optional; empty values fall back to the built-in defaults.
type Config struct {
	Claude Claude `yaml:"claude"`
	Codex  Codex  `yaml:"codex"`
	MCP    MCP    `yaml:"mcp"`
}

// Claude holds Claude Code defaults.
// - BaseURL: offered when the user presses enter at the base URL prompt.
// - Model: written to settings.json "model".
// - APITimeoutMS: written to env.API_TIMEOUT_MS.
type Claude struct {
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	APITimeoutMS string `yaml:"api_timeout_ms"`
}

// Codex holds Codex CLI defaults.
type Codex struct {
	BaseURL         string `yaml:"base_url"`
	Model           string `yaml:"model"`
	ReasoningEffort string `yaml:"reasoning_effort"`
	Verbosity       string `yaml:"verbosity"`
}

// MCP overrides where the optional MCP servers come from.
type MCP struct {
	Context7Package string `yaml:"context7_package"`
	GitHubURL       string `yaml:"github_url"`
}
