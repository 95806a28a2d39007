package state

import (
	"encoding/json" // For JSON encoding and decoding of the state file
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"ai-setup/internal/logger"
)

// ToolState is what the last successful setup run recorded for one tool.
type ToolState struct {
	ConfigFiles []string  `json:"config_files"`           // Config files written for the tool
	Dialect     string    `json:"dialect,omitempty"`      // Shell dialect chosen for environment variables
	ProfilePath string    `json:"profile_path,omitempty"` // Startup file holding the managed block
	MCPServers  []string  `json:"mcp_servers,omitempty"`  // MCP servers registered or configured
	UpdatedAt   time.Time `json:"updated_at"`             // When the run finished
}

// State holds the saved state of all tools, keyed by tool name ("claude", "codex").
type State struct {
	Tools map[string]ToolState `json:"tools"`
}

// DefaultPath returns state.json inside the application config directory.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "state.json")
}

// LoadState loads the saved state from a JSON file at the given path.
// If the file does not exist or cannot be parsed, it returns an empty State.
func LoadState(fsys afero.Fs, path string) *State {
	file, err := afero.ReadFile(fsys, path)
	if err != nil {
		return &State{Tools: make(map[string]ToolState)}
	}

	var st State
	_ = json.Unmarshal(file, &st)

	// JSON may contain null for the map
	if st.Tools == nil {
		st.Tools = make(map[string]ToolState)
	}
	return &st
}

// SaveState writes st to path as indented JSON.
// Errors are logged but not propagated: losing the state never fails a run.
func SaveState(fsys afero.Fs, path string, st *State, log *logger.Logger) {
	file, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		log.Error("[ERROR] Failed to marshal state: %v\n", err)
		return
	}

	log.Debug("[DEBUG] Writing state to %s\n", path)

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Error("[ERROR] Failed to create state directory for %s: %v\n", path, err)
		return
	}
	if err := afero.WriteFile(fsys, path, file, 0o644); err != nil {
		log.Error("[ERROR] Failed to write state file %s: %v\n", path, err)
	}
}

// Record stores ts for tool, replacing the previous entry.
func (s *State) Record(tool string, ts ToolState) {
	if s.Tools == nil {
		s.Tools = make(map[string]ToolState)
	}
	s.Tools[tool] = ts
}
