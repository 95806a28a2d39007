package toolconfig

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

const (
	ClaudeDirName      = ".claude"
	ClaudeSettingsFile = "settings.json"

	DefaultClaudeModel   = "opus"
	DefaultAPITimeoutMS  = "3000000"
	nonEssentialDisabled = "1"
)

// ClaudeSettings are the values written into Claude Code's settings.json.
type ClaudeSettings struct {
	BaseURL      string
	APIKey       string
	Model        string
	APITimeoutMS string
}

func (s ClaudeSettings) withDefaults() ClaudeSettings {
	if s.Model == "" {
		s.Model = DefaultClaudeModel
	}
	if s.APITimeoutMS == "" {
		s.APITimeoutMS = DefaultAPITimeoutMS
	}
	return s
}

// ClaudeSettingsPath returns ~/.claude/settings.json for home.
func ClaudeSettingsPath(home string) string {
	return filepath.Join(home, ClaudeDirName, ClaudeSettingsFile)
}

// WriteClaudeSettings writes the credentials and fixed options into
// settings.json under home, keeping any other settings already present.
func WriteClaudeSettings(fsys afero.Fs, home string, s ClaudeSettings) (string, error) {
	s = s.withDefaults()
	path := ClaudeSettingsPath(home)
	fields := []jsonField{
		{Path: "env.ANTHROPIC_AUTH_TOKEN", Value: s.APIKey},
		{Path: "env.ANTHROPIC_BASE_URL", Value: s.BaseURL},
		{Path: "env.API_TIMEOUT_MS", Value: s.APITimeoutMS},
		{Path: "env.CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC", Value: nonEssentialDisabled},
		{Path: "model", Value: s.Model},
	}
	if err := mergeJSONFile(fsys, path, fields); err != nil {
		return "", err
	}
	return path, nil
}

// ClaudeSummary is what status reports about an existing settings.json.
type ClaudeSummary struct {
	BaseURL  string
	Model    string
	HasToken bool
}

// ReadClaudeSettings summarizes settings.json at path.
func ReadClaudeSettings(fsys afero.Fs, path string) (ClaudeSummary, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return ClaudeSummary{}, err
	}
	if !gjson.ValidBytes(data) {
		return ClaudeSummary{}, fmt.Errorf("%s is not valid JSON", path)
	}
	res := gjson.GetManyBytes(data, "env.ANTHROPIC_BASE_URL", "model", "env.ANTHROPIC_AUTH_TOKEN")
	return ClaudeSummary{
		BaseURL:  res[0].String(),
		Model:    res[1].String(),
		HasToken: res[2].String() != "",
	}, nil
}
