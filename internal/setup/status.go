package setup

import (
	"ai-setup/internal/blockfile"
	"ai-setup/internal/state"
	"ai-setup/internal/toolconfig"
)

// Status prints what the last runs recorded and what is on disk now.
func Status(s *Session) {
	st := state.LoadState(s.FS, s.StatePath)

	s.Log.Section("Claude Code")
	claudePath := toolconfig.ClaudeSettingsPath(s.Home)
	if sum, err := toolconfig.ReadClaudeSettings(s.FS, claudePath); err != nil {
		s.Log.Warn("settings.json: not configured (%v)\n", err)
	} else {
		s.Log.Plain("settings.json: %s\n", s.Log.Colorize(claudePath))
		s.Log.Plain("  base URL: %s\n", sum.BaseURL)
		s.Log.Plain("  model:    %s\n", sum.Model)
		s.Log.Plain("  token:    %s\n", presence(sum.HasToken))
	}
	printRecord(s, st, "claude")

	s.Log.Section("Codex CLI")
	codexPath, _ := toolconfig.CodexPaths(s.Home)
	if cfg, err := toolconfig.ReadCodexConfig(s.FS, codexPath); err != nil {
		s.Log.Warn("config.toml: not configured (%v)\n", err)
	} else {
		s.Log.Plain("config.toml: %s\n", s.Log.Colorize(codexPath))
		s.Log.Plain("  base URL: %s\n", cfg.BaseURL())
		s.Log.Plain("  model:    %s\n", cfg.Model)
		s.Log.Plain("  MCP:      %d server(s)\n", len(cfg.MCPServers))
	}
	printRecord(s, st, "codex")
}

func printRecord(s *Session, st *state.State, name string) {
	rec, ok := st.Tools[name]
	if !ok {
		s.Log.Note("No recorded setup run\n")
		return
	}
	s.Log.Plain("Last run: %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(rec.MCPServers) > 0 {
		s.Log.Plain("  MCP servers: %v\n", rec.MCPServers)
	}
	if rec.ProfilePath == "" {
		return
	}
	editor := blockfile.NewEditor(s.FS, ClaudeMarkers)
	has, err := editor.Has(rec.ProfilePath)
	switch {
	case err != nil:
		s.Log.Warn("  %s: %v\n", rec.ProfilePath, err)
	case has:
		s.Log.Info("  ✓ environment block present in %s (%s)\n", rec.ProfilePath, rec.Dialect)
	default:
		s.Log.Warn("  environment block missing from %s\n", rec.ProfilePath)
	}
}

func presence(ok bool) string {
	if ok {
		return "set"
	}
	return "missing"
}
