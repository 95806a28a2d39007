package installer

import (
	"context"

	"ai-setup/internal/logger"
	"ai-setup/internal/mcp"
)

// ClaudeAddArgs builds the `claude mcp add` arguments registering s at user scope.
func ClaudeAddArgs(s mcp.Server) []string {
	args := []string{"mcp", "add", s.Name, "-s", "user"}
	if s.Transport == mcp.HTTP {
		return append(args, "--transport", "http", s.URL)
	}
	args = append(args, "--", s.Command)
	return append(args, s.Args...)
}

// RegisterClaudeServers registers each server through the claude CLI and
// returns the names that succeeded. Failures are reported and skipped.
func RegisterClaudeServers(ctx context.Context, r Runner, log *logger.Logger, servers []mcp.Server) []string {
	var registered []string
	for _, s := range servers {
		log.Note("Installing %s MCP...\n", s.Name)
		if err := r.Run(ctx, "claude", ClaudeAddArgs(s)...); err != nil {
			log.Debug("[DEBUG] claude mcp add %s: %v\n", s.Name, err)
			log.Error("✗ %s MCP installation failed\n", s.Name)
			continue
		}
		log.Info("✓ %s MCP installed\n", s.Name)
		registered = append(registered, s.Name)
	}
	return registered
}
