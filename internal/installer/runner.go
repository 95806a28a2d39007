package installer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"ai-setup/internal/logger"
)

// ErrNotInstalled is returned when an executable cannot be found on PATH.
var ErrNotInstalled = errors.New("executable not found")

// Runner runs external commands. ExecRunner is the real implementation;
// tests substitute a fake.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs commands with os/exec and logs them at debug level.
type ExecRunner struct {
	Log *logger.Logger
}

// LookPath resolves name on PATH.
func (r ExecRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, name)
	}
	return path, nil
}

// Run executes name with args and waits for it. Combined output is only
// surfaced through debug logging; a non-zero exit becomes an error.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	r.Log.Debug("[DEBUG] Running command: %s\n", strings.Join(MaskArgs(cmd.Args), " "))

	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		r.Log.Debug("[DEBUG] %s output: %s\n", name, strings.TrimSpace(string(output)))
	}
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return fmt.Errorf("%w: %s", ErrNotInstalled, name)
		}
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// CommandExists reports whether name can be found on PATH.
func CommandExists(r Runner, name string) bool {
	_, err := r.LookPath(name)
	return err == nil
}

// secretFlags are flags whose following argument must not be logged.
var secretFlags = map[string]bool{
	"--api-key": true,
}

// MaskArgs returns a copy of args with the values of secret flags replaced.
// setx values are always masked since they may hold tokens.
func MaskArgs(args []string) []string {
	masked := make([]string, len(args))
	copy(masked, args)
	if len(masked) == 3 && strings.EqualFold(strings.TrimSuffix(filepath.Base(masked[0]), ".exe"), "setx") {
		masked[2] = "***"
		return masked
	}
	for i := 0; i < len(masked)-1; i++ {
		if secretFlags[masked[i]] {
			masked[i+1] = "***"
			i++
		}
	}
	return masked
}
