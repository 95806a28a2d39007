package shellenv

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// CommandRunner runs an external command to completion.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// Choice is one entry of the environment selection menu.
type Choice struct {
	Key     string
	Dialect Dialect
	Label   string
}

// Chooser asks the user to pick one of several existing files.
type Chooser func(ctx context.Context, options []string) (string, error)

// Platform captures everything about environment persistence that differs
// between Windows and POSIX systems.
type Platform interface {
	// Name is the GOOS value the platform was selected for.
	Name() string
	// DefaultDialect is the dialect preselected in the menu.
	DefaultDialect() Dialect
	// Choices lists the menu entries offered on this platform.
	Choices() []Choice
	// ResolvePath maps d to the startup file that receives the managed block.
	ResolvePath(ctx context.Context, fsys afero.Fs, d Dialect, home string, choose Chooser) (string, error)
	// CanPersist reports whether PersistVariable is supported.
	CanPersist() bool
	// PersistVariable registers name=value in the OS user environment.
	PersistVariable(ctx context.Context, name, value string) error
	// PersistValue converts v into the literal value handed to PersistVariable.
	PersistValue(v Variable, home string) string
}

// Detect selects the Platform for goos. getenv supplies SHELL and USERPROFILE.
func Detect(goos string, getenv func(string) string, runner CommandRunner) Platform {
	if goos == "windows" {
		return &windowsPlatform{userProfile: getenv("USERPROFILE"), runner: runner}
	}
	return &posixPlatform{goos: goos, shell: getenv("SHELL")}
}

type posixPlatform struct {
	goos  string
	shell string
}

func (p *posixPlatform) Name() string { return p.goos }

func (p *posixPlatform) DefaultDialect() Dialect {
	switch {
	case strings.Contains(p.shell, "zsh"):
		return Zsh
	case strings.Contains(p.shell, "fish"):
		return Fish
	case strings.Contains(p.shell, "bash"):
		return Bash
	}
	return Profile
}

func (p *posixPlatform) Choices() []Choice {
	return []Choice{
		{Key: "1", Dialect: Bash, Label: "bash (.bashrc / .bash_profile)"},
		{Key: "2", Dialect: Zsh, Label: "zsh (.zshrc)"},
		{Key: "3", Dialect: Fish, Label: "fish (~/.config/fish/config.fish)"},
		{Key: "4", Dialect: PowerShell, Label: "PowerShell (~/.config/powershell/Microsoft.PowerShell_profile.ps1)"},
		{Key: "5", Dialect: Profile, Label: "POSIX generic (~/.profile)"},
		{Key: "6", Dialect: Skip, Label: "skip (do not write environment variables)"},
	}
}

func (p *posixPlatform) ResolvePath(ctx context.Context, fsys afero.Fs, d Dialect, home string, choose Chooser) (string, error) {
	if d == PowerShell {
		return filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1"), nil
	}
	return resolveShellRC(ctx, fsys, d, home, choose)
}

func (p *posixPlatform) CanPersist() bool { return false }

func (p *posixPlatform) PersistVariable(context.Context, string, string) error {
	return fmt.Errorf("persistent user environment variables are not supported on %s", p.goos)
}

func (p *posixPlatform) PersistValue(v Variable, home string) string {
	if v.Kind == HomePath {
		return filepath.Join(home, v.Value)
	}
	return v.Value
}

type windowsPlatform struct {
	userProfile string
	runner      CommandRunner
}

func (w *windowsPlatform) Name() string { return "windows" }

func (w *windowsPlatform) DefaultDialect() Dialect { return PowerShell }

func (w *windowsPlatform) Choices() []Choice {
	return []Choice{
		{Key: "1", Dialect: PowerShell, Label: "PowerShell (user environment variables + profile)"},
		{Key: "2", Dialect: Skip, Label: "skip (do not write environment variables)"},
	}
}

func (w *windowsPlatform) ResolvePath(ctx context.Context, fsys afero.Fs, d Dialect, home string, choose Chooser) (string, error) {
	if d != PowerShell {
		return resolveShellRC(ctx, fsys, d, home, choose)
	}
	base := w.userProfile
	if base == "" {
		base = home
	}
	documents := winJoin(base, "Documents")
	ps7 := winJoin(documents, "PowerShell")
	winPS := winJoin(documents, "WindowsPowerShell")
	const profileName = "Microsoft.PowerShell_profile.ps1"

	// PowerShell 7 wins unless only the Windows PowerShell directory exists.
	if isDir(fsys, ps7) {
		return winJoin(ps7, profileName), nil
	}
	if isDir(fsys, winPS) {
		return winJoin(winPS, profileName), nil
	}
	return winJoin(ps7, profileName), nil
}

func (w *windowsPlatform) CanPersist() bool { return w.runner != nil }

func (w *windowsPlatform) PersistVariable(ctx context.Context, name, value string) error {
	if w.runner == nil {
		return fmt.Errorf("no command runner configured")
	}
	return w.runner.Run(ctx, "setx", name, value)
}

func (w *windowsPlatform) PersistValue(v Variable, home string) string {
	if v.Kind == HomePath {
		base := w.userProfile
		if base == "" {
			base = home
		}
		return winJoin(base, v.Value)
	}
	return v.Value
}

// winJoin joins Windows path elements independent of the host separator.
func winJoin(elem ...string) string {
	parts := make([]string, 0, len(elem))
	for i, e := range elem {
		e = strings.ReplaceAll(e, "/", `\`)
		if i > 0 {
			e = strings.TrimLeft(e, `\`)
		}
		if i < len(elem)-1 {
			e = strings.TrimRight(e, `\`)
		}
		parts = append(parts, e)
	}
	return strings.Join(parts, `\`)
}

// resolveShellRC maps POSIX shell dialects to their startup files.
func resolveShellRC(ctx context.Context, fsys afero.Fs, d Dialect, home string, choose Chooser) (string, error) {
	switch d {
	case Bash:
		bashrc := filepath.Join(home, ".bashrc")
		bashProfile := filepath.Join(home, ".bash_profile")
		rcExists := isFile(fsys, bashrc)
		profileExists := isFile(fsys, bashProfile)
		if rcExists && profileExists && choose != nil {
			return choose(ctx, []string{bashrc, bashProfile})
		}
		if rcExists {
			return bashrc, nil
		}
		return bashProfile, nil
	case Zsh:
		return filepath.Join(home, ".zshrc"), nil
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish"), nil
	case Profile:
		return filepath.Join(home, ".profile"), nil
	}
	return "", fmt.Errorf("no startup file for dialect %q", d)
}

func isFile(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(fsys afero.Fs, path string) bool {
	ok, err := afero.DirExists(fsys, path)
	return err == nil && ok
}
