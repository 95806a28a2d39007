// Package shellenv writes environment variables into shell startup files so
// they persist across sessions.
package shellenv

import (
	"fmt"
	"strings"
)

// Dialect is a supported shell/profile syntax for variable assignment.
type Dialect string

const (
	Bash       Dialect = "bash"
	Zsh        Dialect = "zsh"
	Fish       Dialect = "fish"
	PowerShell Dialect = "powershell"
	Profile    Dialect = "profile"
	Skip       Dialect = "skip"
)

// ParseDialect converts a name such as "zsh" into a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(s))); d {
	case Bash, Zsh, Fish, PowerShell, Profile, Skip:
		return d, nil
	}
	return "", fmt.Errorf("unknown shell dialect %q", s)
}

// VarKind controls how a Variable's value is quoted.
type VarKind int

const (
	// Opaque values are written literally; no expansion happens in any dialect.
	Opaque VarKind = iota
	// HomePath values are paths relative to the home directory and are
	// written so the shell expands the home directory at load time.
	HomePath
)

// Variable is one environment variable assignment.
type Variable struct {
	Name   string
	Value  string
	Kind   VarKind
	Secret bool // masked whenever the value is displayed
}

// Display returns the value as shown to the user before writing.
func (v Variable) Display() string {
	if v.Secret {
		return "***"
	}
	if v.Kind == HomePath {
		return "$HOME/" + v.Value
	}
	return v.Value
}

// RenderLines renders vars as assignment lines in dialect d.
func RenderLines(d Dialect, vars []Variable) ([]string, error) {
	lines := make([]string, 0, len(vars))
	for _, v := range vars {
		line, err := renderLine(d, v)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func renderLine(d Dialect, v Variable) (string, error) {
	switch d {
	case Bash, Zsh, Profile:
		if v.Kind == HomePath {
			return fmt.Sprintf(`export %s="$HOME/%s"`, v.Name, shDoubleEscape(v.Value)), nil
		}
		return fmt.Sprintf("export %s=%s", v.Name, ShSingleQuote(v.Value)), nil
	case Fish:
		if v.Kind == HomePath {
			return fmt.Sprintf(`set -gx %s "$HOME/%s"`, v.Name, fishDoubleEscape(v.Value)), nil
		}
		return fmt.Sprintf("set -gx %s %s", v.Name, FishSingleQuote(v.Value)), nil
	case PowerShell:
		if v.Kind == HomePath {
			return fmt.Sprintf(`$env:%s = (Join-Path $HOME "%s")`, v.Name, psDoubleEscape(v.Value)), nil
		}
		return fmt.Sprintf("$env:%s = %s", v.Name, PSSingleQuote(v.Value)), nil
	}
	return "", fmt.Errorf("no assignment syntax for dialect %q", d)
}

// ShSingleQuote quotes s for bash, zsh and POSIX sh. Single quotes are closed,
// emitted inside double quotes, and reopened.
func ShSingleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// FishSingleQuote quotes s for fish, where only \\ and \' are escapes inside
// single quotes.
func FishSingleQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

// PSSingleQuote quotes s as a PowerShell verbatim string.
func PSSingleQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func shDoubleEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`").Replace(s)
}

func fishDoubleEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`).Replace(s)
}

func psDoubleEscape(s string) string {
	return strings.NewReplacer("`", "``", `"`, "`\"", "$", "`$").Replace(s)
}
