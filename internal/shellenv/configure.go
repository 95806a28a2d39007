package shellenv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"ai-setup/internal/blockfile"
	"ai-setup/internal/input"
	"ai-setup/internal/logger"
)

// Configurator walks the user through persisting a set of variables.
type Configurator struct {
	Log      *logger.Logger
	Prompt   input.Prompter
	FS       afero.Fs
	Platform Platform
	Home     string
	Editor   *blockfile.Editor
	// Shell is the raw SHELL value shown next to the detected platform.
	Shell string
}

// Result records what Apply changed.
type Result struct {
	Dialect    Dialect
	Path       string   // startup file that received the block, if any
	Written    bool     // the managed block was written to Path
	Persisted  []string // variables registered in the OS user environment
	Failed     []string // variables whose OS registration failed
	ManualHint []string // lines printed for manual addition after a failure
}

// Choose shows the environment menu and returns the selected dialect.
// An empty answer selects the detected default; an unknown answer skips.
func (c *Configurator) Choose(ctx context.Context) (Dialect, error) {
	shell := c.Shell
	if shell == "" {
		shell = "(unset)"
	}
	c.Log.Note("Detected platform: %s\n", c.Platform.Name())
	c.Log.Note("Detected SHELL: %s\n", shell)
	c.Log.Plain("\nChoose where to write the environment variables (persistent):\n")

	choices := c.Platform.Choices()
	defaultKey := ""
	for _, ch := range choices {
		c.Log.Plain("  %s) %s\n", ch.Key, ch.Label)
		if ch.Dialect == c.Platform.DefaultDialect() {
			defaultKey = ch.Key
		}
	}
	if defaultKey == "" {
		defaultKey = choices[len(choices)-1].Key
	}

	answer, err := c.Prompt.Ask(ctx, fmt.Sprintf("Enter choice [default %s]: ", defaultKey))
	if err != nil {
		return "", err
	}
	if answer == "" {
		answer = defaultKey
	}
	for _, ch := range choices {
		if ch.Key == answer {
			return ch.Dialect, nil
		}
	}
	return Skip, nil
}

// Run shows the section heading, asks for a dialect and applies vars to it.
func (c *Configurator) Run(ctx context.Context, vars []Variable) (Result, error) {
	c.Log.Section("Environment variables")
	d, err := c.Choose(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.Apply(ctx, d, vars)
}

// Apply writes vars for dialect d. Write and registration failures are
// reported to the user and recorded in the Result; only prompt errors
// (including cancellation) are returned.
func (c *Configurator) Apply(ctx context.Context, d Dialect, vars []Variable) (Result, error) {
	res := Result{Dialect: d}
	if d == Skip {
		c.Log.Warn("[SKIP] Environment variables not written (as selected)\n")
		return res, nil
	}

	c.Log.Warn("[NOTE] The variables below will be written to your shell profile (the token is stored in plain text)\n")
	c.Log.Note("Will configure (persistent):\n")
	for _, v := range vars {
		c.Log.Plain("  - %s=%s\n", v.Name, v.Display())
	}
	ok, err := c.Prompt.Confirm(ctx, "Write them now and make them persistent?", true)
	if err != nil {
		return res, err
	}
	if !ok {
		c.Log.Warn("[SKIP] Environment variables not written\n")
		return res, nil
	}

	lines, err := RenderLines(d, vars)
	if err != nil {
		c.Log.Error("✗ %v\n", err)
		return res, nil
	}

	path, err := c.Platform.ResolvePath(ctx, c.FS, d, c.Home, c.chooseFile)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		c.Log.Error("[ERROR] No writable profile found (selection=%s): %v\n", d, err)
		return res, nil
	}
	res.Path = path
	c.Log.Debug("[DEBUG] Writing managed block to %s\n", path)

	if err := c.Editor.Write(path, lines); err != nil {
		c.Log.Debug("[DEBUG] Managed block write failed: %v\n", err)
		c.Log.Error("✗ Failed to write %s\n", path)
		c.Log.Warn("You can add the following lines manually:\n")
		for _, line := range lines {
			c.Log.Plain("  %s\n", line)
		}
		res.ManualHint = lines
	} else {
		res.Written = true
		c.Log.Info("✓ Environment variables written to %s\n", c.Log.Colorize(path))
		if d == PowerShell {
			c.Log.Warn("[IMPORTANT] New PowerShell sessions pick this up automatically; for the current one run:\n")
			c.Log.Note("  . $PROFILE\n")
		} else {
			c.Log.Warn("[IMPORTANT] Run the following to apply it to this terminal, or open a new one:\n")
			c.Log.Note("  source %s\n", path)
		}
	}

	if d == PowerShell && c.Platform.CanPersist() {
		persist, err := c.Prompt.Confirm(ctx, "Also register them as Windows user environment variables (setx, persistent)?", true)
		if err != nil {
			return res, err
		}
		if persist {
			c.persist(ctx, vars, &res)
		}
	}
	return res, nil
}

func (c *Configurator) persist(ctx context.Context, vars []Variable, res *Result) {
	for _, v := range vars {
		if err := c.Platform.PersistVariable(ctx, v.Name, c.Platform.PersistValue(v, c.Home)); err != nil {
			c.Log.Debug("[DEBUG] setx %s failed: %v\n", v.Name, err)
			res.Failed = append(res.Failed, v.Name)
			continue
		}
		res.Persisted = append(res.Persisted, v.Name)
	}
	if len(res.Failed) > 0 {
		c.Log.Error("✗ setx failed for: %s\n", strings.Join(res.Failed, ", "))
		return
	}
	c.Log.Info("✓ User environment variables registered (a new terminal may be required)\n")
}

// chooseFile lets the user pick between several existing startup files.
// The first option is the default.
func (c *Configurator) chooseFile(ctx context.Context, options []string) (string, error) {
	c.Log.Plain("\nFound the following startup files:\n")
	for i, opt := range options {
		c.Log.Plain("  %d) %s\n", i+1, opt)
	}
	answer, err := c.Prompt.Ask(ctx, "Choose the file to write [default 1]: ")
	if err != nil {
		return "", err
	}
	n, convErr := strconv.Atoi(answer)
	if convErr != nil || n < 1 || n > len(options) {
		return options[0], nil
	}
	return options[n-1], nil
}
