package shellenv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"ai-setup/internal/blockfile"
	"ai-setup/internal/input"
	"ai-setup/internal/logger"
)

var testVars = []Variable{
	{Name: "CLAUDE_CONFIG_DIR", Value: ".claude", Kind: HomePath},
	{Name: "ANTHROPIC_BASE_URL", Value: "https://api.example.com"},
	{Name: "ANTHROPIC_AUTH_TOKEN", Value: "sk-a'b$c`d\\e", Secret: true},
}

var testMarkers = blockfile.Markers{Start: "# >>> t >>>", End: "# <<< t <<<"}

func TestRenderLines(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    []string
	}{
		{
			dialect: Bash,
			want: []string{
				`export CLAUDE_CONFIG_DIR="$HOME/.claude"`,
				`export ANTHROPIC_BASE_URL='https://api.example.com'`,
				`export ANTHROPIC_AUTH_TOKEN='sk-a'"'"'b$c` + "`" + `d\e'`,
			},
		},
		{
			dialect: Fish,
			want: []string{
				`set -gx CLAUDE_CONFIG_DIR "$HOME/.claude"`,
				`set -gx ANTHROPIC_BASE_URL 'https://api.example.com'`,
				`set -gx ANTHROPIC_AUTH_TOKEN 'sk-a\'b$c` + "`" + `d\\e'`,
			},
		},
		{
			dialect: PowerShell,
			want: []string{
				`$env:CLAUDE_CONFIG_DIR = (Join-Path $HOME ".claude")`,
				`$env:ANTHROPIC_BASE_URL = 'https://api.example.com'`,
				`$env:ANTHROPIC_AUTH_TOKEN = 'sk-a''b$c` + "`" + `d\e'`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.dialect), func(t *testing.T) {
			got, err := RenderLines(tt.dialect, testVars)
			if err != nil {
				t.Fatalf("RenderLines() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("RenderLines() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(tt.want, "\n"))
			}
		})
	}

	if _, err := RenderLines(Skip, testVars); err == nil {
		t.Fatal("RenderLines(skip) must fail")
	}
}

func TestShSingleQuoteEvaluatesLiterally(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	for _, value := range []string{"plain", "it's", "$HOME", "`id`", `back\slash`, "a b\tc", "'\"'"} {
		script := "V=" + ShSingleQuote(value) + "; printf '%s' \"$V\""
		out, err := exec.Command(sh, "-c", script).Output()
		if err != nil {
			t.Fatalf("sh -c %q: %v", script, err)
		}
		if string(out) != value {
			t.Fatalf("quoted %q evaluated to %q", value, out)
		}
	}
}

func TestParseDialect(t *testing.T) {
	if d, err := ParseDialect(" ZSH "); err != nil || d != Zsh {
		t.Fatalf("ParseDialect(ZSH) = %q, %v", d, err)
	}
	if _, err := ParseDialect("tcsh"); err == nil {
		t.Fatal("ParseDialect(tcsh) must fail")
	}
}

func TestDetectDefaultDialect(t *testing.T) {
	tests := []struct {
		goos  string
		shell string
		want  Dialect
	}{
		{goos: "windows", shell: "/bin/zsh", want: PowerShell},
		{goos: "darwin", shell: "/bin/zsh", want: Zsh},
		{goos: "linux", shell: "/usr/bin/fish", want: Fish},
		{goos: "linux", shell: "/bin/bash", want: Bash},
		{goos: "linux", shell: "/bin/dash", want: Profile},
		{goos: "linux", shell: "", want: Profile},
	}
	for _, tt := range tests {
		env := map[string]string{"SHELL": tt.shell}
		p := Detect(tt.goos, func(k string) string { return env[k] }, nil)
		if got := p.DefaultDialect(); got != tt.want {
			t.Fatalf("Detect(%s, SHELL=%q).DefaultDialect() = %q, want %q", tt.goos, tt.shell, got, tt.want)
		}
	}
}

func TestResolveBashPath(t *testing.T) {
	ctx := context.Background()
	p := Detect("linux", func(string) string { return "" }, nil)
	home := "/home/u"

	fsys := afero.NewMemMapFs()
	got, err := p.ResolvePath(ctx, fsys, Bash, home, nil)
	if err != nil || got != "/home/u/.bash_profile" {
		t.Fatalf("no files: %q, %v", got, err)
	}

	_ = afero.WriteFile(fsys, "/home/u/.bashrc", nil, 0o644)
	got, _ = p.ResolvePath(ctx, fsys, Bash, home, nil)
	if got != "/home/u/.bashrc" {
		t.Fatalf("only .bashrc: %q", got)
	}

	_ = afero.WriteFile(fsys, "/home/u/.bash_profile", nil, 0o644)
	var offered []string
	choose := func(_ context.Context, opts []string) (string, error) {
		offered = opts
		return opts[1], nil
	}
	got, _ = p.ResolvePath(ctx, fsys, Bash, home, choose)
	if got != "/home/u/.bash_profile" {
		t.Fatalf("both files, chose second: %q", got)
	}
	if !reflect.DeepEqual(offered, []string{"/home/u/.bashrc", "/home/u/.bash_profile"}) {
		t.Fatalf("offered %v", offered)
	}
}

func TestResolveFixedPaths(t *testing.T) {
	ctx := context.Background()
	p := Detect("darwin", func(string) string { return "" }, nil)
	fsys := afero.NewMemMapFs()
	tests := map[Dialect]string{
		Zsh:        "/h/.zshrc",
		Fish:       "/h/.config/fish/config.fish",
		Profile:    "/h/.profile",
		PowerShell: "/h/.config/powershell/Microsoft.PowerShell_profile.ps1",
	}
	for d, want := range tests {
		got, err := p.ResolvePath(ctx, fsys, d, "/h", nil)
		if err != nil || got != want {
			t.Fatalf("ResolvePath(%s) = %q, %v; want %q", d, got, err, want)
		}
	}
	if _, err := p.ResolvePath(ctx, fsys, Skip, "/h", nil); err == nil {
		t.Fatal("ResolvePath(skip) must fail")
	}
}

func TestResolveWindowsPowerShellPath(t *testing.T) {
	ctx := context.Background()
	env := map[string]string{"USERPROFILE": `C:\Users\u`}
	p := Detect("windows", func(k string) string { return env[k] }, nil)
	fsys := afero.NewMemMapFs()

	ps7 := `C:\Users\u\Documents\PowerShell\Microsoft.PowerShell_profile.ps1`
	winPS := `C:\Users\u\Documents\WindowsPowerShell\Microsoft.PowerShell_profile.ps1`

	got, _ := p.ResolvePath(ctx, fsys, PowerShell, `C:\Users\u`, nil)
	if got != ps7 {
		t.Fatalf("no dirs: %q", got)
	}
	_ = fsys.MkdirAll(`C:\Users\u\Documents\WindowsPowerShell`, 0o755)
	got, _ = p.ResolvePath(ctx, fsys, PowerShell, `C:\Users\u`, nil)
	if got != winPS {
		t.Fatalf("only WindowsPowerShell: %q", got)
	}
	_ = fsys.MkdirAll(`C:\Users\u\Documents\PowerShell`, 0o755)
	got, _ = p.ResolvePath(ctx, fsys, PowerShell, `C:\Users\u`, nil)
	if got != ps7 {
		t.Fatalf("both dirs: %q", got)
	}
}

func TestWindowsPersistValue(t *testing.T) {
	env := map[string]string{"USERPROFILE": `C:\Users\u`}
	p := Detect("windows", func(k string) string { return env[k] }, nil)
	if got := p.PersistValue(testVars[0], "ignored"); got != `C:\Users\u\.claude` {
		t.Fatalf("PersistValue(home path) = %q", got)
	}
	if got := p.PersistValue(testVars[1], "ignored"); got != "https://api.example.com" {
		t.Fatalf("PersistValue(opaque) = %q", got)
	}
}

type fakeRunner struct {
	calls [][]string
	fail  map[string]bool
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(args) > 0 && f.fail[args[0]] {
		return errors.New("exit status 1")
	}
	return nil
}

func newConfigurator(fsys afero.Fs, p Platform, answers string, out io.Writer) *Configurator {
	return &Configurator{
		Log:      logger.New(out, false, false),
		Prompt:   input.NewLinePrompter(strings.NewReader(answers), io.Discard),
		FS:       fsys,
		Platform: p,
		Home:     "/home/u",
		Editor:   blockfile.NewEditor(fsys, testMarkers),
	}
}

func TestConfiguratorRunWritesZshrc(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := Detect("linux", func(string) string { return "/bin/zsh" }, nil)
	var out bytes.Buffer
	// default menu entry, then confirm with the default
	c := newConfigurator(fsys, p, "\n\n", &out)

	res, err := c.Run(context.Background(), testVars)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Dialect != Zsh || !res.Written || res.Path != "/home/u/.zshrc" {
		t.Fatalf("Run() = %+v", res)
	}
	data, _ := afero.ReadFile(fsys, "/home/u/.zshrc")
	lines, ok := testMarkers.Lines(string(data))
	if !ok || len(lines) != len(testVars) {
		t.Fatalf("block lines = %v", lines)
	}
	if strings.Contains(out.String(), "sk-a") {
		t.Fatalf("secret leaked to output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "source /home/u/.zshrc") {
		t.Fatalf("missing reload hint:\n%s", out.String())
	}
}

func TestConfiguratorChooseUnknownSkips(t *testing.T) {
	p := Detect("linux", func(string) string { return "" }, nil)
	c := newConfigurator(afero.NewMemMapFs(), p, "42\n", io.Discard)
	d, err := c.Choose(context.Background())
	if err != nil || d != Skip {
		t.Fatalf("Choose() = %q, %v", d, err)
	}
}

func TestConfiguratorDeclineWritesNothing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := Detect("linux", func(string) string { return "" }, nil)
	c := newConfigurator(fsys, p, "n\n", io.Discard)

	res, err := c.Apply(context.Background(), Profile, testVars)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Written {
		t.Fatal("declined Apply() must not write")
	}
	if exists, _ := afero.Exists(fsys, "/home/u/.profile"); exists {
		t.Fatal(".profile must not be created")
	}
}

func TestConfiguratorWriteFailurePrintsManualLines(t *testing.T) {
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	p := Detect("linux", func(string) string { return "" }, nil)
	var out bytes.Buffer
	c := newConfigurator(fsys, p, "y\n", &out)

	res, err := c.Apply(context.Background(), Fish, testVars)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if res.Written || len(res.ManualHint) != len(testVars) {
		t.Fatalf("Apply() = %+v", res)
	}
	if !strings.Contains(out.String(), `set -gx CLAUDE_CONFIG_DIR "$HOME/.claude"`) {
		t.Fatalf("manual lines missing:\n%s", out.String())
	}
}

func TestConfiguratorWindowsPersist(t *testing.T) {
	fsys := afero.NewMemMapFs()
	runner := &fakeRunner{fail: map[string]bool{"ANTHROPIC_BASE_URL": true}}
	env := map[string]string{"USERPROFILE": `C:\Users\u`}
	p := Detect("windows", func(k string) string { return env[k] }, runner)
	var out bytes.Buffer
	// default menu entry, confirm write, confirm setx
	c := newConfigurator(fsys, p, "\n\n\n", &out)

	res, err := c.Run(context.Background(), testVars)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Dialect != PowerShell || !res.Written {
		t.Fatalf("Run() = %+v", res)
	}
	if !reflect.DeepEqual(res.Failed, []string{"ANTHROPIC_BASE_URL"}) {
		t.Fatalf("Failed = %v", res.Failed)
	}
	if !reflect.DeepEqual(res.Persisted, []string{"CLAUDE_CONFIG_DIR", "ANTHROPIC_AUTH_TOKEN"}) {
		t.Fatalf("Persisted = %v", res.Persisted)
	}
	if len(runner.calls) != 3 || runner.calls[0][0] != "setx" || runner.calls[0][2] != `C:\Users\u\.claude` {
		t.Fatalf("runner calls = %v", runner.calls)
	}
	if !strings.Contains(out.String(), "setx failed for: ANTHROPIC_BASE_URL") {
		t.Fatalf("missing failure report:\n%s", out.String())
	}
}
