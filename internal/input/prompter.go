// Package input reads answers to interactive prompts.
//
// Answers come from standard input when it is a terminal. When standard input
// is redirected (for example `curl ... | ai-setup claude`), the controlling
// terminal device is opened instead so the user can still answer.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether the file refers to a terminal device.
var IsTerminal = func(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Prompter asks questions and returns sanitized answers.
type Prompter interface {
	// Ask writes prompt and returns the sanitized answer. EOF yields "".
	Ask(ctx context.Context, prompt string) (string, error)
	// Confirm asks a yes/no question; an empty answer returns def.
	Confirm(ctx context.Context, prompt string, def bool) (bool, error)
}

// LinePrompter implements Prompter over a line-oriented reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter reads answers from r and writes prompts to w.
func NewLinePrompter(r io.Reader, w io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(r), out: w}
}

// ttyPaths returns the device paths used for reading and writing the
// controlling terminal on goos.
func ttyPaths(goos string) (in, out string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

// Open returns a Prompter for the current process. The returned close func
// releases the terminal device when one was opened.
func Open(stdin *os.File, stdout io.Writer) (*LinePrompter, func() error) {
	noop := func() error { return nil }
	if IsTerminal(stdin) {
		return NewLinePrompter(stdin, stdout), noop
	}

	inPath, outPath := ttyPaths(runtime.GOOS)
	ttyIn, err := os.Open(inPath)
	if err != nil {
		return NewLinePrompter(stdin, stdout), noop
	}
	ttyOut, err := os.OpenFile(outPath, os.O_WRONLY, 0)
	if err != nil {
		_ = ttyIn.Close()
		return NewLinePrompter(stdin, stdout), noop
	}
	closeAll := func() error {
		return errors.Join(ttyIn.Close(), ttyOut.Close())
	}
	return NewLinePrompter(ttyIn, ttyOut), closeAll
}

type readResult struct {
	line string
	err  error
}

// Ask implements Prompter. The read runs in its own goroutine so an interrupt
// delivered through ctx unblocks the caller even while waiting on the terminal.
func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(p.out, prompt); err != nil {
			return "", fmt.Errorf("write prompt: %w", err)
		}
	}

	done := make(chan readResult, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		done <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", res.err)
		}
		return Clean(res.line), nil
	}
}

// Confirm implements Prompter.
func (p *LinePrompter) Confirm(ctx context.Context, prompt string, def bool) (bool, error) {
	suffix := "[y/N]"
	if def {
		suffix = "[Y/n]"
	}
	answer, err := p.Ask(ctx, fmt.Sprintf("%s %s: ", prompt, suffix))
	if err != nil {
		return false, err
	}
	return ParseYes(answer, def), nil
}

// ParseYes interprets a yes/no answer; an empty answer returns def.
func ParseYes(answer string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "":
		return def
	case "y", "yes":
		return true
	}
	return false
}
