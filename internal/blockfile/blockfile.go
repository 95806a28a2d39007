// Package blockfile maintains a single marker-delimited block inside a text
// file such as a shell startup script.
//
// The block looks like:
//
//	# >>> Claude Code env (managed by ai-setup) >>>
//	export ANTHROPIC_BASE_URL='https://api.anthropic.com'
//	# <<< Claude Code env <<<
//
// Writing the block again replaces the lines between the markers and leaves
// the rest of the file byte-for-byte unchanged.
package blockfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

const (
	defaultFileMode fs.FileMode = 0o644
	defaultDirMode  fs.FileMode = 0o755
)

// Markers are the start and end sentinel lines of a managed block.
type Markers struct {
	Start string
	End   string
}

// Render builds the block text for lines, terminated by a newline.
func (m Markers) Render(lines []string) string {
	var b strings.Builder
	b.WriteString(m.Start)
	b.WriteByte('\n')
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.End)
	b.WriteByte('\n')
	return b.String()
}

// locate returns the byte offsets of the first start marker and the end of
// the end marker that follows it. ok is false when no complete block exists.
func (m Markers) locate(content string) (start, end int, ok bool) {
	start = strings.Index(content, m.Start)
	if start < 0 {
		return 0, 0, false
	}
	rel := strings.Index(content[start+len(m.Start):], m.End)
	if rel < 0 {
		return 0, 0, false
	}
	end = start + len(m.Start) + rel + len(m.End)
	return start, end, true
}

// Apply returns content with the managed block set to lines.
func (m Markers) Apply(content string, lines []string) string {
	block := m.Render(lines)
	if start, end, ok := m.locate(content); ok {
		// The rendered block carries its own trailing newline; drop the one
		// that followed the old end marker so the tail is kept as-is.
		tail := content[end:]
		tail = strings.TrimPrefix(tail, "\n")
		return content[:start] + block + tail
	}

	switch {
	case content == "":
		return block
	case strings.HasSuffix(content, "\n\n"):
		return content + block
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + block
	default:
		return content + "\n\n" + block
	}
}

// Contains reports whether content holds a complete managed block.
func (m Markers) Contains(content string) bool {
	_, _, ok := m.locate(content)
	return ok
}

// Lines returns the lines currently inside the managed block.
func (m Markers) Lines(content string) ([]string, bool) {
	start, end, ok := m.locate(content)
	if !ok {
		return nil, false
	}
	inner := content[start+len(m.Start) : end-len(m.End)]
	inner = strings.TrimPrefix(inner, "\n")
	inner = strings.TrimSuffix(inner, "\n")
	if inner == "" {
		return []string{}, true
	}
	return strings.Split(inner, "\n"), true
}

// Editor applies managed blocks to files on a filesystem.
type Editor struct {
	fs      afero.Fs
	markers Markers
}

// NewEditor returns an Editor for the given markers.
func NewEditor(fsys afero.Fs, markers Markers) *Editor {
	return &Editor{fs: fsys, markers: markers}
}

// Markers returns the sentinel lines this editor maintains.
func (e *Editor) Markers() Markers { return e.markers }

// Write inserts or replaces the managed block in path. A missing file is
// created along with its parent directories; an existing file keeps its mode.
func (e *Editor) Write(path string, lines []string) error {
	existing, mode, err := e.read(path)
	if err != nil {
		return err
	}

	if err := e.fs.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	updated := e.markers.Apply(existing, lines)
	if err := afero.WriteFile(e.fs, path, []byte(updated), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Has reports whether path currently contains a complete managed block.
// A missing file reports false without error.
func (e *Editor) Has(path string) (bool, error) {
	existing, _, err := e.read(path)
	if err != nil {
		return false, err
	}
	return e.markers.Contains(existing), nil
}

func (e *Editor) read(path string) (string, fs.FileMode, error) {
	info, err := e.fs.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", defaultFileMode, nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("%s is a directory", path)
	}
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return "", 0, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), info.Mode().Perm(), nil
}
