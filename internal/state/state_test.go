package state

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"ai-setup/internal/logger"
)

func TestSaveAndLoadState(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := "/cfg/ai-setup/state.json"

	st := LoadState(fsys, path)
	if len(st.Tools) != 0 {
		t.Fatalf("fresh state has %d tools", len(st.Tools))
	}

	when := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	st.Record("claude", ToolState{
		ConfigFiles: []string{"/home/u/.claude/settings.json"},
		Dialect:     "zsh",
		ProfilePath: "/home/u/.zshrc",
		MCPServers:  []string{"github"},
		UpdatedAt:   when,
	})
	SaveState(fsys, path, st, logger.Discard())

	loaded := LoadState(fsys, path)
	if !reflect.DeepEqual(loaded.Tools, st.Tools) {
		t.Fatalf("loaded = %+v, want %+v", loaded.Tools, st.Tools)
	}
}

func TestLoadStateCorruptOrNull(t *testing.T) {
	fsys := afero.NewMemMapFs()
	for _, content := range []string{"{not json", `{"tools":null}`} {
		_ = afero.WriteFile(fsys, "/s.json", []byte(content), 0o644)
		st := LoadState(fsys, "/s.json")
		if st.Tools == nil {
			t.Fatalf("LoadState(%q) returned nil map", content)
		}
	}
}

func TestSaveStateReportsErrors(t *testing.T) {
	var out bytes.Buffer
	fsys := afero.NewReadOnlyFs(afero.NewMemMapFs())
	SaveState(fsys, "/cfg/state.json", &State{}, logger.New(&out, false, false))
	if !strings.Contains(out.String(), "[ERROR]") {
		t.Fatalf("expected error output, got %q", out.String())
	}
}
