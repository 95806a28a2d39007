package mcp

import (
	"context"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"ai-setup/internal/input"
	"ai-setup/internal/logger"
)

func newCollector(fsys afero.Fs, answers string) *Collector {
	return &Collector{
		Log:    logger.Discard(),
		Prompt: input.NewLinePrompter(strings.NewReader(answers), io.Discard),
		FS:     fsys,
	}
}

func TestCollect(t *testing.T) {
	fsys := afero.NewMemMapFs()
	_ = afero.WriteFile(fsys, "/opt/cz", []byte("#!/bin/sh\n"), 0o755)

	tests := []struct {
		name    string
		answers string
		want    []Server
	}{
		{
			name:    "defaults select only github",
			answers: "\n\n\n",
			want:    []Server{GitHub(DefaultGitHubURL)},
		},
		{
			name:    "everything",
			answers: "y\nctx-key\ny\n/opt/cz\ny\n",
			want: []Server{
				Context7(DefaultContext7Package, "ctx-key"),
				Cunzhi("/opt/cz"),
				GitHub(DefaultGitHubURL),
			},
		},
		{
			name:    "missing inputs are skipped",
			answers: "y\n\ny\n/nope\nn\n",
			want:    nil,
		},
		{
			name:    "eof answers fall back to defaults",
			answers: "",
			want:    []Server{GitHub(DefaultGitHubURL)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newCollector(fsys, tt.answers).Collect(context.Background())
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Collect() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCollectCustomOptions(t *testing.T) {
	c := newCollector(afero.NewMemMapFs(), "y\nk\nn\ny\n")
	c.Options = Options{Context7Package: "@me/ctx", GitHubURL: "https://docs.example/mcp"}
	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Args[1] != "@me/ctx" || got[1].URL != "https://docs.example/mcp" {
		t.Fatalf("Collect() = %+v", got)
	}
	if !reflect.DeepEqual(Names(got), []string{"context7", "github"}) {
		t.Fatalf("Names() = %v", Names(got))
	}
}
