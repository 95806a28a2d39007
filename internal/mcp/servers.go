// Package mcp describes the optional MCP (Model Context Protocol) servers the
// setup can register, and asks the user which ones to enable.
package mcp

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/afero"

	"ai-setup/internal/input"
	"ai-setup/internal/logger"
)

// Transport is how a client talks to an MCP server.
type Transport string

const (
	Stdio Transport = "stdio"
	HTTP  Transport = "http"
)

const (
	DefaultContext7Package = "@upstash/context7-mcp"
	DefaultGitHubURL       = "https://gitmcp.io/docs"
)

// Server is one MCP server definition.
type Server struct {
	Name       string
	Transport  Transport
	Command    string   // stdio only
	Args       []string // stdio only
	URL        string   // http only
	TimeoutSec float64  // 0 leaves the client default
}

// Options overrides the built-in server locations.
type Options struct {
	Context7Package string
	GitHubURL       string
}

func (o Options) withDefaults() Options {
	if o.Context7Package == "" {
		o.Context7Package = DefaultContext7Package
	}
	if o.GitHubURL == "" {
		o.GitHubURL = DefaultGitHubURL
	}
	return o
}

// Context7 fetches up-to-date library documentation through npx.
func Context7(pkg, apiKey string) Server {
	return Server{
		Name:       "context7",
		Transport:  Stdio,
		Command:    "npx",
		Args:       []string{"-y", pkg, "--api-key", apiKey},
		TimeoutSec: 60,
	}
}

// Cunzhi runs a local code review executable.
func Cunzhi(path string) Server {
	return Server{
		Name:       "cunzhi",
		Transport:  Stdio,
		Command:    path,
		TimeoutSec: 600,
	}
}

// GitHub queries GitHub documentation over HTTP.
func GitHub(url string) Server {
	return Server{
		Name:      "github",
		Transport: HTTP,
		URL:       url,
	}
}

// Names returns the server names in order.
func Names(servers []Server) []string {
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		names = append(names, s.Name)
	}
	return names
}

// Collector asks which servers to enable and gathers their parameters.
type Collector struct {
	Log     *logger.Logger
	Prompt  input.Prompter
	FS      afero.Fs
	Options Options
}

// Collect runs the three server questions in order. Servers whose required
// input is missing are skipped with a message; only prompt errors are returned.
func (c *Collector) Collect(ctx context.Context) ([]Server, error) {
	opts := c.Options.withDefaults()
	var servers []Server

	ok, err := c.Prompt.Confirm(ctx, "Install Context7 MCP? (up-to-date library docs)", false)
	if err != nil {
		return nil, err
	}
	if ok {
		key, err := c.Prompt.Ask(ctx, "Enter your Context7 API key: ")
		if err != nil {
			return nil, err
		}
		if key == "" {
			c.Log.Warn("[SKIP] No API key entered, skipping Context7\n")
		} else {
			servers = append(servers, Context7(opts.Context7Package, key))
		}
	}

	c.Log.Plain("\n")
	ok, err = c.Prompt.Confirm(ctx, "Install Cunzhi MCP? (code review assistant)", false)
	if err != nil {
		return nil, err
	}
	if ok {
		path, err := c.Prompt.Ask(ctx, `Enter the full path of the Cunzhi executable (e.g. /path/to/cz or C:\path\to\cz.exe): `)
		if err != nil {
			return nil, err
		}
		switch {
		case path == "":
			c.Log.Warn("[SKIP] No path entered, skipping Cunzhi\n")
		case !c.exists(path):
			c.Log.Warn("[SKIP] File does not exist: %s\n", path)
		default:
			servers = append(servers, Cunzhi(path))
		}
	}

	c.Log.Plain("\n")
	ok, err = c.Prompt.Confirm(ctx, "Install GitHub MCP? (GitHub docs lookup)", true)
	if err != nil {
		return nil, err
	}
	if ok {
		servers = append(servers, GitHub(opts.GitHubURL))
	}

	c.Log.Debug("[DEBUG] Selected MCP servers: %s\n", strings.Join(Names(servers), ", "))
	return servers, nil
}

func (c *Collector) exists(path string) bool {
	_, err := c.FS.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}
