// Package toolconfig writes the on-disk configuration files of the supported
// tools.
package toolconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const (
	dirMode    fs.FileMode = 0o755
	secretMode fs.FileMode = 0o600
)

// writeFile writes data to path, creating parent directories first.
func writeFile(fsys afero.Fs, path string, data []byte, perm fs.FileMode) error {
	if err := fsys.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fsys, path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// jsonField is one value set into a JSON document by path.
type jsonField struct {
	Path  string
	Value string
}

// mergeJSONFile sets fields into the JSON object stored at path and writes it
// back indented. Keys not named by fields are kept. A missing file, or one that
// does not hold a JSON object, starts from an empty object.
func mergeJSONFile(fsys afero.Fs, path string, fields []jsonField) error {
	doc, err := readJSONObject(fsys, path)
	if err != nil {
		return err
	}

	for _, f := range fields {
		// Replace a non-object parent so nested paths can be set.
		if parent, ok := parentPath(f.Path); ok {
			if r := gjson.GetBytes(doc, parent); r.Exists() && !r.IsObject() {
				if doc, err = sjson.DeleteBytes(doc, parent); err != nil {
					return fmt.Errorf("reset %s in %s: %w", parent, path, err)
				}
			}
		}
		if doc, err = sjson.SetBytes(doc, f.Path, f.Value); err != nil {
			return fmt.Errorf("set %s in %s: %w", f.Path, path, err)
		}
	}

	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  "})
	return writeFile(fsys, path, out, secretMode)
}

func readJSONObject(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return []byte("{}"), nil
	}
	return data, nil
}

func parentPath(path string) (string, bool) {
	for i := len(path) - 1; i > 0; i-- {
		if path[i] == '.' && path[i-1] != '\\' {
			return path[:i], true
		}
	}
	return "", false
}
