package scenario

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Builtins parses the bundled scripts, ordered by file name. Every call
// returns fresh copies.
func Builtins() ([]*Script, error) {
	files, err := fs.Glob(builtinFS, "builtin/*.toml")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	scripts := make([]*Script, 0, len(files))
	for _, name := range files {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		s, err := Parse(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", path.Base(name), err)
		}
		s.Source = "builtin"
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// Builtin returns the bundled script with the given name.
func Builtin(name string) (*Script, error) {
	scripts, err := Builtins()
	if err != nil {
		return nil, err
	}
	for _, s := range scripts {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no builtin scenario named %q", name)
}
