// Package batch reads scripts for the command line tool, names its output
// files and checks and compares the results.
package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
)

type batchError string

func (e batchError) Error() string {
	return "jsdeob/batch: " + string(e)
}

const (
	scriptExt = ".js"
	outputExt = ".deobfuscated"
)

type File struct {
	Path   string
	Source string
}

// Collect expands directories in paths to the scripts they contain, in
// lexical order. Outputs of earlier runs are left out. Plain files are
// returned as given.
func Collect(paths []string) ([]string, error) {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		var found []string
		err = filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(name, scriptExt) && !strings.HasSuffix(name, outputExt+scriptExt) {
				found = append(found, name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, name := range found {
			add(name)
		}
	}

	if len(out) == 0 {
		return nil, batchError("no scripts found")
	}
	return out, nil
}

// OutputName derives the name the rewritten script is written to:
// x.js becomes x.deobfuscated.js, anything else gets .deobfuscated appended.
func OutputName(in string) string {
	if strings.HasSuffix(in, scriptExt) {
		return strings.TrimSuffix(in, scriptExt) + outputExt + scriptExt
	}
	return in + outputExt
}

// Read loads paths on a background goroutine. Files that cannot be read
// are logged and skipped.
func Read(paths []string) chan File {
	ch := make(chan File, 2)
	go func() {
		defer close(ch)
		for _, name := range paths {
			data, err := os.ReadFile(name)
			if err != nil {
				log.WithError(err).WithField("file", name).Error("read failed")
				continue
			}
			ch <- File{
				Path:   name,
				Source: string(data),
			}
		}
	}()
	return ch
}
