package batch

import (
	"os"
	"time"

	"github.com/dop251/goja/parser"
)

type CheckResult struct {
	Time time.Time

	Broken       []string `json:"broken"`
	Missing      []string `json:"missing"`
	TotalBroken  int      `json:"total_broken"`
	TotalMissing int      `json:"total_missing"`
	TotalFiles   int      `json:"total_files"`
}

// Syntax reports whether src parses as a script.
func Syntax(name, src string) error {
	_, err := parser.ParseFile(nil, name, src, parser.IgnoreRegExpErrors)
	return err
}

// Check parses every file in paths.
func Check(paths []string) *CheckResult {
	result := &CheckResult{
		Time:    time.Now(),
		Broken:  []string{},
		Missing: []string{},
	}

	for _, name := range paths {
		result.TotalFiles++

		data, err := os.ReadFile(name)
		if err != nil {
			result.Missing = append(result.Missing, name)
			result.TotalMissing++
			continue
		}
		if err := Syntax(name, string(data)); err != nil {
			result.Broken = append(result.Broken, name)
			result.TotalBroken++
		}
	}

	return result
}
