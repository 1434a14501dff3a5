package parser

import (
	"os"
	"path/filepath"
	"sort"
)

// ExpandPaths turns command-line arguments into the list of files to plot.
// An argument naming an existing file is used as is, even if it contains
// glob metacharacters. Otherwise it is expanded as a glob pattern and its
// matches are sorted. A pattern that is malformed or matches nothing is kept
// as a literal path so that opening it reports the real error.
// Argument order and repeated arguments are preserved; plot colors are
// assigned by position.
func ExpandPaths(args []string) []string {
	result := make([]string, 0, len(args))

	for _, arg := range args {
		if _, err := os.Stat(arg); err == nil {
			result = append(result, arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil || len(matches) == 0 {
			result = append(result, arg)
			continue
		}

		sort.Strings(matches)
		result = append(result, matches...)
	}

	return result
}
