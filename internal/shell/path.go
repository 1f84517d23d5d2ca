package shell

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Resolve splits PATH on ":" and returns the first directory entry named
// name with any execute bit set in its mode (spec §4.2). It returns
// ("", false) if no match is found. An empty PATH element is skipped
// rather than treated as the current directory — Open Question (c) in
// SPEC_FULL.md.
func Resolve(pathEnv, name string) (string, bool) {
	for _, dir := range strings.Split(pathEnv, ":") {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// ResolveVerbose is Resolve's "verbose" mode used by the type builtin: on a
// hit it writes "<name> is <path>\n" to out; on a miss it writes
// "<name>: not found\n".
func ResolveVerbose(out io.Writer, pathEnv, name string) {
	if path, ok := Resolve(pathEnv, name); ok {
		fmt.Fprintf(out, "%s is %s\n", name, path)
		return
	}
	fmt.Fprintf(out, "%s: not found\n", name)
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// CompletionCandidates lists every executable in PATH whose name has prefix
// as a prefix, in PATH order, for the completion engine (spec §4.4 step 2).
func CompletionCandidates(pathEnv, prefix string) []string {
	var candidates []string
	for _, dir := range strings.Split(pathEnv, ":") {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !strings.HasPrefix(e.Name(), prefix) {
				continue
			}
			info, err := e.Info()
			if err != nil || info.IsDir() || info.Mode()&0o111 == 0 {
				continue
			}
			candidates = append(candidates, e.Name())
		}
	}
	return candidates
}
