package shell

import "strings"

// BuiltinNames is the fixed builtin list the completion engine consults
// first (spec §4.4 step 1).
var BuiltinNames = []string{"echo", "exit", "type", "cd", "pwd", "history"}

// Candidates computes the completion candidate set for prefix: every
// builtin name with prefix as a prefix, then every PATH executable with
// prefix as a prefix, deduplicated by name while preserving the order in
// which each name was first seen (spec §4.4).
func Candidates(pathEnv, prefix string) []string {
	seen := make(map[string]bool)
	var out []string

	add := func(name string) {
		if !strings.HasPrefix(name, prefix) || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, name)
	}

	for _, b := range BuiltinNames {
		add(b)
	}
	for _, p := range CompletionCandidates(pathEnv, prefix) {
		add(p)
	}
	return out
}

// LongestCommonPrefix returns the longest string shared by every candidate,
// starting the comparison at byte offset from (spec §4.4: "compute the
// longest common prefix across candidates starting at position
// len(buffer)"). Every candidate is assumed to already have at least from
// bytes (the caller only passes candidates that already match the current
// buffer as a prefix).
func LongestCommonPrefix(candidates []string, from int) string {
	if len(candidates) == 0 {
		return ""
	}
	shortest := candidates[0][from:]
	for _, c := range candidates[1:] {
		if rest := c[from:]; len(rest) < len(shortest) {
			shortest = rest
		}
	}
	prefix := shortest
	for _, c := range candidates {
		rest := c[from:]
		for len(prefix) > 0 && !strings.HasPrefix(rest, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
