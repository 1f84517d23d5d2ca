package shell

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/frankban/quicktest"
)

func TestCandidatesListsMatchingBuiltinsInOrder(t *testing.T) {
	c := quicktest.New(t)
	got := Candidates("", "e")
	c.Assert(got, quicktest.DeepEquals, []string{"echo", "exit"})
}

func TestCandidatesIncludePathExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute-bit semantics are POSIX-specific")
	}
	c := quicktest.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "extract")
	c.Assert(os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755), quicktest.IsNil)

	got := Candidates(dir, "ex")
	c.Assert(got, quicktest.DeepEquals, []string{"exit", "extract"})
}

func TestLongestCommonPrefixSharedExtension(t *testing.T) {
	c := quicktest.New(t)
	got := LongestCommonPrefix([]string{"extract", "extend"}, 1)
	c.Assert(got, quicktest.Equals, "xt")
}

func TestLongestCommonPrefixNoSharedExtension(t *testing.T) {
	c := quicktest.New(t)
	// echo/exit diverge right after the shared "e", so the common
	// extension beyond the current buffer is empty.
	got := LongestCommonPrefix([]string{"echo", "exit"}, 1)
	c.Assert(got, quicktest.Equals, "")
}

func TestLongestCommonPrefixSingleCandidate(t *testing.T) {
	c := quicktest.New(t)
	got := LongestCommonPrefix([]string{"echo"}, 1)
	c.Assert(got, quicktest.Equals, "cho")
}
