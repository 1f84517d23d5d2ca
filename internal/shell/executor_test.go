package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"possh/internal/shell/parser"
)

func newTestExecutor(t *testing.T, stdout, stderr *bytes.Buffer) *Executor {
	t.Helper()
	hist := NewHistory(testLogger())
	return NewExecutor(stdout, stderr, strings.NewReader(""), hist,
		func() string { return os.Getenv("PATH") },
		func() string { return t.TempDir() },
		testLogger(),
	)
}

func TestExecutorRunsEchoBuiltinToTerminal(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	exit, err := ex.Run(parser.Tokenize("echo hello world"))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "hello world\n", stdout.String())
}

func TestExecutorExitStopsTheLine(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	exit, err := ex.Run(parser.Tokenize("exit"))
	require.NoError(t, err)
	assert.True(t, exit)
}

func TestExecutorUnknownCommandReportsOnStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	exit, err := ex.Run(parser.Tokenize("no-such-command-possh-test"))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "no-such-command-possh-test: command not found\n", stderr.String())
}

func TestExecutorRedirectWithoutTargetAborts(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	blocks := []*parser.Block{{Command: "echo", Args: []string{"hi"}, RedirectKind: parser.RedirectStdout}}
	exit, err := ex.Run(blocks)
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "No redirect target found\n", stdout.String())
}

func TestExecutorEchoRedirectToFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX path semantics assumed")
	}
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)
	target := filepath.Join(t.TempDir(), "out.txt")

	exit, err := ex.Run(parser.Tokenize("echo redirected > " + target))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Empty(t, stdout.String())

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "redirected\n", string(got))
}

func TestExecutorCdChangesDirectory(t *testing.T) {
	dir := t.TempDir()
	restore, _ := os.Getwd()
	defer os.Chdir(restore)

	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	exit, err := ex.Run(parser.Tokenize("cd " + dir))
	require.NoError(t, err)
	assert.False(t, exit)

	wd, err := os.Getwd()
	require.NoError(t, err)
	resolvedDir, _ := filepath.EvalSymlinks(dir)
	resolvedWd, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, resolvedDir, resolvedWd)
}

func TestExecutorCdMissingArgReportsOnStderr(t *testing.T) {
	var stdout, stderr bytes.Buffer
	ex := newTestExecutor(t, &stdout, &stderr)

	exit, err := ex.Run(parser.Tokenize("cd"))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "No file or directory passed into cd\n", stderr.String())
}

func TestExecutorPipelineFeedsExternalCommands(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/cat")
	}
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("/bin/cat not available")
	}
	dir := t.TempDir()
	src := filepath.Join(dir, "source.txt")
	require.NoError(t, os.WriteFile(src, []byte("line one\nline two\n"), 0o644))

	var stdout, stderr bytes.Buffer
	hist := NewHistory(testLogger())
	ex := NewExecutor(&stdout, &stderr, strings.NewReader(""), hist,
		func() string { return "/bin:/usr/bin" },
		func() string { return dir },
		testLogger(),
	)

	exit, err := ex.Run(parser.Tokenize("cat " + src + " | cat"))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "line one\nline two\n", stdout.String())
}

func TestExecutorBuiltinPipedIntoExternalCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on /bin/cat")
	}
	if _, err := os.Stat("/bin/cat"); err != nil {
		t.Skip("/bin/cat not available")
	}

	var stdout, stderr bytes.Buffer
	hist := NewHistory(testLogger())
	ex := NewExecutor(&stdout, &stderr, strings.NewReader(""), hist,
		func() string { return "/bin:/usr/bin" },
		func() string { return t.TempDir() },
		testLogger(),
	)

	exit, err := ex.Run(parser.Tokenize("echo hi | cat"))
	require.NoError(t, err)
	assert.False(t, exit)
	assert.Equal(t, "hi\n", stdout.String())
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
