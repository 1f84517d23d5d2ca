package shell

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellRunOneExecutesAndCapturesOutput(t *testing.T) {
	cfg := Config{PATH: "", HOME: t.TempDir()}
	sh := New(cfg, testLogger())

	var stdout bytes.Buffer
	sh.executor.Stdout = &stdout

	exit := sh.RunOne("echo from possh")
	assert.False(t, exit)
	assert.Equal(t, "from possh\n", stdout.String())
}

func TestShellRunOneExitReturnsTrue(t *testing.T) {
	cfg := Config{PATH: "", HOME: t.TempDir()}
	sh := New(cfg, testLogger())

	exit := sh.RunOne("exit")
	assert.True(t, exit)
}

func TestShellFlushesHistoryOnExit(t *testing.T) {
	dir := t.TempDir()
	histFile := dir + "/hist"
	cfg := Config{PATH: "", HOME: dir, HISTFILE: histFile}
	sh := New(cfg, testLogger())

	sh.hist.Add("echo one")
	sh.hist.Add("exit")
	sh.flushHistory()

	h2 := NewHistory(testLogger())
	h2.LoadFrom(histFile)
	require.Equal(t, []string{"echo one", "exit"}, h2.Entries())
}
