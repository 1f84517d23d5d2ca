package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryCursorInvariants(t *testing.T) {
	h := NewHistory(nil)
	for _, e := range []string{"a", "b", "c"} {
		h.Add(e)
	}
	assert.Equal(t, 3, h.Len())

	// move_up called k<=N times returns entries in reverse insertion order.
	v, ok := h.MoveUp()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	v, ok = h.MoveUp()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.MoveUp()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = h.MoveUp()
	assert.False(t, ok, "move_up at position 0 returns nothing")

	v, ok = h.MoveDown()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = h.MoveDown()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	_, ok = h.MoveDown()
	assert.False(t, ok, "move_down past the newest entry clamps and returns nothing")

	_, ok = h.MoveDown()
	assert.False(t, ok, "move_down stays clamped at len")
}

func TestHistoryAddResetsPositionToLen(t *testing.T) {
	h := NewHistory(nil)
	h.Add("one")
	h.MoveUp()
	h.Add("two")
	assert.Equal(t, 2, h.Len())
	_, ok := h.MoveDown()
	assert.False(t, ok, "after Add, position is back at len: fresh line")
}

func TestHistoryLoadFromMissingPathFailsSoft(t *testing.T) {
	h := NewHistory(nil)
	h.LoadFrom("")
	assert.Equal(t, 0, h.Len())

	h.LoadFrom(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Equal(t, 0, h.Len())
}

func TestHistoryLoadAppendRewriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := NewHistory(nil)
	h.Add("echo one")
	h.Add("echo two")
	require.NoError(t, h.AppendTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo one\necho two\n", string(data))

	h.Add("echo three")
	require.NoError(t, h.AppendTo(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo one\necho two\necho three\n", string(data))

	h2 := NewHistory(nil)
	h2.LoadFrom(path)
	assert.Equal(t, []string{"echo one", "echo two", "echo three"}, h2.Entries())

	h2.Add("echo four")
	require.NoError(t, h2.Rewrite(path))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "echo one\necho two\necho three\necho four\n", string(data))
}
