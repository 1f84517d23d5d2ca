package shell

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2/maybe"
	"go.uber.org/zap"
)

// History is the ordered list of previously entered command lines plus the
// two cursors spec §3/§4.1 describe: position for up/down navigation and
// appendStart for incremental file persistence.
//
// Grounded on the teacher's manual history tracking in
// internal/llmsh/shell.go (saveHistoryToFile), generalized to the
// load/append/rewrite contract this spec requires.
type History struct {
	entries     []string
	position    int
	appendStart int

	log *zap.SugaredLogger
}

// NewHistory returns an empty history store.
func NewHistory(log *zap.SugaredLogger) *History {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &History{log: log}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns the full entry list in insertion order. Callers must not
// mutate the returned slice.
func (h *History) Entries() []string { return h.entries }

// Add appends entry and resets the navigation cursor to "past the newest".
func (h *History) Add(entry string) {
	h.entries = append(h.entries, entry)
	h.position = len(h.entries)
}

// MoveUp returns the entry immediately before the cursor and decrements it,
// or ("", false) when already at the oldest entry.
func (h *History) MoveUp() (string, bool) {
	if h.position == 0 {
		return "", false
	}
	h.position--
	return h.entries[h.position], true
}

// MoveDown advances the cursor and returns the entry at the new position, or
// ("", false) when stepping past the newest entry (the cursor clamps at
// len(entries), the "fresh line" position).
func (h *History) MoveDown() (string, bool) {
	if h.position < len(h.entries) {
		h.position++
	}
	if h.position >= len(h.entries) {
		h.position = len(h.entries)
		return "", false
	}
	return h.entries[h.position], true
}

// LoadFrom replaces the entry list with the lines of path and resets both
// cursors to len(entries). It fails softly: an unset or unreadable path
// leaves the history as it was (empty at startup) rather than returning an
// error, per spec §4.1.
func (h *History) LoadFrom(path string) {
	if path == "" {
		return
	}
	f, err := os.Open(path)
	if err != nil {
		h.log.Debugw("history load skipped", "path", path, "error", err)
		return
	}
	defer f.Close()

	var entries []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		h.log.Debugw("history load failed partway", "path", path, "error", err)
		return
	}
	h.entries = entries
	h.position = len(h.entries)
	h.appendStart = len(h.entries)
}

// AppendTo writes entries [appendStart, len) to path, creating it if
// necessary, and advances appendStart. I/O errors propagate to the caller.
func (h *History) AppendTo(path string) error {
	if path == "" {
		return nil
	}
	pending := h.entries[h.appendStart:]
	if len(pending) == 0 {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("history: append to %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range pending {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return fmt.Errorf("history: append to %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("history: append to %s: %w", path, err)
	}
	h.appendStart = len(h.entries)
	return nil
}

// Rewrite truncates path and writes every entry. The write is atomic
// (write-to-temp, rename) via renameio, which is how the pack's shell
// formatter (cmd/shfmt) replaces a file's full contents safely — the same
// concern as rewriting a history file out from under a concurrently
// tailing process.
func (h *History) Rewrite(path string) error {
	if path == "" {
		return nil
	}
	var b strings.Builder
	for _, e := range h.entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	if err := maybe.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("history: rewrite %s: %w", path, err)
	}
	h.appendStart = len(h.entries)
	return nil
}
