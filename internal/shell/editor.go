package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"
)

// Status is the tri-valued continuation signal the line editor returns
// after each dispatched key, per spec §4.5.
type Status int

const (
	// ContinueInner means: keep reading keys under the current prompt.
	ContinueInner Status = iota
	// ContinueOuter means: a line was dispatched, the caller should print a
	// new prompt and call RunOnce again.
	ContinueOuter
	// Exit means: the shell should terminate.
	Exit
)

const (
	keyBackspace = 0x7f
	keyBS        = 0x08
	keyTab       = '\t'
	keyCR        = '\r'
	keyLF        = '\n' // Ctrl-J, ENTER's synonym
	keyESC       = 0x1b
	keyBell      = 0x07
)

// Editor is the raw-mode terminal input loop (spec §4.5, the only place
// possh interacts with the terminal at character granularity).
//
// Grounded on the teacher's chzyer/readline-backed loop in
// internal/llmsh/shell.go for the overall shape (prompt, read, dispatch,
// history, completion) — rewritten as a hand-rolled character dispatcher
// because chzyer/readline owns its own read loop internally and cannot
// surface the exact key-by-key behavior spec §4.4/§4.5 specify (see
// DESIGN.md). Raw-mode control is golang.org/x/term, used the same way the
// pack's shell-parser library (mvdan.cc/sh/v3) gates terminal-sensitive
// behavior on term.IsTerminal/MakeRaw.
type Editor struct {
	fd    int
	in    *bufio.Reader
	out   io.Writer
	state *term.State

	hist    *History
	pathEnv func() string
	execute func(line string) (shouldExit bool)

	prompt string
	buf    []byte
}

// NewEditor wires an editor around in/out and the given history store,
// PATH lookup, and line-dispatch callback. execute returns true when the
// dispatched line should terminate the shell (the exit builtin).
func NewEditor(in *os.File, out io.Writer, hist *History, pathEnv func() string, execute func(string) bool) *Editor {
	return &Editor{
		fd:      int(in.Fd()),
		in:      bufio.NewReader(in),
		out:     out,
		hist:    hist,
		pathEnv: pathEnv,
		execute: execute,
	}
}

// EnableRaw puts the terminal into raw mode. Callers (the top-level loop)
// enable raw mode before every RunOnce. The editor itself turns it off at
// ENTER dispatch (leaving it off for the caller to re-enable) and toggles it
// off and back on around completion candidate listings, per spec §5's "raw
// mode must be disabled before any full-line output" rule.
func (e *Editor) EnableRaw() error {
	state, err := term.MakeRaw(e.fd)
	if err != nil {
		return fmt.Errorf("editor: enable raw mode: %w", err)
	}
	e.state = state
	return nil
}

// DisableRaw restores the terminal to its prior mode. Safe to call when
// already disabled.
func (e *Editor) DisableRaw() error {
	if e.state == nil {
		return nil
	}
	err := term.Restore(e.fd, e.state)
	e.state = nil
	if err != nil {
		return fmt.Errorf("editor: restore terminal: %w", err)
	}
	return nil
}

// SetPrompt sets the prompt used when redrawing the current line (history
// navigation, ambiguous-completion listings).
func (e *Editor) SetPrompt(prompt string) { e.prompt = prompt }

// RunOnce reads and dispatches keys until a line is completed (ENTER) or
// the shell should exit. Raw mode must already be enabled when this is
// called.
func (e *Editor) RunOnce() (Status, string, error) {
	for {
		b, err := e.in.ReadByte()
		if err != nil {
			return Exit, "", fmt.Errorf("editor: read: %w", err)
		}
		status, line, err := e.dispatch(b)
		if err != nil {
			return Exit, "", err
		}
		if status != ContinueInner {
			return status, line, nil
		}
	}
}

// dispatch handles a single key event (spec §4.5's per-key semantics).
func (e *Editor) dispatch(b byte) (Status, string, error) {
	switch {
	case b == keyTab:
		return e.handleTab()
	case b == keyCR || b == keyLF:
		return e.handleEnter()
	case b == keyBackspace || b == keyBS:
		e.handleBackspace()
		return ContinueInner, "", nil
	case b == keyESC:
		return e.handleEscapeSequence()
	case b >= 0x20:
		e.insert(b)
		return ContinueInner, "", nil
	default:
		// Any other control byte: no-op, per spec §4.5.
		return ContinueInner, "", nil
	}
}

func (e *Editor) insert(b byte) {
	e.buf = append(e.buf, b)
	e.out.Write([]byte{b})
}

func (e *Editor) handleBackspace() {
	if len(e.buf) == 0 {
		return
	}
	e.buf = e.buf[:len(e.buf)-1]
	// move left one column, erase to end of line.
	io.WriteString(e.out, "\b\x1b[K")
}

func (e *Editor) handleEnter() (Status, string, error) {
	if err := e.DisableRaw(); err != nil {
		return Exit, "", err
	}
	io.WriteString(e.out, "\n")
	line := strings.TrimSpace(string(e.buf))
	e.buf = e.buf[:0]
	shouldExit := e.execute(line)
	if shouldExit {
		return Exit, line, nil
	}
	return ContinueOuter, line, nil
}

func (e *Editor) handleTab() (Status, string, error) {
	prefix := string(e.buf)
	candidates := Candidates(e.pathEnv(), prefix)

	switch len(candidates) {
	case 0:
		e.out.Write([]byte{keyBell})
		return ContinueInner, "", nil
	case 1:
		suffix := candidates[0][len(prefix):] + " "
		e.buf = append(e.buf, suffix...)
		io.WriteString(e.out, suffix)
		return ContinueInner, "", nil
	default:
		lcp := LongestCommonPrefix(candidates, len(prefix))
		if lcp != "" {
			e.buf = append(e.buf, lcp...)
			io.WriteString(e.out, lcp)
		}
		e.out.Write([]byte{keyBell})

		next, err := e.in.ReadByte()
		if err != nil {
			return Exit, "", fmt.Errorf("editor: read: %w", err)
		}
		if next == keyTab {
			e.listCandidates(candidates)
			return ContinueInner, "", nil
		}
		// Re-dispatch the peeked key as if freshly received.
		return e.dispatch(next)
	}
}

func (e *Editor) listCandidates(candidates []string) {
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)

	_ = e.DisableRaw()
	io.WriteString(e.out, "\n")
	io.WriteString(e.out, strings.Join(sorted, "  "))
	io.WriteString(e.out, "\n")
	fmt.Fprintf(e.out, "%s%s", e.prompt, e.buf)
	_ = e.EnableRaw()
}

// handleEscapeSequence recognizes the two arrow-key sequences possh cares
// about (ESC [ A = UP, ESC [ B = DOWN). Any other ESC [ sequence is treated
// as a no-op once its parameter bytes and final byte are consumed. ESC
// followed by any byte other than '[' drops both bytes; a bare ESC waits for
// the next byte and drops it with the ESC.
func (e *Editor) handleEscapeSequence() (Status, string, error) {
	b1, err := e.in.ReadByte()
	if err != nil {
		return Exit, "", fmt.Errorf("editor: read: %w", err)
	}
	if b1 != '[' {
		return ContinueInner, "", nil
	}
	b2, err := e.in.ReadByte()
	if err != nil {
		return Exit, "", fmt.Errorf("editor: read: %w", err)
	}
	// Skip parameter and intermediate bytes (e.g. "3" in ESC [ 3 ~) up to
	// the sequence's final byte.
	for b2 >= 0x20 && b2 <= 0x3f {
		if b2, err = e.in.ReadByte(); err != nil {
			return Exit, "", fmt.Errorf("editor: read: %w", err)
		}
	}
	switch b2 {
	case 'A':
		e.handleUp()
	case 'B':
		e.handleDown()
	}
	return ContinueInner, "", nil
}

func (e *Editor) handleUp() {
	if entry, ok := e.hist.MoveUp(); ok {
		e.setBuffer(entry)
	}
}

func (e *Editor) handleDown() {
	entry, ok := e.hist.MoveDown()
	if !ok {
		entry = "" // clamped at the fresh-line position: render empty.
	}
	e.setBuffer(entry)
}

func (e *Editor) setBuffer(line string) {
	e.buf = []byte(line)
	e.redrawLine()
}

func (e *Editor) redrawLine() {
	io.WriteString(e.out, "\r\x1b[K")
	fmt.Fprintf(e.out, "%s%s", e.prompt, e.buf)
}
