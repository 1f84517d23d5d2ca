package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/xerrors"

	"possh/internal/shell/parser"
)

// Shell wires the components spec §3's overview table calls C1-C6 into the
// top-level loop C7 describes, grounded on the teacher's Shell struct in
// internal/llmsh/shell.go (NewShell + component fields), with the teacher's
// chzyer/readline-backed Interactive replaced by the Editor built in C5.
type Shell struct {
	cfg Config
	log *zap.SugaredLogger

	hist     *History
	editor   *Editor
	executor *Executor

	out io.Writer
}

// New builds a Shell from a resolved Config and logger, wiring stdin/stdout
// to the real terminal.
func New(cfg Config, log *zap.SugaredLogger) *Shell {
	hist := NewHistory(log)
	if cfg.HISTFILE != "" {
		hist.LoadFrom(cfg.HISTFILE)
	}

	s := &Shell{cfg: cfg, log: log, hist: hist, out: os.Stdout}

	s.executor = NewExecutor(os.Stdout, os.Stderr, os.Stdin, hist,
		func() string { return s.cfg.PATH },
		func() string { return s.cfg.HOME },
		log,
	)

	s.editor = NewEditor(os.Stdin, os.Stdout, hist,
		func() string { return s.cfg.PATH },
		s.dispatchLine,
	)
	s.editor.SetPrompt(defaultPrompt)

	return s
}

// dispatchLine tokenizes and executes one line, returning true when the
// shell should terminate (the exit builtin was reached).
func (s *Shell) dispatchLine(line string) bool {
	blocks := parser.Tokenize(line)
	if len(blocks) == 0 {
		return false
	}
	shouldExit, err := s.executor.Run(blocks)
	if err != nil {
		// The shell never aborts its outer loop on a command failure (spec
		// §7); a StageError names which block failed so the diagnostic can
		// point at it, rather than just the whole line.
		var stageErr *StageError
		if xerrors.As(err, &stageErr) {
			fmt.Fprintf(os.Stderr, "possh: %s: %s\n", stageErr.Block.Command, stageErr.Err)
		} else {
			s.log.Debugw("line execution failed", "line", line, "error", err)
		}
	}
	return shouldExit
}

// Interactive runs the C7 top-level loop: print a prompt, hand control to
// the line editor, record the dispatched line into history on
// ContinueOuter, loop until Exit (spec §4.7).
func (s *Shell) Interactive() error {
	defer s.flushHistory()

	for {
		fmt.Fprint(s.out, "\r"+defaultPrompt)

		if err := s.editor.EnableRaw(); err != nil {
			return err
		}
		status, line, err := s.editor.RunOnce()
		if err != nil {
			return err
		}

		if line != "" {
			s.hist.Add(line)
		}

		if status == Exit {
			return nil
		}
	}
}

func (s *Shell) flushHistory() {
	if s.cfg.HISTFILE == "" {
		return
	}
	if err := s.hist.Rewrite(s.cfg.HISTFILE); err != nil {
		s.log.Debugw("history flush failed", "file", s.cfg.HISTFILE, "error", err)
	}
}

// RunOne tokenizes and executes a single line non-interactively (the -c
// flag in cmd/possh/main.go), bypassing the line editor entirely.
func (s *Shell) RunOne(line string) (shouldExit bool) {
	return s.dispatchLine(line)
}

// RunScript dispatches each line of an rc file in order (the --rcfile flag
// in cmd/possh/main.go), stopping early if a line reaches the exit builtin.
// A missing file is not an error: an rc file is optional setup, not a
// required input.
func (s *Shell) RunScript(path string) (shouldExit bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if s.dispatchLine(scanner.Text()) {
			return true, nil
		}
	}
	return false, scanner.Err()
}
