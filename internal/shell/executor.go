package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/xerrors"

	"possh/internal/shell/parser"
)

// StageError wraps a pipeline-stage failure with the block that produced
// it, so callers further up the stack can distinguish a redirect-setup
// failure from a child-spawn failure (spec §7's distinct error kinds),
// grounded on mvdan-sh/interp/interp.go's xerrors.As(err, &s) pattern for
// its own stage-scoped error type.
type StageError struct {
	Block *parser.Block
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Block.Command, e.Err)
}
func (e *StageError) Unwrap() error { return e.Err }

func newStageError(b *parser.Block, err error) error {
	return xerrors.Errorf("stage %q: %w", b.Command, &StageError{Block: b, Err: err})
}

// effectiveKind is the resolved redirection a block executes under, per
// spec §4.6 step 2.
type effectiveKind int

const (
	effNone effectiveKind = iota
	effPipe
	effStdout
	effStderr
)

func effectiveRedirect(b *parser.Block) effectiveKind {
	if b.PipedToNext {
		return effPipe
	}
	switch b.RedirectKind {
	case parser.RedirectStdout:
		return effStdout
	case parser.RedirectStderr:
		return effStderr
	default:
		return effNone
	}
}

// Executor runs a parsed block list against real OS processes, pipes, and
// files (spec §4.6), replacing the teacher's executor.go which targeted an
// in-process VirtualFileSystem sandbox instead of the real filesystem.
type Executor struct {
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader

	Hist    *History
	PathEnv func() string
	HomeDir func() string

	log *zap.SugaredLogger
}

func NewExecutor(stdout, stderr io.Writer, stdin io.Reader, hist *History, pathEnv, homeDir func() string, log *zap.SugaredLogger) *Executor {
	return &Executor{
		Stdout:  stdout,
		Stderr:  stderr,
		Stdin:   stdin,
		Hist:    hist,
		PathEnv: pathEnv,
		HomeDir: homeDir,
		log:     log,
	}
}

// Run executes blocks left to right per spec §4.6. The returned bool
// reports whether the exit builtin was reached.
func (ex *Executor) Run(blocks []*parser.Block) (shouldExit bool, err error) {
	var prevStage io.ReadCloser
	var pending []*exec.Cmd

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		var g errgroup.Group
		for _, c := range pending {
			c := c
			g.Go(c.Wait)
		}
		pending = nil
		return g.Wait()
	}

	for _, b := range blocks {
		if b.IsEmpty() {
			continue
		}
		if b.RedirectKind != parser.RedirectNone && b.RedirectTarget == "" {
			fmt.Fprintln(ex.Stdout, "No redirect target found")
			return false, flush()
		}

		effective := effectiveRedirect(b)
		stdoutSink := ex.channel(effective == effStdout || effective == effPipe, ex.Stdout)
		stderrSink := ex.channel(effective == effStderr, ex.Stderr)

		switch {
		case IsBuiltin(b.Command):
			if prevStage != nil {
				// Builtins never consume the previous stage's output; drain
				// it so the producing process is not left blocked on a full
				// pipe.
				go io.Copy(io.Discard, prevStage)
				prevStage = nil
			}
			if err := flush(); err != nil {
				ex.log.Debugw("pipeline stage failed", "error", err)
			}
			exit, berr := RunBuiltin(b.Command, &BuiltinContext{
				Args:    b.Args,
				Stdout:  stdoutSink,
				Stderr:  stderrSink,
				Hist:    ex.Hist,
				PathEnv: ex.PathEnv(),
				HomeDir: ex.HomeDir(),
			})
			if berr != nil {
				ex.log.Debugw("builtin failed", "command", b.Command, "error", berr)
			}
			if err := ex.flushRedirect(b, effective, stdoutSink, stderrSink); err != nil {
				return exit, newStageError(b, err)
			}
			if effective == effPipe {
				// A builtin's output has no OS pipe of its own, so the next
				// stage's stdin is the materialized bytes the builtin wrote
				// to its sink (spec §3/§9's MaterializedBytes transport).
				prevStage = io.NopCloser(bytes.NewReader(stdoutSink.bytes()))
			}
			if exit {
				return true, nil
			}

		default:
			path, ok := Resolve(ex.PathEnv(), b.Command)
			if !ok {
				fmt.Fprintf(stderrSink, "%s: command not found\n", b.Command)
				if err := ex.flushRedirect(b, effective, stdoutSink, stderrSink); err != nil {
					return false, newStageError(b, err)
				}
				prevStage = nil
				continue
			}

			cmd := exec.Command(path, b.Args...)
			cmd.Stdin = prevStage
			if cmd.Stdin == nil {
				cmd.Stdin = ex.Stdin
			}

			switch effective {
			case effPipe:
				cmd.Stderr = ex.Stderr
				stdout, perr := cmd.StdoutPipe()
				if perr != nil {
					return false, newStageError(b, perr)
				}
				if err := cmd.Start(); err != nil {
					return false, newStageError(b, err)
				}
				pending = append(pending, cmd)
				prevStage = stdout
				continue
			case effStdout:
				cmd.Stdout = stdoutSink
				cmd.Stderr = ex.Stderr
			case effStderr:
				cmd.Stdout = ex.Stdout
				cmd.Stderr = stderrSink
			default:
				cmd.Stdout = ex.Stdout
				cmd.Stderr = ex.Stderr
			}

			prevStage = nil
			runErr := cmd.Run()
			if err := flush(); err != nil {
				ex.log.Debugw("pipeline stage failed", "error", err)
			}
			if runErr != nil {
				ex.log.Debugw("child process failed", "command", b.Command, "error", runErr)
			}
			if err := ex.flushRedirect(b, effective, stdoutSink, stderrSink); err != nil {
				return false, newStageError(b, err)
			}
		}
	}

	return false, flush()
}

func (ex *Executor) channel(buffered bool, terminal io.Writer) *sink {
	if buffered {
		return bufferSink()
	}
	return terminalSink(terminal)
}

// flushRedirect writes a block's captured buffer to its redirect target
// file, per spec §4.6 step 5.
func (ex *Executor) flushRedirect(b *parser.Block, effective effectiveKind, stdoutSink, stderrSink *sink) error {
	var data []byte
	switch effective {
	case effStdout:
		data = stdoutSink.bytes()
	case effStderr:
		data = stderrSink.bytes()
	default:
		return nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if b.RedirectMode == parser.ModeAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(b.RedirectTarget, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}
