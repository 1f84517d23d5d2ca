package shell

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// BuiltinContext carries everything a builtin body needs: its arguments,
// the two output channels it may write to, and the shared history/PATH/HOME
// state. Grounded on the teacher's commands/basic.go builtins writing to a
// sink rather than directly to os.Stdout, generalized to possh's six names
// (spec §6).
type BuiltinContext struct {
	Args    []string
	Stdout  *sink
	Stderr  *sink
	Hist    *History
	PathEnv string
	HomeDir string
}

// IsBuiltin reports whether name is one of possh's six builtin commands.
func IsBuiltin(name string) bool {
	for _, b := range BuiltinNames {
		if b == name {
			return true
		}
	}
	return false
}

// RunBuiltin dispatches to one of the six builtin bodies (spec §4.6 step 4).
// The returned bool is true only for the exit builtin.
func RunBuiltin(name string, ctx *BuiltinContext) (exit bool, err error) {
	switch name {
	case "":
		return false, nil
	case "exit":
		return true, nil
	case "echo":
		builtinEcho(ctx)
	case "pwd":
		return false, builtinPwd(ctx)
	case "cd":
		builtinCd(ctx)
	case "type":
		builtinType(ctx)
	case "history":
		builtinHistory(ctx)
	}
	return false, nil
}

func builtinEcho(ctx *BuiltinContext) {
	fmt.Fprintf(ctx.Stdout, "%s\n", strings.Join(ctx.Args, " "))
}

func builtinPwd(ctx *BuiltinContext) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("pwd: %w", err)
	}
	fmt.Fprintf(ctx.Stdout, "%s\n", wd)
	return nil
}

func builtinCd(ctx *BuiltinContext) {
	if len(ctx.Args) == 0 {
		fmt.Fprint(ctx.Stderr, "No file or directory passed into cd\n")
		return
	}
	target := ctx.Args[0]
	if target == "~" {
		if ctx.HomeDir == "" {
			fmt.Fprint(ctx.Stderr, "cd: HOME not set\n")
			return
		}
		target = ctx.HomeDir
	}
	if _, err := os.Stat(target); err != nil {
		fmt.Fprintf(ctx.Stderr, "cd: %s: No such file or directory\n", ctx.Args[0])
		return
	}
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(ctx.Stderr, "cd: %s: No such file or directory\n", ctx.Args[0])
	}
}

func builtinType(ctx *BuiltinContext) {
	if len(ctx.Args) == 0 {
		return
	}
	name := ctx.Args[0]
	if IsBuiltin(name) {
		fmt.Fprintf(ctx.Stdout, "%s is a shell builtin\n", name)
		return
	}
	ResolveVerbose(ctx.Stdout, ctx.PathEnv, name)
}

func builtinHistory(ctx *BuiltinContext) {
	args := ctx.Args
	if len(args) == 0 {
		writeHistoryEntries(ctx.Stdout, ctx.Hist.Entries(), "  ")
		return
	}

	switch args[0] {
	case "-r", "-w", "-a":
		if len(args) < 2 {
			fmt.Fprint(ctx.Stderr, "Need to be sent a file\n")
			return
		}
		file := args[1]
		switch args[0] {
		case "-r":
			ctx.Hist.LoadFrom(file)
		case "-w":
			if err := ctx.Hist.Rewrite(file); err != nil {
				fmt.Fprintf(ctx.Stderr, "history: %s\n", err)
			}
		case "-a":
			if err := ctx.Hist.AppendTo(file); err != nil {
				fmt.Fprintf(ctx.Stderr, "history: %s\n", err)
			}
		}
		return
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprint(ctx.Stderr, "History needs to be provided a number\n")
		return
	}
	entries := ctx.Hist.Entries()
	if n > len(entries) {
		fmt.Fprintf(ctx.Stderr, "Number provided is larger than current history: %d\n", len(entries))
		return
	}
	start := len(entries) - n
	writeHistoryEntries(ctx.Stdout, entries[start:], " ", withIndexOffset(start))
}

type historyOpt func(*historyOpts)

type historyOpts struct {
	indexOffset int
}

func withIndexOffset(offset int) historyOpt {
	return func(o *historyOpts) { o.indexOffset = offset }
}

func writeHistoryEntries(out *sink, entries []string, indent string, opts ...historyOpt) {
	o := historyOpts{}
	for _, apply := range opts {
		apply(&o)
	}
	for i, e := range entries {
		fmt.Fprintf(out, "%s%d  %s\n", indent, o.indexOffset+i+1, e)
	}
}
