package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"possh/internal/shell"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("possh", pflag.ContinueOnError)
	command := fs.StringP("command", "c", "", "run a single line non-interactively and exit")
	histFile := fs.String("histfile", "", "override HISTFILE for this run")
	rcFile := fs.String("rcfile", "", "run this file's lines before the interactive prompt")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}

	log := shell.NewLogger()
	defer log.Sync()

	cfg, err := shell.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "possh: %s\n", err)
		return 1
	}
	if *histFile != "" {
		cfg.HISTFILE = *histFile
	}

	sh := shell.New(cfg, log)

	if *rcFile != "" {
		exit, err := sh.RunScript(*rcFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "possh: %s\n", err)
			return 1
		}
		if exit {
			return 0
		}
	}

	if *command != "" {
		sh.RunOne(*command)
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "possh: stdin is not a terminal; pass -c to run a single command")
		return 1
	}

	if err := sh.Interactive(); err != nil {
		fmt.Fprintf(os.Stderr, "possh: %s\n", err)
		return 1
	}
	return 0
}
