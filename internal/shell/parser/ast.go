// Package parser tokenizes a raw input line into the command blocks the
// executor runs. It does not build a general AST: possh's grammar is a flat
// pipeline of blocks, so the tokenizer in tokenizer.go assembles blocks
// directly instead of handing a token stream to a separate parse step.
package parser

// RedirectKind says which stream, if any, a block's output is sent to.
type RedirectKind int

const (
	RedirectNone RedirectKind = iota
	RedirectStdout
	RedirectStderr
)

// RedirectMode says how a redirected file is opened.
type RedirectMode int

const (
	ModeNone RedirectMode = iota
	ModeTruncate
	ModeAppend
)

// Block is one command-and-arguments unit within a pipeline (spec §3).
type Block struct {
	Command string
	Args    []string

	RedirectKind   RedirectKind
	RedirectMode   RedirectMode
	RedirectTarget string

	// PipedToNext is true iff the next block in the line consumes this
	// block's stdout. Only the last block in a line has it false.
	PipedToNext bool
}

// IsEmpty reports whether the block was never assigned a command — the
// tokenizer emits this as the last block of a line that ends in "|" (a
// blank input line yields no blocks at all).
func (b *Block) IsEmpty() bool {
	return b.Command == ""
}
