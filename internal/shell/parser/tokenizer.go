package parser

// Tokenize converts a raw input line (trailing newline already stripped) into
// the command blocks described in spec §3/§4.3: a single left-to-right byte
// scan drives a word accumulator and three latched flags (inSingle, inDouble,
// escape), with word boundaries interpreted positionally against whichever
// block is currently being assembled.
func Tokenize(line string) []*Block {
	t := &tokenizer{src: line, cur: &Block{}}
	return t.run()
}

type tokenizer struct {
	src string

	inSingle bool
	inDouble bool
	escape   bool

	word   []byte
	blocks []*Block
	cur    *Block
}

func (t *tokenizer) run() []*Block {
	for i := 0; i < len(t.src); i++ {
		t.step(t.src[i])
	}
	// escape outstanding at EOL is discarded (spec §4.3 edge policy); an
	// unterminated quote is accepted as if closed here.
	if len(t.word) > 0 {
		t.placeWord(string(t.word))
		t.word = t.word[:0]
	}
	if len(t.blocks) == 0 && t.cur.IsEmpty() {
		return nil
	}
	t.cur.PipedToNext = false
	t.blocks = append(t.blocks, t.cur)
	return t.blocks
}

func (t *tokenizer) step(c byte) {
	keepEscape := false
	switch c {
	case '\'':
		if t.inDouble || t.escape {
			t.word = append(t.word, c)
		} else {
			t.inSingle = !t.inSingle
		}
	case '"':
		switch {
		case t.escape && t.inDouble:
			t.replaceLast('"')
		case t.escape || t.inSingle:
			t.word = append(t.word, c)
		default:
			t.inDouble = !t.inDouble
		}
	case '\\':
		switch {
		case t.escape && t.inDouble:
			t.replaceLast('\\')
		case t.inSingle:
			t.word = append(t.word, c)
		case t.inDouble:
			t.word = append(t.word, c)
			keepEscape = true
		default:
			keepEscape = true
		}
	case ' ':
		switch {
		case t.inSingle || t.inDouble || t.escape:
			t.word = append(t.word, c)
		case len(t.word) > 0:
			t.placeWord(string(t.word))
			t.word = t.word[:0]
		}
	default:
		if t.inDouble && t.escape && (c == '$' || c == '`' || c == '\n') {
			t.replaceLast(c)
		} else {
			t.word = append(t.word, c)
		}
	}
	t.escape = keepEscape
}

// replaceLast swaps the literal backslash byte just appended to word for c.
// It models the escape pairs that collapse a preceding backslash (spec
// §4.3's double-quote backslash rules).
func (t *tokenizer) replaceLast(c byte) {
	if len(t.word) > 0 {
		t.word[len(t.word)-1] = c
	} else {
		t.word = append(t.word, c)
	}
}

// placeWord interprets a finished word positionally against the block
// currently being assembled (spec §4.3).
func (t *tokenizer) placeWord(w string) {
	switch {
	case t.cur.Command == "":
		t.cur.Command = w
	case t.cur.RedirectKind != RedirectNone && t.cur.RedirectTarget == "":
		t.cur.RedirectTarget = w
	default:
		switch w {
		case "|":
			t.cur.PipedToNext = true
			t.blocks = append(t.blocks, t.cur)
			t.cur = &Block{}
		case ">", "1>":
			t.cur.RedirectKind = RedirectStdout
			t.cur.RedirectMode = ModeTruncate
		case ">>", "1>>":
			t.cur.RedirectKind = RedirectStdout
			t.cur.RedirectMode = ModeAppend
		case "2>":
			t.cur.RedirectKind = RedirectStderr
			t.cur.RedirectMode = ModeTruncate
		case "2>>":
			t.cur.RedirectKind = RedirectStderr
			t.cur.RedirectMode = ModeAppend
		default:
			t.cur.Args = append(t.cur.Args, w)
		}
	}
}
