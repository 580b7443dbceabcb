package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenKind names one of the lexical categories of §4.9.
type TokenKind uint8

const (
	TokMnemonic TokenKind = iota
	TokRegister
	TokNumber
	TokLabelDef
	TokLabelRef
	TokDirective
	TokComma
	TokEOL
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokMnemonic:
		return "Mnemonic"
	case TokRegister:
		return "Register"
	case TokNumber:
		return "Number"
	case TokLabelDef:
		return "LabelDef"
	case TokLabelRef:
		return "LabelRef"
	case TokDirective:
		return "Directive"
	case TokComma:
		return "Comma"
	case TokEOL:
		return "EOL"
	case TokEOF:
		return "EOF"
	default:
		return "?"
	}
}

// Token is one lexical unit. Text carries the identifier/mnemonic/directive
// name (without its leading '.' or trailing ':'), the literal register
// text, or a number's source text (sign and 0x prefix included). Number
// additionally carries its parsed Value.
type Token struct {
	Kind  TokenKind
	Text  string
	Value int64
	Line  int
}

// knownMnemonics is the full instruction set §4.10 recognises. A
// Mnemonic token is only produced when an uppercased identifier matches
// this set; anything else lexes as a LabelRef, matching §4.9's rule that
// Mnemonic is specifically "identifier matching the known-instruction
// set."
var knownMnemonics = map[string]bool{
	"NOP": true, "HALT": true, "ECALL": true, "EBREAK": true,
	"MRET_T": true, "SRET_T": true, "CSRRW_T": true, "CSRRS_T": true,
	"ADD": true, "SUB": true, "MUL": true, "DIV": true, "MOD": true,
	"TRITINV": true, "TRITMIN": true, "TRITMAX": true,
	"AND": true, "OR": true, "XOR": true, "SHL": true, "SHR": true, "CMP": true,
	"ISSPECIAL": true, "SETSPECIAL": true,
	"ADDI": true,
	"LOADW": true, "LOADT": true, "LOADTU": true,
	"STOREW": true, "STORET": true,
	"BRANCH": true,
	"JAL": true, "CALL": true, "JALR": true,
	"LUI": true, "AUIPC": true,
}

// Lexer turns a line of source text into Tokens. It is constructed fresh
// per line; the parser drives one Lexer per source line rather than
// threading a single cursor across the whole file, since every construct
// in §4.9's grammar terminates at end of line.
type Lexer struct {
	line  int
	src   []rune
	pos   int
	toks  []Token
}

// LexLine tokenises one line of source (comment and newline already
// stripped by the caller is not required; LexLine strips '#'-to-end-of-line
// comments itself and always appends a trailing EOL). lineNo is 1-based,
// matching how the assembler reports errors.
func LexLine(lineNo int, text string) ([]Token, error) {
	l := &Lexer{line: lineNo, src: []rune(text)}
	if err := l.run(); err != nil {
		return nil, err
	}
	l.toks = append(l.toks, Token{Kind: TokEOL, Line: lineNo})
	return l.toks, nil
}

func (l *Lexer) run() error {
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			return nil
		}
		c := l.src[l.pos]
		switch {
		case c == '#':
			return nil // comment runs to end of line; nothing more to lex
		case c == ',':
			l.toks = append(l.toks, Token{Kind: TokComma, Line: l.line})
			l.pos++
		case c == '.':
			if err := l.lexDirective(); err != nil {
				return err
			}
		case isDigit(c) || ((c == '+' || c == '-') && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			if err := l.lexNumber(); err != nil {
				return err
			}
		case isIdentStart(c):
			if err := l.lexIdent(); err != nil {
				return err
			}
		default:
			return &LexerError{Line: l.line, Column: l.pos + 1, Reason: fmt.Sprintf("unexpected character %q", c)}
		}
	}
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\r') {
		l.pos++
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isIdentStart(c rune) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isIdentCont(c rune) bool {
	return isIdentStart(c) || isDigit(c)
}

func (l *Lexer) lexDirective() error {
	start := l.pos
	l.pos++ // consume '.'
	identStart := l.pos
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	if l.pos == identStart {
		return &LexerError{Line: l.line, Column: start + 1, Reason: "'.' not followed by a directive name"}
	}
	name := string(l.src[identStart:l.pos])
	l.toks = append(l.toks, Token{Kind: TokDirective, Text: strings.ToLower(name), Line: l.line})
	return nil
}

func (l *Lexer) lexNumber() error {
	start := l.pos
	neg := false
	if l.src[l.pos] == '+' || l.src[l.pos] == '-' {
		neg = l.src[l.pos] == '-'
		l.pos++
	}
	hex := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == '0' && (l.src[l.pos+1] == 'x' || l.src[l.pos+1] == 'X') {
		hex = true
		l.pos += 2
	}
	digitsStart := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if isDigit(c) || (hex && ((c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'))) {
			l.pos++
			continue
		}
		break
	}
	if l.pos == digitsStart {
		return &LexerError{Line: l.line, Column: start + 1, Reason: "malformed number literal"}
	}
	text := string(l.src[start:l.pos])
	digits := string(l.src[digitsStart:l.pos])
	base := 10
	if hex {
		base = 16
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return &LexerError{Line: l.line, Column: start + 1, Reason: fmt.Sprintf("malformed number literal %q: %v", text, err)}
	}
	if neg {
		v = -v
	}
	l.toks = append(l.toks, Token{Kind: TokNumber, Text: text, Value: v, Line: l.line})
	return nil
}

func (l *Lexer) lexIdent() error {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	name := string(l.src[start:l.pos])

	// A label definition is an identifier immediately followed by ':'.
	if l.pos < len(l.src) && l.src[l.pos] == ':' {
		l.pos++
		l.toks = append(l.toks, Token{Kind: TokLabelDef, Text: name, Line: l.line})
		return nil
	}

	// "R" followed by an integer is a register reference; >= 8 is a lex
	// error per §4.9.
	if (name[0] == 'R' || name[0] == 'r') && len(name) > 1 {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			if n >= 8 {
				return &LexerError{Line: l.line, Column: start + 1, Reason: fmt.Sprintf("register R%d out of range (only R0-R7 exist)", n)}
			}
			l.toks = append(l.toks, Token{Kind: TokRegister, Text: strings.ToUpper(name), Value: int64(n), Line: l.line})
			return nil
		}
	}

	upper := strings.ToUpper(name)
	if knownMnemonics[upper] {
		l.toks = append(l.toks, Token{Kind: TokMnemonic, Text: upper, Line: l.line})
		return nil
	}
	l.toks = append(l.toks, Token{Kind: TokLabelRef, Text: name, Line: l.line})
	return nil
}
