package asm

import "testing"

func TestLexLineBasic(t *testing.T) {
	toks, err := LexLine(1, "  ADD R1, R2  # comment")
	if err != nil {
		t.Fatalf("LexLine: %v", err)
	}
	want := []TokenKind{TokMnemonic, TokRegister, TokComma, TokRegister, TokEOL}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexLineLabelDef(t *testing.T) {
	toks, err := LexLine(1, "start: HALT")
	if err != nil {
		t.Fatalf("LexLine: %v", err)
	}
	if toks[0].Kind != TokLabelDef || toks[0].Text != "start" {
		t.Fatalf("got %+v, want LabelDef(start)", toks[0])
	}
	if toks[1].Kind != TokMnemonic || toks[1].Text != "HALT" {
		t.Fatalf("got %+v, want Mnemonic(HALT)", toks[1])
	}
}

func TestLexLineRegisterOutOfRange(t *testing.T) {
	if _, err := LexLine(1, "ADD R8, R1"); err == nil {
		t.Fatal("expected a lexer error for R8")
	}
}

func TestLexLineHexNumber(t *testing.T) {
	toks, err := LexLine(1, ".word 0x10")
	if err != nil {
		t.Fatalf("LexLine: %v", err)
	}
	if toks[0].Kind != TokDirective || toks[0].Text != "word" {
		t.Fatalf("got %+v, want Directive(word)", toks[0])
	}
	if toks[1].Kind != TokNumber || toks[1].Value != 16 {
		t.Fatalf("got %+v, want Number(16)", toks[1])
	}
}

func TestLexLineNegativeNumber(t *testing.T) {
	toks, err := LexLine(1, "ADDI R1, R2, -5")
	if err != nil {
		t.Fatalf("LexLine: %v", err)
	}
	last := toks[len(toks)-2]
	if last.Kind != TokNumber || last.Value != -5 {
		t.Fatalf("got %+v, want Number(-5)", last)
	}
}

func TestLexLineLabelRef(t *testing.T) {
	toks, err := LexLine(1, "JAL R7, end")
	if err != nil {
		t.Fatalf("LexLine: %v", err)
	}
	last := toks[len(toks)-2]
	if last.Kind != TokLabelRef || last.Text != "end" {
		t.Fatalf("got %+v, want LabelRef(end)", last)
	}
}
