package asm

import "testing"

func TestParseInstructionLine(t *testing.T) {
	lines, err := Parse("ADD R1, R2\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	l := lines[0]
	if l.Kind != LineInstruction || l.Instr.Mnemonic != "ADD" {
		t.Fatalf("got %+v", l)
	}
	if len(l.Instr.Operands) != 2 {
		t.Fatalf("got %d operands, want 2", len(l.Instr.Operands))
	}
}

func TestParseLabelAndInstruction(t *testing.T) {
	lines, err := Parse("start: JAL R7, end\n       NOP\nend:   HALT\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %+v", len(lines), lines)
	}
	if lines[0].Label != "start" || lines[0].Instr.Mnemonic != "JAL" {
		t.Fatalf("line 0: %+v", lines[0])
	}
	if lines[2].Label != "end" || lines[2].Instr.Mnemonic != "HALT" {
		t.Fatalf("line 2: %+v", lines[2])
	}
}

func TestParseDirectives(t *testing.T) {
	lines, err := Parse(".org 100\n.align 8\n.tryte 5\n.word -100\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	for i, name := range []string{"org", "align", "tryte", "word"} {
		if lines[i].Kind != LineDirective || lines[i].Directive.Name != name {
			t.Errorf("line %d: got %+v, want directive %q", i, lines[i], name)
		}
	}
}

func TestParseBranchWithCondition(t *testing.T) {
	lines, err := Parse("BRANCH EQ, R1, R2\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ops := lines[0].Instr.Operands
	if len(ops) != 3 || ops[0].Kind != OperandCondition || ops[0].Condition != "EQ" {
		t.Fatalf("got %+v", ops)
	}
}

func TestParseUnknownMnemonicFails(t *testing.T) {
	if _, err := Parse("FROBNICATE R1\n"); err == nil {
		t.Fatal("expected a parser error")
	}
}

func TestParseUnknownDirectiveFails(t *testing.T) {
	if _, err := Parse(".bogus 1\n"); err == nil {
		t.Fatal("expected a parser error")
	}
}
