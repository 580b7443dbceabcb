package asm

import (
	"fmt"
	"strings"
)

// knownDirectives is the directive set §4.10/§6 recognises.
var knownDirectives = map[string]bool{
	"org": true, "align": true, "tryte": true, "word": true,
}

// Parse tokenises and parses an entire assembly source file into an AST of
// SourceLines, one per input line (blank lines included, as LineEmpty). A
// final newline ends the last line rather than starting an extra one.
func Parse(source string) ([]SourceLine, error) {
	rawLines := strings.Split(source, "\n")
	if n := len(rawLines); n > 0 && rawLines[n-1] == "" {
		rawLines = rawLines[:n-1]
	}
	lines := make([]SourceLine, 0, len(rawLines))
	for i, text := range rawLines {
		lineNo := i + 1
		toks, err := LexLine(lineNo, text)
		if err != nil {
			return nil, err
		}
		line, err := parseLine(lineNo, toks)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// lineParser walks one line's token slice.
type lineParser struct {
	lineNo int
	toks   []Token
	pos    int
}

func (p *lineParser) peek() Token { return p.toks[p.pos] }

func (p *lineParser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != TokEOF {
		p.pos++
	}
	return t
}

func (p *lineParser) errf(format string, args ...interface{}) error {
	return &ParserError{Line: p.lineNo, Reason: fmt.Sprintf(format, args...)}
}

func parseLine(lineNo int, toks []Token) (SourceLine, error) {
	p := &lineParser{lineNo: lineNo, toks: toks}

	if p.peek().Kind == TokEOL {
		return SourceLine{LineNo: lineNo, Kind: LineEmpty}, nil
	}

	var label string
	if p.peek().Kind == TokLabelDef {
		label = p.next().Text
		if p.peek().Kind == TokEOL {
			return SourceLine{LineNo: lineNo, Kind: LineLabel, Label: label}, nil
		}
	}

	switch p.peek().Kind {
	case TokDirective:
		d, err := p.parseDirective()
		if err != nil {
			return SourceLine{}, err
		}
		return SourceLine{LineNo: lineNo, Kind: LineDirective, Label: label, Directive: d}, nil
	case TokMnemonic:
		inst, err := p.parseInstruction()
		if err != nil {
			return SourceLine{}, err
		}
		return SourceLine{LineNo: lineNo, Kind: LineInstruction, Label: label, Instr: inst}, nil
	default:
		return SourceLine{}, p.errf("expected a directive or mnemonic, found %s %q", p.peek().Kind, p.peek().Text)
	}
}

func (p *lineParser) parseDirective() (Directive, error) {
	name := p.next().Text
	if !knownDirectives[name] {
		return Directive{}, p.errf("unknown directive %q", "."+name)
	}
	d := Directive{Name: name}
	if p.peek().Kind == TokEOL {
		return d, nil
	}
	ops, err := p.parseOperandList()
	if err != nil {
		return Directive{}, err
	}
	d.Args = ops
	return d, nil
}

func (p *lineParser) parseInstruction() (Instruction, error) {
	mnemonic := p.next().Text
	inst := Instruction{Mnemonic: mnemonic}
	if p.peek().Kind == TokEOL {
		return inst, nil
	}
	ops, err := p.parseOperandList()
	if err != nil {
		return Instruction{}, err
	}
	inst.Operands = ops
	return inst, nil
}

// parseOperandList reads a comma-separated operand list up to end of line.
// A BRANCH condition name lexes as a plain LabelRef (it isn't a
// known mnemonic), so the operand that would otherwise be a label gets
// OperandKind Condition whenever its text matches a known condition name;
// the encoder is the one that actually requires a given instruction's
// first operand to be a condition.
func (p *lineParser) parseOperandList() ([]Operand, error) {
	var ops []Operand
	for {
		op, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
		if p.peek().Kind == TokComma {
			p.next()
			continue
		}
		break
	}
	if p.peek().Kind != TokEOL {
		return nil, p.errf("unexpected token %s %q after operand list", p.peek().Kind, p.peek().Text)
	}
	return ops, nil
}

func (p *lineParser) parseOperand() (Operand, error) {
	t := p.next()
	switch t.Kind {
	case TokRegister:
		return Operand{Kind: OperandRegister, Register: int(t.Value)}, nil
	case TokNumber:
		return Operand{Kind: OperandNumber, Number: t.Value}, nil
	case TokLabelRef:
		if _, ok := conditionNames[strings.ToUpper(t.Text)]; ok {
			return Operand{Kind: OperandCondition, Condition: strings.ToUpper(t.Text)}, nil
		}
		return Operand{Kind: OperandLabelRef, LabelName: t.Text}, nil
	default:
		return Operand{}, p.errf("expected an operand, found %s %q", t.Kind, t.Text)
	}
}
