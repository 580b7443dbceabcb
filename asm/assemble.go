// Package asm implements the two-pass PrismChrono assembler: a lexer and
// parser that turn assembly text into an AST, then a symbol-table pass and
// an encoding pass that turn the AST into a binary image the memory
// package's loader understands.
package asm

import (
	"github.com/prismchrono/prismchrono/memory"
	"github.com/prismchrono/prismchrono/trit"
)

// instructionSize and the directive sizes give pass 1's cursor arithmetic,
// matching §4.11 exactly: an instruction is 4 trytes, a tryte directive is
// 1, a word directive is 8.
const instructionSize = 4

// Assemble runs the full lexer→parser→pass1→pass2 pipeline over source and
// returns the resulting binary image. It returns the first error
// encountered, wrapped in the LexerError/ParserError/Pass1Error/Pass2Error/
// EncodeError that names where it came from, per §7.
func Assemble(source string) ([]memory.ImageRecord, error) {
	lines, err := Parse(source)
	if err != nil {
		return nil, err
	}

	symtab, err := pass1(lines)
	if err != nil {
		return nil, err
	}

	return pass2(lines, symtab)
}

// pass1 walks the AST once, tracking a cursor and recording label
// addresses. It emits nothing.
func pass1(lines []SourceLine) (*SymbolTable, error) {
	symtab := NewSymbolTable()
	cursor := 0

	for _, line := range lines {
		if line.Label != "" {
			if err := symtab.Define(line.Label, cursor); err != nil {
				return nil, &Pass1Error{Line: line.LineNo, Reason: err.Error()}
			}
		}
		switch line.Kind {
		case LineEmpty, LineLabel:
			// no cursor movement
		case LineDirective:
			next, err := advanceForDirective(line.LineNo, line.Directive, cursor)
			if err != nil {
				return nil, err
			}
			cursor = next
		case LineInstruction:
			cursor += instructionSize
		}
	}
	return symtab, nil
}

// advanceForDirective applies a directive's effect on the pass-1 cursor,
// without emitting anything.
func advanceForDirective(lineNo int, d Directive, cursor int) (int, error) {
	switch d.Name {
	case "org":
		if len(d.Args) != 1 || d.Args[0].Kind != OperandNumber {
			return 0, &ParserError{Line: lineNo, Reason: ".org requires one numeric operand"}
		}
		return int(d.Args[0].Number), nil
	case "align":
		if len(d.Args) != 1 || d.Args[0].Kind != OperandNumber {
			return 0, &ParserError{Line: lineNo, Reason: ".align requires one numeric operand"}
		}
		n := int(d.Args[0].Number)
		if n <= 0 {
			return 0, &ParserError{Line: lineNo, Reason: ".align operand must be > 0"}
		}
		return roundUp(cursor, n), nil
	case "tryte":
		if len(d.Args) != 1 || d.Args[0].Kind != OperandNumber {
			return 0, &ParserError{Line: lineNo, Reason: ".tryte requires one numeric operand"}
		}
		return cursor + 1, nil
	case "word":
		if len(d.Args) != 1 || d.Args[0].Kind != OperandNumber {
			return 0, &ParserError{Line: lineNo, Reason: ".word requires one numeric operand"}
		}
		return cursor + trit.WordTrytes, nil
	default:
		return 0, &ParserError{Line: lineNo, Reason: "unknown directive \"." + d.Name + "\""}
	}
}

func roundUp(cursor, n int) int {
	if cursor%n == 0 {
		return cursor
	}
	return cursor + (n - cursor%n)
}

// pass2 walks the AST a second time with the same cursor discipline as
// pass1, this time emitting image records. PC-relative offsets for
// JAL/CALL are computed here as (target - (cursor+4)) / instructionSize,
// per §4.11, and checked against JAL/CALL's 6-trit offset field.
func pass2(lines []SourceLine, symtab *SymbolTable) ([]memory.ImageRecord, error) {
	var records []memory.ImageRecord
	cursor := 0

	for _, line := range lines {
		switch line.Kind {
		case LineEmpty, LineLabel:
			// no emission, no cursor movement

		case LineDirective:
			rec, next, err := emitDirective(line.LineNo, line.Directive, cursor)
			if err != nil {
				return nil, err
			}
			if rec != nil {
				records = append(records, *rec)
			}
			cursor = next

		case LineInstruction:
			here := cursor // capture for the closure below
			resolveLabel := func(name string) (int64, error) {
				target, ok := symtab.Lookup(name)
				if !ok {
					return 0, &Pass2Error{Line: line.LineNo, Reason: "undefined label \"" + name + "\""}
				}
				delta := target - (here + instructionSize)
				if delta%instructionSize != 0 {
					return 0, &Pass2Error{Line: line.LineNo, Reason: "target not instruction-aligned"}
				}
				offset := int64(delta / instructionSize)
				if lo, hi := fieldRange(6); offset < lo || offset > hi {
					return 0, &Pass2Error{Line: line.LineNo, Reason: "offset out of range"}
				}
				return offset, nil
			}

			trits, err := EncodeInstruction(line.LineNo, line.Instr, resolveLabel)
			if err != nil {
				return nil, err
			}
			trytes := TritsToTrytes(trits)
			records = append(records, memory.ImageRecord{Addr: cursor, Trytes: trytes[:]})
			cursor += instructionSize
		}
	}
	return records, nil
}

// emitDirective handles one directive's pass-2 emission, mirroring
// advanceForDirective's cursor arithmetic but actually producing data for
// .tryte/.word.
func emitDirective(lineNo int, d Directive, cursor int) (*memory.ImageRecord, int, error) {
	switch d.Name {
	case "org":
		return nil, int(d.Args[0].Number), nil
	case "align":
		n := int(d.Args[0].Number)
		return nil, roundUp(cursor, n), nil
	case "tryte":
		v := d.Args[0].Number
		if v < -13 || v > 13 {
			return nil, 0, &EncodeError{Line: lineNo, Reason: ".tryte value out of range [-13, 13]"}
		}
		tr, ok := trit.DigitTryteFromValue(int(v))
		if !ok {
			return nil, 0, &EncodeError{Line: lineNo, Reason: ".tryte value out of range [-13, 13]"}
		}
		return &memory.ImageRecord{Addr: cursor, Trytes: []trit.Tryte{tr}}, cursor + 1, nil
	case "word":
		v := d.Args[0].Number
		w, ok := trit.WordFromInt(v)
		if !ok {
			return nil, 0, &EncodeError{Line: lineNo, Reason: ".word value out of range"}
		}
		return &memory.ImageRecord{Addr: cursor, Trytes: w[:]}, cursor + trit.WordTrytes, nil
	default:
		return nil, 0, &ParserError{Line: lineNo, Reason: "unknown directive \"." + d.Name + "\""}
	}
}
