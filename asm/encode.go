package asm

import (
	"fmt"

	"github.com/prismchrono/prismchrono/cpu"
	"github.com/prismchrono/prismchrono/trit"
)

// mnemonicToAluOp covers every R-format ALU mnemonic §4.5 names.
var mnemonicToAluOp = map[string]cpu.AluOp{
	"ADD": cpu.AluAdd, "SUB": cpu.AluSub, "MUL": cpu.AluMul, "DIV": cpu.AluDiv,
	"MOD": cpu.AluMod, "TRITINV": cpu.AluTritInv, "TRITMIN": cpu.AluTritMin,
	"TRITMAX": cpu.AluTritMax, "AND": cpu.AluAnd, "OR": cpu.AluOr, "XOR": cpu.AluXor,
	"SHL": cpu.AluShl, "SHR": cpu.AluShr, "CMP": cpu.AluCmp,
	"ISSPECIAL": cpu.AluIsSpecial, "SETSPECIAL": cpu.AluForceSpecial,
}

// conditionNames covers every branch condition §4.7 names. It is also used
// by the parser to recognise a condition-shaped operand.
var conditionNames = map[string]cpu.Condition{
	"EQ": cpu.CondEq, "NE": cpu.CondNe, "LT": cpu.CondLt, "GE": cpu.CondGe,
	"LTU": cpu.CondLtu, "GEU": cpu.CondGeu, "SPECIAL": cpu.CondSpecial, "ALWAYS": cpu.CondAlways,
}

var mnemonicToSystemFunc = map[string]cpu.SystemFunc{
	"NOP": cpu.SysNop, "HALT": cpu.SysHalt, "ECALL": cpu.SysEcall, "EBREAK": cpu.SysEbreak,
	"MRET_T": cpu.SysMret, "SRET_T": cpu.SysSret, "CSRRW_T": cpu.SysCsrrw, "CSRRS_T": cpu.SysCsrrs,
}

// fieldRange gives the signed range a field of the given trit width can
// hold: [-(3^n-1)/2, +(3^n-1)/2].
func fieldRange(trits int) (lo, hi int64) {
	n := int64(1)
	for i := 0; i < trits; i++ {
		n *= 3
	}
	hi = (n - 1) / 2
	return -hi, hi
}

func checkRange(lineNo int, v int64, trits int, what string) error {
	lo, hi := fieldRange(trits)
	if v < lo || v > hi {
		return &EncodeError{Line: lineNo, Reason: fmt.Sprintf("%s %d out of range [%d, %d]", what, v, lo, hi)}
	}
	return nil
}

// spliceTrits writes the count-trit balanced-ternary encoding of v into
// out starting at lowIdx, low trit first — the exact inverse of the slices
// cpu/decode.go reads fields from.
func spliceTrits(out *[12]trit.Trit, lowIdx, count int, v int64) {
	ts := trit.TritsFromInt(v, count)
	copy(out[lowIdx:lowIdx+count], ts)
}

func spliceRegister(out *[12]trit.Trit, lowIdx int, r cpu.Register) {
	rt := cpu.EncodeRegister(r)
	out[lowIdx] = rt[0]
	out[lowIdx+1] = rt[1]
	out[lowIdx+2] = trit.Z
}

func spliceOpcode(out *[12]trit.Trit, op cpu.Opcode) {
	spliceTrits(out, 0, 3, int64(op))
}

// register requires operand i to be a register operand and returns it as
// a cpu.Register.
func register(lineNo int, ops []Operand, i int) (cpu.Register, error) {
	if i >= len(ops) || ops[i].Kind != OperandRegister {
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("operand %d: expected a register", i+1)}
	}
	return cpu.Register(ops[i].Register), nil
}

// immediate requires operand i to be a literal number and returns its
// value. Label references are resolved separately by resolveOperandOffset, since
// only pass 2 has a symbol table.
func immediate(lineNo int, ops []Operand, i int) (int64, error) {
	if i >= len(ops) || ops[i].Kind != OperandNumber {
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("operand %d: expected a number", i+1)}
	}
	return ops[i].Number, nil
}

func condition(lineNo int, ops []Operand, i int) (cpu.Condition, error) {
	if i >= len(ops) || ops[i].Kind != OperandCondition {
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("operand %d: expected a branch condition", i+1)}
	}
	c, ok := conditionNames[ops[i].Condition]
	if !ok {
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("unknown branch condition %q", ops[i].Condition)}
	}
	return c, nil
}

func requireCount(lineNo, got, want int, mnemonic string) error {
	if got != want {
		return &ParserError{Line: lineNo, Reason: fmt.Sprintf("%s expects %d operands, got %d", mnemonic, want, got)}
	}
	return nil
}

// EncodeInstruction converts a parsed instruction into its 12-trit word.
// resolveLabel is called for any operand that names a label; it must
// return the instruction-relative offset already computed by the caller
// (pass 2's two-pass driver), since only the driver knows the current
// cursor.
func EncodeInstruction(lineNo int, inst Instruction, resolveLabel func(name string) (offset int64, err error)) ([12]trit.Trit, error) {
	var out [12]trit.Trit
	ops := inst.Operands

	switch inst.Mnemonic {
	case "ADD", "SUB", "MUL", "DIV", "MOD", "TRITINV", "TRITMIN", "TRITMAX", "AND", "OR", "XOR", "SHL", "SHR", "CMP", "ISSPECIAL", "SETSPECIAL":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		rs2, err := register(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpAlu)
		spliceTrits(&out, 3, 3, int64(mnemonicToAluOp[inst.Mnemonic]))
		spliceRegister(&out, 6, rs2)
		spliceRegister(&out, 9, rs1)
		return out, nil

	case "ADDI":
		if err := requireCount(lineNo, len(ops), 3, inst.Mnemonic); err != nil {
			return out, err
		}
		rd, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		imm, err := immediate(lineNo, ops, 2)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, imm, 3, "ADDI immediate"); err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpAluI)
		spliceTrits(&out, 3, 3, imm)
		spliceRegister(&out, 6, rd)
		spliceRegister(&out, 9, rs1)
		return out, nil

	case "LOADW", "LOADT", "LOADTU":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		imm, err := immediate(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, imm, 5, "load offset"); err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpLoad)
		spliceTrits(&out, 3, 5, imm)
		switch inst.Mnemonic {
		case "LOADW":
			out[8] = trit.P
		case "LOADT":
			out[8] = trit.Z
		case "LOADTU":
			out[8] = trit.N
		}
		spliceRegister(&out, 9, rs1)
		return out, nil

	case "STOREW", "STORET":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rs2, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		imm, err := immediate(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, imm, 5, "store offset"); err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpStore)
		spliceTrits(&out, 3, 5, imm)
		if inst.Mnemonic == "STOREW" {
			out[8] = trit.P
		} else {
			out[8] = trit.Z
		}
		spliceRegister(&out, 9, rs2)
		return out, nil

	case "BRANCH":
		if err := requireCount(lineNo, len(ops), 3, inst.Mnemonic); err != nil {
			return out, err
		}
		cond, err := condition(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		rs2, err := register(lineNo, ops, 2)
		if err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpBranch)
		spliceTrits(&out, 3, 3, int64(cond))
		spliceRegister(&out, 6, rs2)
		spliceRegister(&out, 9, rs1)
		return out, nil

	case "JAL", "CALL":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rd, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		offset, err := resolveOperandOffset(lineNo, ops, 1, resolveLabel)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, offset, 6, inst.Mnemonic+" offset"); err != nil {
			return out, err
		}
		op := cpu.OpJump
		if inst.Mnemonic == "CALL" {
			op = cpu.OpCall
		}
		spliceOpcode(&out, op)
		spliceRegister(&out, 3, rd)
		spliceTrits(&out, 6, 6, offset)
		return out, nil

	case "JALR":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		imm, err := immediate(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, imm, 6, "JALR offset"); err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpJalr)
		spliceTrits(&out, 3, 6, imm)
		spliceRegister(&out, 9, rs1)
		return out, nil

	case "LUI", "AUIPC":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rd, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		imm, err := immediate(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		if err := checkRange(lineNo, imm, 6, inst.Mnemonic+" immediate"); err != nil {
			return out, err
		}
		op := cpu.OpLui
		if inst.Mnemonic == "AUIPC" {
			op = cpu.OpAuipc
		}
		spliceOpcode(&out, op)
		spliceRegister(&out, 3, rd)
		spliceTrits(&out, 6, 6, imm)
		return out, nil

	case "NOP", "HALT", "ECALL", "EBREAK", "MRET_T", "SRET_T":
		if err := requireCount(lineNo, len(ops), 0, inst.Mnemonic); err != nil {
			return out, err
		}
		spliceOpcode(&out, cpu.OpSystem)
		spliceTrits(&out, 6, 3, int64(mnemonicToSystemFunc[inst.Mnemonic]))
		return out, nil

	case "CSRRW_T", "CSRRS_T":
		if err := requireCount(lineNo, len(ops), 2, inst.Mnemonic); err != nil {
			return out, err
		}
		rs1, err := register(lineNo, ops, 0)
		if err != nil {
			return out, err
		}
		csr, err := immediate(lineNo, ops, 1)
		if err != nil {
			return out, err
		}
		if csr < 0 || csr > 9 {
			return out, &EncodeError{Line: lineNo, Reason: fmt.Sprintf("CSR index %d out of range [0, 9]", csr)}
		}
		spliceOpcode(&out, cpu.OpSystem)
		spliceTrits(&out, 3, 3, csr)
		spliceTrits(&out, 6, 3, int64(mnemonicToSystemFunc[inst.Mnemonic]))
		spliceRegister(&out, 9, rs1)
		return out, nil

	default:
		return out, &ParserError{Line: lineNo, Reason: fmt.Sprintf("unrecognised mnemonic %q", inst.Mnemonic)}
	}
}

// resolveOperandOffset reads operand i as either a literal number or a
// label reference, resolving the latter through resolveLabel.
func resolveOperandOffset(lineNo int, ops []Operand, i int, resolveLabel func(string) (int64, error)) (int64, error) {
	if i >= len(ops) {
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("operand %d: expected a number or label", i+1)}
	}
	switch ops[i].Kind {
	case OperandNumber:
		return ops[i].Number, nil
	case OperandLabelRef:
		return resolveLabel(ops[i].LabelName)
	default:
		return 0, &ParserError{Line: lineNo, Reason: fmt.Sprintf("operand %d: expected a number or label", i+1)}
	}
}

// TritsToTrytes packs 12 trits (as Decode reads them, low trit first) into
// the 4 trytes a binary image record carries.
func TritsToTrytes(trits [12]trit.Trit) [4]trit.Tryte {
	var out [4]trit.Tryte
	for i := 0; i < 4; i++ {
		out[i] = trit.TryteFromTrits([trit.TryteTrits]trit.Trit{trits[i*3], trits[i*3+1], trits[i*3+2]})
	}
	return out
}
