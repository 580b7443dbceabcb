// Package disassemble renders a decoded PrismChrono instruction back to
// mnemonic text. It does not interpret control flow: a JAL encountered
// mid-stream disassembles as a JAL and the PC simply advances past it,
// exactly the way the teacher's non-following disassembler treats JMP.
package disassemble

import (
	"fmt"

	"github.com/prismchrono/prismchrono/cpu"
	"github.com/prismchrono/prismchrono/memory"
	"github.com/prismchrono/prismchrono/trit"
)

// aluMnemonics maps an AluOp to the assembler mnemonic that produces it in
// R-format, mirroring asm's mnemonicToAluOp table in reverse.
var aluMnemonics = map[cpu.AluOp]string{
	cpu.AluAdd: "ADD", cpu.AluSub: "SUB", cpu.AluMul: "MUL", cpu.AluDiv: "DIV",
	cpu.AluMod: "MOD", cpu.AluTritInv: "TRITINV", cpu.AluTritMin: "TRITMIN",
	cpu.AluTritMax: "TRITMAX", cpu.AluAnd: "AND", cpu.AluOr: "OR", cpu.AluXor: "XOR",
	cpu.AluShl: "SHL", cpu.AluShr: "SHR", cpu.AluCmp: "CMP",
	cpu.AluIsSpecial: "ISSPECIAL", cpu.AluForceSpecial: "SETSPECIAL",
}

var conditionMnemonics = map[cpu.Condition]string{
	cpu.CondEq: "EQ", cpu.CondNe: "NE", cpu.CondLt: "LT", cpu.CondGe: "GE",
	cpu.CondLtu: "LTU", cpu.CondGeu: "GEU", cpu.CondSpecial: "SPECIAL", cpu.CondAlways: "ALWAYS",
}

// Step disassembles the instruction at addr, returning its mnemonic text
// and the tryte count (always 4) the PC should advance to reach the next
// instruction. addr must be instruction-aligned and have at least 4 trytes
// of memory behind it; a fetch or decode failure renders as a "???" line
// rather than returning an error, so a caller can keep walking a dump even
// across data regions or corrupt words.
func Step(addr int, mem *memory.Memory) (string, int) {
	var trits [12]trit.Trit
	for i := 0; i < 4; i++ {
		tr, err := mem.ReadTryte(addr + i)
		if err != nil {
			return fmt.Sprintf("%04X ???            <%v>", addr, err), 4
		}
		tt := tr.ToTrits()
		trits[i*3], trits[i*3+1], trits[i*3+2] = tt[0], tt[1], tt[2]
	}

	inst, err := cpu.Decode(trits)
	if err != nil {
		return fmt.Sprintf("%04X ???            <%v>", addr, err), 4
	}
	return fmt.Sprintf("%04X %s", addr, render(inst)), 4
}

// render formats a decoded instruction as assembler-style mnemonic text.
func render(inst cpu.Instruction) string {
	switch inst.Kind {
	case cpu.KindAluReg:
		return fmt.Sprintf("%-8s%s, %s", aluMnemonics[inst.Op], inst.Rs1, inst.Rs2)
	case cpu.KindAluImm:
		return fmt.Sprintf("ADDI    %s, %s, %d", inst.Rd, inst.Rs1, inst.Imm)
	case cpu.KindLoad:
		name := "LOADT"
		if inst.Word {
			name = "LOADW"
		} else if !inst.Signed {
			name = "LOADTU"
		}
		return fmt.Sprintf("%-8s%s, %d", name, inst.Rs1, inst.Imm)
	case cpu.KindStore:
		name := "STORET"
		if inst.Word {
			name = "STOREW"
		}
		return fmt.Sprintf("%-8s%s, %d", name, inst.Rs2, inst.Imm)
	case cpu.KindBranch:
		if inst.SelfCompare {
			return fmt.Sprintf("BRANCH  %s, %s, %s", conditionMnemonics[inst.Cond], inst.Rs1, inst.Rs2)
		}
		return fmt.Sprintf("CBRANCH %s, %d", conditionMnemonics[inst.Cond], inst.Imm)
	case cpu.KindJump:
		return fmt.Sprintf("JAL     %s, %d", inst.Rd, inst.Imm)
	case cpu.KindCall:
		return fmt.Sprintf("CALL    %s, %d", inst.Rd, inst.Imm)
	case cpu.KindJalr:
		return fmt.Sprintf("JALR    %s, %d", inst.Rs1, inst.Imm)
	case cpu.KindLui:
		return fmt.Sprintf("LUI     %s, %d", inst.Rd, inst.Imm)
	case cpu.KindAuipc:
		return fmt.Sprintf("AUIPC   %s, %d", inst.Rd, inst.Imm)
	case cpu.KindSystem:
		return inst.Sys.String()
	case cpu.KindCsrrw:
		return fmt.Sprintf("CSRRW_T %s, %d", inst.Rs1, inst.CSR)
	case cpu.KindCsrrs:
		return fmt.Sprintf("CSRRS_T %s, %d", inst.Rs1, inst.CSR)
	default:
		return "???"
	}
}
