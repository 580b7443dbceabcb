package cpu

// InstructionKind tags the variant held by an Instruction. Go has no sum
// types, so Instruction carries every format's fields and execute reads
// only the ones Kind says are meaningful — the same free-function dispatch
// the design notes ask for instead of per-instruction vtables.
type InstructionKind uint8

const (
	KindAluReg InstructionKind = iota
	KindAluImm
	KindLoad
	KindStore
	KindBranch
	KindJump
	KindCall
	KindJalr
	KindLui
	KindAuipc
	KindSystem
	KindCsrrw
	KindCsrrs
)

// Instruction is a decoded, ready-to-execute instruction. Only the fields
// relevant to Kind are populated; the rest are zero value.
//
// The R/I/S formats carry only one or two register fields per §4.4, with no
// room for a separate destination register. This implementation makes that
// constraint explicit (per the §9 design note) by always naming the sole
// available field Rs1 (R/I format) or Rs2 (S format) and having execute
// write results back to that same register — it plays the rd role too.
// ALUI is the exception: it gives up half of its immediate to a genuine rd
// field (see decodeAluImm).
type Instruction struct {
	Kind InstructionKind

	Op   AluOp
	Cond Condition
	Sys  SystemFunc

	Rs1 Register
	Rs2 Register
	Rd  Register

	Imm    int64
	CSR    CSRIndex
	Signed bool // for loads: whether the tryte load sign-extends
	Word   bool // for loads/stores: whether this is a word (vs tryte) access

	// SelfCompare marks a Branch decoded from the standard 12-trit form,
	// which carries rs1/rs2 and performs its own comparison. A Branch
	// decoded from the compact 8-trit form has no registers and instead
	// reads whatever Flags a prior instruction already set.
	SelfCompare bool
}
