package asm

// LineKind tags the variant held by a SourceLine.
type LineKind uint8

const (
	LineEmpty LineKind = iota
	LineLabel
	LineDirective
	LineInstruction
)

// SourceLine is one parsed logical line: a line number plus whichever of
// label/directive/instruction it held. A line may carry a LabelDef
// attached to a Directive or Instruction on the same line (e.g.
// "loop: ADD R1, R2"); Label then holds that name as well. Kind is
// LineLabel only for a line that was nothing but a label.
type SourceLine struct {
	LineNo int
	Kind   LineKind

	Label string // for LineLabel, and optionally prefixing Directive/Instruction

	Directive Directive
	Instr     Instruction
}

// Directive is a parsed `.name operand[, operand...]` construct.
type Directive struct {
	Name string // "org", "align", "tryte", or "word"
	Args []Operand
}

// OperandKind tags what an Operand holds.
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandNumber
	OperandLabelRef
	OperandCondition
)

// Operand is one operand of an instruction or directive: a register
// index, a literal number, a label reference to resolve in pass 2, or a
// branch-condition name.
type Operand struct {
	Kind      OperandKind
	Register  int
	Number    int64
	LabelName string
	Condition string
}

// Instruction is a parsed (not yet encoded) instruction line: a mnemonic
// plus its raw operand list. The encoder (encode.go) interprets Operands
// against Mnemonic's expected shape.
type Instruction struct {
	Mnemonic string
	Operands []Operand
}
