package cpu

import (
	"fmt"

	"github.com/prismchrono/prismchrono/alu"
	"github.com/prismchrono/prismchrono/memory"
	"github.com/prismchrono/prismchrono/trit"
)

// Chip is a complete PrismChrono processor: register/privilege state plus
// the memory it fetches and operates on. It owns both, per §5's "shared
// resources: the memory and register file are owned by the CPU instance."
type Chip struct {
	state  ProcessorState
	mem    *memory.Memory
	halted bool

	InstrCount uint64
	ReadCount  uint64
	WriteCount uint64
}

// ChipDef configures a new Chip. Mem must be non-nil; the chip does not own
// its lifecycle beyond reading and writing it.
type ChipDef struct {
	Mem *memory.Memory
}

// Init creates a Chip in its post-reset state, per §3's lifecycle: PC and
// every CSR zeroed, privilege Machine, every GPR Undefined.
func Init(def *ChipDef) (*Chip, error) {
	if def.Mem == nil {
		return nil, &InvalidCPUState{Reason: "ChipDef.Mem is nil"}
	}
	return &Chip{state: Reset(), mem: def.Mem}, nil
}

// Reset restores the chip to its post-reset state without touching memory.
func (c *Chip) Reset() {
	c.state = Reset()
	c.halted = false
}

// State returns a copy of the processor state, for observers (tests,
// debuggers) per §5's "observers see a consistent state at step boundaries."
func (c *Chip) State() ProcessorState { return c.state }

// Halted reports whether HALT has executed.
func (c *Chip) Halted() bool { return c.halted }

// fetch reads and trit-decomposes the 4 trytes at addr.
func (c *Chip) fetch(addr int) ([12]trit.Trit, error) {
	var trits [12]trit.Trit
	for i := 0; i < 4; i++ {
		tr, err := c.mem.ReadTryte(addr + i)
		if err != nil {
			return trits, err
		}
		tt := tr.ToTrits()
		trits[i*3], trits[i*3+1], trits[i*3+2] = tt[0], tt[1], tt[2]
	}
	return trits, nil
}

// Step executes exactly one instruction: fetch, decode, execute, then the
// fixed writeback/PC/counter ordering of §5.
func (c *Chip) Step() error {
	if c.halted {
		return &HaltedError{}
	}

	pcAddr, ok := c.state.PC.ToInt()
	if !ok || pcAddr < 0 {
		return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
	}
	if int(pcAddr)%memory.InstrAlignment != 0 {
		return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
	}

	trits, err := c.fetch(int(pcAddr))
	if err != nil {
		return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
	}

	inst, err := Decode(trits)
	if err != nil {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}

	controlFlow, err := c.execute(inst)
	if err != nil {
		return err
	}

	if !controlFlow {
		four, _ := trit.WordFromInt(4)
		next, _, _ := alu.AddWord(c.state.PC, four, trit.Z)
		c.state.PC = next
	}
	c.InstrCount++
	return nil
}

// execute dispatches inst by Kind. It returns controlFlow=true when PC was
// already updated (branch taken, jump, trap, MRET/SRET) so Step must not
// also apply the default +4.
func (c *Chip) execute(inst Instruction) (controlFlow bool, err error) {
	switch inst.Kind {
	case KindAluReg:
		return false, c.execAluReg(inst)
	case KindAluImm:
		return false, c.execAluImm(inst)
	case KindLoad:
		return false, c.execLoad(inst)
	case KindStore:
		return false, c.execStore(inst)
	case KindBranch:
		return c.execBranch(inst)
	case KindJump:
		return true, c.execJumpOrCall(inst, false)
	case KindCall:
		return true, c.execJumpOrCall(inst, true)
	case KindJalr:
		return true, c.execJalr(inst)
	case KindLui:
		return false, c.execLui(inst)
	case KindAuipc:
		return false, c.execAuipc(inst)
	case KindSystem:
		return c.execSystem(inst)
	case KindCsrrw:
		return false, c.execCsrrw(inst)
	case KindCsrrs:
		return false, c.execCsrrs(inst)
	default:
		return false, c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
}

// DivisionByZeroError reports a Div/Mod ALU op whose divisor was zero. The
// execute layer turns this into an IllegalInstr trap per §7's implementer
// choice, rather than letting the ALU's legacy silent-zero behavior reach
// architectural state unnoticed (see the division-by-zero open question).
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string { return "cpu: division or modulo by zero" }

// aluCompute applies op to (a, b) and reports the resulting flags. The
// unary TritInv ignores b; the reserved ops (Compare3, Abs, Signum,
// ExtractTryte, InsertTryte) have no case here and return an InvalidAluOp
// error.
func aluCompute(op AluOp, a, b trit.Word) (trit.Word, alu.Flags, error) {
	switch op {
	case AluAdd:
		r, _, f := alu.AddWord(a, b, trit.Z)
		return r, f, nil
	case AluSub:
		r, _, f := alu.SubWord(a, b, trit.Z)
		return r, f, nil
	case AluMul:
		r, f := alu.MulWord(a, b)
		return r, f, nil
	case AluDiv:
		if !a.HasSpecial() && !b.HasSpecial() && b.IsZero() {
			return trit.Word{}, alu.Flags{}, &DivisionByZeroError{}
		}
		r, f := alu.DivWord(a, b)
		return r, f, nil
	case AluMod:
		if !a.HasSpecial() && !b.HasSpecial() && b.IsZero() {
			return trit.Word{}, alu.Flags{}, &DivisionByZeroError{}
		}
		r, f := alu.ModWord(a, b)
		return r, f, nil
	case AluTritInv:
		r := alu.InvWord(a)
		return r, flagsFor(r, a.HasSpecial()), nil
	case AluTritMin:
		r := alu.MinWord(a, b)
		return r, flagsFor(r, a.HasSpecial() || b.HasSpecial()), nil
	case AluTritMax:
		r := alu.MaxWord(a, b)
		return r, flagsFor(r, a.HasSpecial() || b.HasSpecial()), nil
	case AluAnd:
		r := alu.AndWord(a, b)
		return r, flagsFor(r, a.HasSpecial() || b.HasSpecial()), nil
	case AluOr:
		r := alu.OrWord(a, b)
		return r, flagsFor(r, a.HasSpecial() || b.HasSpecial()), nil
	case AluXor:
		r := alu.XorWord(a, b)
		return r, flagsFor(r, a.HasSpecial() || b.HasSpecial()), nil
	case AluShl:
		r := alu.ShlWord(a, b)
		return r, flagsFor(r, a.HasSpecial()), nil
	case AluShr:
		r := alu.ShrWord(a, b)
		return r, flagsFor(r, a.HasSpecial()), nil
	case AluCmp:
		return a, alu.CompareWord(a, b), nil
	case AluIsSpecial:
		r := boolWord(a.HasSpecialKind(specialKindFor(b)))
		return r, flagsFor(r, false), nil
	case AluForceSpecial:
		r := forceSpecialWord(specialKindFor(b))
		return r, flagsFor(r, true), nil
	default:
		return trit.Word{}, alu.Flags{}, &DecodeError{InvalidAluOp, fmt.Sprintf("ALU op %s is reserved and unimplemented", op)}
	}
}

// specialKindFor reads b's sign the way an ALUI immediate reads its operand:
// N selects Undefined, Z selects Null, P selects NaN. A non-digit top trit
// (the selector operand itself being special) falls back to Null.
func specialKindFor(b trit.Word) trit.TryteKind {
	switch {
	case b[trit.WordTrytes-1].Kind != trit.Digit:
		return trit.Null
	case b.IsNegative():
		return trit.Undefined
	case b.IsZero():
		return trit.Null
	default:
		return trit.NaN
	}
}

// boolWord renders a ternary-logic boolean as an all-P (true) or all-N
// (false) word, the convention ISSPECIAL's result follows.
func boolWord(v bool) trit.Word {
	value := -13
	if v {
		value = 13
	}
	var w trit.Word
	for i := range w {
		w[i], _ = trit.DigitTryteFromValue(value)
	}
	return w
}

// forceSpecialWord returns a word whose every tryte carries kind.
func forceSpecialWord(kind trit.TryteKind) trit.Word {
	var w trit.Word
	for i := range w {
		switch kind {
		case trit.Undefined:
			w[i] = trit.UndefinedTryte()
		case trit.Null:
			w[i] = trit.NullTryte()
		default:
			w[i] = trit.NaNTryte()
		}
	}
	return w
}

func flagsFor(result trit.Word, hasSpecial bool) alu.Flags {
	return alu.Flags{ZF: result.IsZero() && !hasSpecial, SF: result.IsNegative(), XF: hasSpecial}
}

func (c *Chip) execAluReg(inst Instruction) error {
	a, b := c.state.ReadGPR(inst.Rs1), c.state.ReadGPR(inst.Rs2)
	result, flags, err := aluCompute(inst.Op, a, b)
	if err != nil {
		return c.trapForExecuteError(err)
	}
	c.state.Flags = flags
	if inst.Op != AluCmp {
		c.writeGPRSkippingR0(inst.Rd, result)
	}
	return nil
}

func (c *Chip) execAluImm(inst Instruction) error {
	a := c.state.ReadGPR(inst.Rs1)
	imm, ok := trit.WordFromInt(inst.Imm)
	if !ok {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	result, flags, err := aluCompute(inst.Op, a, imm)
	if err != nil {
		return c.trapForExecuteError(err)
	}
	c.state.Flags = flags
	if inst.Op != AluCmp {
		c.writeGPRSkippingR0(inst.Rd, result)
	}
	return nil
}

// trapForExecuteError converts an ALU-layer execute error (division by
// zero, a reserved/unimplemented ALU op) into an IllegalInstr trap.
func (c *Chip) trapForExecuteError(err error) error {
	return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
}

// writeGPRSkippingR0 applies the R0-write-skip convention of §4.3: writes
// targeting R0 are dropped by the dispatcher, not the register file.
func (c *Chip) writeGPRSkippingR0(r Register, v trit.Word) {
	if r == R0 {
		return
	}
	c.state.WriteGPR(r, v)
}

// effectiveAddress computes rs1 + sign-extended offset and returns it as an
// int, or an error if it doesn't fit in a plain address.
func (c *Chip) effectiveAddress(base Register, offset int64) (int, error) {
	baseWord := c.state.ReadGPR(base)
	offWord, ok := trit.WordFromInt(offset)
	if !ok {
		return 0, &InvalidCPUState{Reason: "offset out of word range"}
	}
	sum, _, _ := alu.AddWord(baseWord, offWord, trit.Z)
	n, ok := sum.ToInt()
	if !ok {
		return 0, &memory.OutOfBoundsError{Addr: -1, Capacity: c.mem.Capacity()}
	}
	return int(n), nil
}

func (c *Chip) execLoad(inst Instruction) error {
	addr, err := c.effectiveAddress(inst.Rs1, inst.Imm)
	if err != nil {
		return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
	}
	c.ReadCount++

	if inst.Word {
		w, err := c.mem.ReadWord(addr)
		if err != nil {
			return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
		}
		c.writeGPRSkippingR0(inst.Rd, w)
		return nil
	}

	tr, err := c.mem.ReadTryte(addr)
	if err != nil {
		return c.raiseTrap(LoadFault, c.state.CurrentPrivilege)
	}
	var result trit.Word
	result[0] = tr
	fill := trit.DigitTryte(trit.ZeroDigit)
	if inst.Signed && tr.Kind == trit.Digit {
		tt := tr.ToTrits()
		if tt[2] == trit.N {
			fill = trit.DigitTryte(0) // Digit(0) = value -13, all-N fill tryte
		}
	}
	for i := 1; i < trit.WordTrytes; i++ {
		result[i] = fill
	}
	c.writeGPRSkippingR0(inst.Rd, result)
	return nil
}

func (c *Chip) execStore(inst Instruction) error {
	addr, err := c.effectiveAddress(inst.Rs2, inst.Imm)
	if err != nil {
		return c.raiseTrap(StoreFault, c.state.CurrentPrivilege)
	}
	c.WriteCount++

	value := c.state.ReadGPR(inst.Rs2)
	if inst.Word {
		if err := c.mem.WriteWord(addr, value); err != nil {
			return c.raiseTrap(StoreFault, c.state.CurrentPrivilege)
		}
		return nil
	}
	if err := c.mem.WriteTryte(addr, value[0]); err != nil {
		return c.raiseTrap(StoreFault, c.state.CurrentPrivilege)
	}
	return nil
}

func (c *Chip) evalCondition(cond Condition, flags alu.Flags) bool {
	switch cond {
	case CondEq:
		return flags.ZF
	case CondNe:
		return !flags.ZF
	case CondLt:
		return flags.SF != flags.OF
	case CondGe:
		return flags.SF == flags.OF
	case CondLtu:
		return flags.CF
	case CondGeu:
		return !flags.CF
	case CondSpecial:
		return flags.XF
	case CondAlways:
		return true
	default:
		return false
	}
}

// execBranch handles both branch forms. The standard 12-trit form (§4.4's
// B-format: opcode/cond/rs2/rs1) carries no offset field at all — only the
// comparison operands — so it behaves as a skip: taken means "execute the
// instruction after the next one", i.e. PC+8 instead of PC+4. The compact
// 8-trit form carries a real signed, instruction-relative offset (stored
// unscaled in Imm by DecodeCompact and multiplied by 4 here) and jumps that
// far from the branch's own PC when taken.
func (c *Chip) execBranch(inst Instruction) (bool, error) {
	flags := c.state.Flags
	if inst.SelfCompare {
		a, b := c.state.ReadGPR(inst.Rs1), c.state.ReadGPR(inst.Rs2)
		flags = alu.CompareWord(a, b)
		c.state.Flags = flags
	}

	taken := c.evalCondition(inst.Cond, flags)
	four, _ := trit.WordFromInt(4)

	var delta trit.Word
	switch {
	case inst.SelfCompare && taken:
		eight, _ := trit.WordFromInt(8)
		delta = eight
	case inst.SelfCompare && !taken:
		delta = four
	default:
		offsetWord, ok := trit.WordFromInt(inst.Imm)
		if !ok {
			return true, c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
		}
		if taken {
			delta, _ = alu.MulWord(offsetWord, four)
		} else {
			delta = four
		}
	}
	next, _, _ := alu.AddWord(c.state.PC, delta, trit.Z)
	c.state.PC = next
	return true, nil
}

func (c *Chip) execJumpOrCall(inst Instruction, isCall bool) error {
	four, _ := trit.WordFromInt(4)
	link, _, _ := alu.AddWord(c.state.PC, four, trit.Z)

	offsetWord, ok := trit.WordFromInt(inst.Imm)
	if !ok {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	scaled, _ := alu.MulWord(offsetWord, four)
	// Offset is relative to the next instruction, matching pass 2's
	// (target - (cursor + 4)) / 4 encoding, so the base here is link
	// (PC+4), not PC.
	target, _, _ := alu.AddWord(link, scaled, trit.Z)

	if isCall {
		if err := c.pushWord(link); err != nil {
			return c.raiseTrap(StoreFault, c.state.CurrentPrivilege)
		}
	}

	c.writeGPRSkippingR0(inst.Rd, link)
	c.state.PC = target
	return nil
}

// pushWord decrements SP by one word and stores v there, giving CALL a
// genuine return-address stack distinct from JUMP's plain link-register
// behavior.
func (c *Chip) pushWord(v trit.Word) error {
	eight, _ := trit.WordFromInt(8)
	newSP, _, _ := alu.SubWord(c.state.SP, eight, trit.Z)
	c.state.SP = newSP
	addr, ok := newSP.ToInt()
	if !ok {
		return &InvalidCPUState{Reason: "stack pointer out of range"}
	}
	return c.mem.WriteWord(int(addr), v)
}

func (c *Chip) execJalr(inst Instruction) error {
	offWord, ok := trit.WordFromInt(inst.Imm)
	if !ok {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	base := c.state.ReadGPR(inst.Rs1)
	target, _, _ := alu.AddWord(base, offWord, trit.Z)
	// Clear the low trit to enforce alignment, per §4.7.
	tt := target[0].ToTrits()
	tt[0] = trit.Z
	target[0] = trit.TryteFromTrits(tt)

	four, _ := trit.WordFromInt(4)
	link, _, _ := alu.AddWord(c.state.PC, four, trit.Z)
	c.writeGPRSkippingR0(inst.Rd, link)
	c.state.PC = target
	return nil
}

func (c *Chip) execLui(inst Instruction) error {
	imm, ok := trit.WordFromInt(inst.Imm)
	if !ok {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	result := upperShift(imm)
	c.writeGPRSkippingR0(inst.Rd, result)
	return nil
}

func (c *Chip) execAuipc(inst Instruction) error {
	imm, ok := trit.WordFromInt(inst.Imm)
	if !ok {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	shifted := upperShift(imm)
	result, _, _ := alu.AddWord(c.state.PC, shifted, trit.Z)
	c.writeGPRSkippingR0(inst.Rd, result)
	return nil
}

// upperShift moves a 6-trit signed immediate into the upper two trytes of a
// word (trytes 6 and 7), zeroing the rest, per LUI/AUIPC's field width.
func upperShift(imm trit.Word) trit.Word {
	var result trit.Word
	for i := 0; i < trit.WordTrytes; i++ {
		result[i] = trit.DigitTryte(trit.ZeroDigit)
	}
	result[6] = imm[0]
	result[7] = imm[1]
	return result
}

func (c *Chip) execSystem(inst Instruction) (bool, error) {
	switch inst.Sys {
	case SysNop:
		return false, nil
	case SysHalt:
		c.halted = true
		return false, &HaltedError{}
	case SysEcall:
		var cause TrapCause
		switch c.state.CurrentPrivilege {
		case User:
			cause = EcallU
		case Supervisor:
			cause = EcallS
		default:
			cause = EcallM
		}
		return true, c.raiseTrap(cause, c.state.CurrentPrivilege)
	case SysEbreak:
		return true, c.raiseTrap(BreakPoint, c.state.CurrentPrivilege)
	case SysMret:
		if err := c.mret(); err != nil {
			return true, err
		}
		return true, nil
	case SysSret:
		if err := c.sret(); err != nil {
			return true, err
		}
		return true, nil
	default:
		return true, c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
}

func (c *Chip) execCsrrw(inst Instruction) error {
	old, err := c.state.ReadCSR(inst.CSR)
	if err != nil {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	if err := c.state.WriteCSR(inst.CSR, c.state.ReadGPR(inst.Rs1)); err != nil {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	c.writeGPRSkippingR0(inst.Rd, old)
	return nil
}

func (c *Chip) execCsrrs(inst Instruction) error {
	old, err := c.state.ReadCSR(inst.CSR)
	if err != nil {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	set := alu.OrWord(old, c.state.ReadGPR(inst.Rs1))
	if err := c.state.WriteCSR(inst.CSR, set); err != nil {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	c.writeGPRSkippingR0(inst.Rd, old)
	return nil
}
