// Package cpu implements the PrismChrono processor: the register file and
// privilege/CSR state, the 12-trit instruction decoder, and the
// fetch-decode-execute loop that drives them against a memory.Memory.
package cpu

import (
	"fmt"

	"github.com/prismchrono/prismchrono/alu"
	"github.com/prismchrono/prismchrono/trit"
)

// Flags is the processor's condition-code register. It is exactly the set
// of flags an alu operation produces, so execute simply copies an alu
// result's Flags into the processor state rather than re-deriving them.
type Flags = alu.Flags

// Register names one of the eight general-purpose registers.
type Register uint8

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	numRegisters
)

func (r Register) String() string {
	if r >= numRegisters {
		return fmt.Sprintf("Register(%d)", uint8(r))
	}
	return fmt.Sprintf("R%d", uint8(r))
}

// registerTrits maps each Register to the two-trit (t0, t1) encoding from
// the instruction format tables: value = t0 + 3*t1 runs -4..-1, 0..2, 4 for
// R0..R7, skipping the unused (Z,P) combination (value 3). This must stay
// the exact inverse of DecodeRegister's switch below.
var registerTrits = [numRegisters][2]trit.Trit{
	R0: {trit.N, trit.N},
	R1: {trit.Z, trit.N},
	R2: {trit.P, trit.N},
	R3: {trit.N, trit.Z},
	R4: {trit.Z, trit.Z},
	R5: {trit.P, trit.Z},
	R6: {trit.N, trit.P},
	R7: {trit.P, trit.P},
}

// EncodeRegister returns the two-trit field for r.
func EncodeRegister(r Register) [2]trit.Trit {
	return registerTrits[r]
}

// DecodeRegister recovers a Register from its two-trit field. The third
// (high) trit of a three-trit register slot is required to be Z by the
// caller; DecodeRegister only looks at the low two trits per the §4.5
// mapping table. ok is false for the one combination ((Z,P), value +3)
// that the table leaves unassigned.
func DecodeRegister(t0, t1 trit.Trit) (Register, bool) {
	value := t0.Value() + 3*t1.Value()
	switch value {
	case -4:
		return R0, true
	case -3:
		return R1, true
	case -2:
		return R2, true
	case -1:
		return R3, true
	case 0:
		return R4, true
	case 1:
		return R5, true
	case 2:
		return R6, true
	case 4:
		return R7, true
	default:
		return 0, false
	}
}

// Privilege is the processor's current protection ring.
type Privilege uint8

const (
	User Privilege = iota
	Supervisor
	Machine
)

func (p Privilege) String() string {
	switch p {
	case User:
		return "User"
	case Supervisor:
		return "Supervisor"
	case Machine:
		return "Machine"
	default:
		return fmt.Sprintf("Privilege(%d)", uint8(p))
	}
}

// decodePrivilege reads the two-trit privilege field per §4.3:
// (Z,Z)=User, (Z,P)=Supervisor, (P,Z)=Machine. Any other pair defaults to
// User, matching the original implementation's defensive fallback.
func decodePrivilege(t0, t1 trit.Trit) Privilege {
	switch {
	case t0 == trit.Z && t1 == trit.Z:
		return User
	case t0 == trit.Z && t1 == trit.P:
		return Supervisor
	case t0 == trit.P && t1 == trit.Z:
		return Machine
	default:
		return User
	}
}

// encodePrivilege is the inverse of decodePrivilege.
func encodePrivilege(p Privilege) (t0, t1 trit.Trit) {
	switch p {
	case User:
		return trit.Z, trit.Z
	case Supervisor:
		return trit.Z, trit.P
	case Machine:
		return trit.P, trit.Z
	default:
		return trit.Z, trit.Z
	}
}

// TrapCause enumerates the exceptional control transfers the processor can
// raise. Each has a stable code used when stamping mcause_t/scause_t.
type TrapCause uint8

const (
	EcallU TrapCause = iota
	EcallS
	EcallM
	IllegalInstr
	LoadFault
	StoreFault
	BreakPoint
)

func (c TrapCause) String() string {
	switch c {
	case EcallU:
		return "EcallU"
	case EcallS:
		return "EcallS"
	case EcallM:
		return "EcallM"
	case IllegalInstr:
		return "IllegalInstr"
	case LoadFault:
		return "LoadFault"
	case StoreFault:
		return "StoreFault"
	case BreakPoint:
		return "BreakPoint"
	default:
		return fmt.Sprintf("TrapCause(%d)", uint8(c))
	}
}

// CSRIndex indexes the ten control/status registers described in §4.3. A
// CSR's privilege gate is the CSR's semantic role, not an encoded field of
// the index itself: the delegation registers and the machine-status/trap
// registers require Machine to write, the supervisor set requires at least
// Supervisor.
type CSRIndex uint8

const (
	CSRMstatusT CSRIndex = iota
	CSRMtvecT
	CSRMepcT
	CSRMcauseT
	CSRSstatusT
	CSRStvecT
	CSRSepcT
	CSRScauseT
	CSRMedelegT
	CSRMidelegT
	numCSRs
)

func (c CSRIndex) String() string {
	names := [numCSRs]string{
		CSRMstatusT: "mstatus_t", CSRMtvecT: "mtvec_t", CSRMepcT: "mepc_t", CSRMcauseT: "mcause_t",
		CSRSstatusT: "sstatus_t", CSRStvecT: "stvec_t", CSRSepcT: "sepc_t", CSRScauseT: "scause_t",
		CSRMedelegT: "medeleg_t", CSRMidelegT: "mideleg_t",
	}
	if c >= numCSRs {
		return fmt.Sprintf("CSR(%d)", uint8(c))
	}
	return names[c]
}

// csrMinPrivilege gives the minimum current privilege required to access
// each CSR at all (read or write). No CSR is read-only, so there is no
// separate write-permission table.
func csrMinPrivilege(c CSRIndex) Privilege {
	switch c {
	case CSRMstatusT, CSRMtvecT, CSRMepcT, CSRMcauseT, CSRMedelegT, CSRMidelegT:
		return Machine
	case CSRSstatusT, CSRStvecT, CSRSepcT, CSRScauseT:
		return Supervisor
	default:
		return Machine
	}
}

// ProcessorState is all architecturally visible state: the GPRs, PC, SP,
// flags, current privilege and the ten CSRs. It carries no reference to
// memory; the owning Chip pairs it with a memory.Memory.
type ProcessorState struct {
	GPR   [numRegisters]trit.Word
	PC    trit.Word
	SP    trit.Word
	Flags Flags

	CurrentPrivilege Privilege
	csr              [numCSRs]trit.Word
}

// Reset puts the processor state into its power-on condition: PC and every
// CSR zeroed, privilege set to Machine, every GPR Undefined.
func Reset() ProcessorState {
	var s ProcessorState
	for i := range s.GPR {
		s.GPR[i] = trit.UndefinedWord()
	}
	s.PC = trit.ZeroWord()
	s.SP = trit.UndefinedWord()
	s.CurrentPrivilege = Machine
	for i := range s.csr {
		s.csr[i] = trit.ZeroWord()
	}
	return s
}

// ReadGPR returns the value of reg.
func (s *ProcessorState) ReadGPR(reg Register) trit.Word { return s.GPR[reg] }

// WriteGPR overwrites reg unconditionally. Callers implementing the
// skip-R0-writes convention check that themselves before calling this.
func (s *ProcessorState) WriteGPR(reg Register, v trit.Word) { s.GPR[reg] = v }

// CSRAccessError reports a check_csr_access failure: either the CSR's
// privilege requirement is not met, or a write targeted a read-only CSR.
type CSRAccessError struct {
	CSR     CSRIndex
	Writing bool
	Reason  string
}

func (e *CSRAccessError) Error() string {
	return fmt.Sprintf("cpu: CSR %s access denied: %s", e.CSR, e.Reason)
}

// checkCSRAccess implements §4.3's check_csr_access: the CSR's required
// privilege (csrMinPrivilege) must be at or below the current privilege.
// Since no CSR is read-only, writing only affects the error it reports;
// reads and writes pass or fail the same check.
func (s *ProcessorState) checkCSRAccess(csr CSRIndex, writing bool) error {
	if csr >= numCSRs {
		return &CSRAccessError{CSR: csr, Writing: writing, Reason: "no such CSR"}
	}
	if s.CurrentPrivilege < csrMinPrivilege(csr) {
		return &CSRAccessError{CSR: csr, Writing: writing, Reason: fmt.Sprintf("requires %s, current is %s", csrMinPrivilege(csr), s.CurrentPrivilege)}
	}
	return nil
}

// ReadCSR reads csr after a privilege check.
func (s *ProcessorState) ReadCSR(csr CSRIndex) (trit.Word, error) {
	if err := s.checkCSRAccess(csr, false); err != nil {
		return trit.Word{}, err
	}
	return s.csr[csr], nil
}

// WriteCSR writes v to csr after a privilege check.
func (s *ProcessorState) WriteCSR(csr CSRIndex, v trit.Word) error {
	if err := s.checkCSRAccess(csr, true); err != nil {
		return err
	}
	s.csr[csr] = v
	return nil
}

// rawCSR/setRawCSR bypass the privilege check for the trap machinery, which
// runs with the processor's own authority rather than the executing
// instruction's.
func (s *ProcessorState) rawCSR(csr CSRIndex) trit.Word    { return s.csr[csr] }
func (s *ProcessorState) setRawCSR(csr CSRIndex, v trit.Word) { s.csr[csr] = v }

// previousPrivilege/setPreviousPrivilege read/write the previous-privilege field in the low two
// trits of tryte 0 of mstatus_t/sstatus_t, per §4.3.
func (s *ProcessorState) previousPrivilege(status CSRIndex) Privilege {
	tt := s.rawCSR(status)[0].ToTrits()
	return decodePrivilege(tt[0], tt[1])
}

func (s *ProcessorState) setPreviousPrivilege(status CSRIndex, p Privilege) {
	w := s.rawCSR(status)
	t0, t1 := encodePrivilege(p)
	trits := w[0].ToTrits()
	trits[0], trits[1] = t0, t1
	w[0] = trit.TryteFromTrits(trits)
	s.setRawCSR(status, w)
}

// setTrapCause stamps cause's numeric code into tryte 0 of the given
// mcause_t/scause_t CSR.
func (s *ProcessorState) setTrapCause(causeCSR CSRIndex, cause TrapCause) {
	w := trit.ZeroWord()
	tr, ok := trit.DigitTryteFromValue(int(cause))
	if !ok {
		tr = trit.DigitTryte(trit.ZeroDigit)
	}
	w[0] = tr
	s.setRawCSR(causeCSR, w)
}
