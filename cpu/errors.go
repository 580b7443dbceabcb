package cpu

import "fmt"

// HaltedError is returned by Step once the processor has executed HALT.
// It is terminal, not a trap: a caller observing it treats the run as
// gracefully finished, per §5's cancellation model.
type HaltedError struct{}

func (e *HaltedError) Error() string { return "cpu: halted" }

// TrapError reports that Step serviced a trap rather than retiring the
// instruction normally. Callers that want to observe traps (tests, a
// debugger) can type-assert for this; the simulator's main loop otherwise
// just keeps stepping, since trap handling already updated PC and
// privilege per §4.8.
type TrapError struct {
	Cause     TrapCause
	Delegated bool
}

func (e *TrapError) Error() string {
	return fmt.Sprintf("cpu: trap %s (delegated=%v)", e.Cause, e.Delegated)
}

// InvalidCPUState mirrors the teacher's namesake: a programming-error-level
// condition (a ChipDef without memory, an offset or stack pointer outside
// word range) rather than an architectural trap.
type InvalidCPUState struct {
	Reason string
}

func (e *InvalidCPUState) Error() string {
	return fmt.Sprintf("cpu: invalid state: %s", e.Reason)
}
