package cpu

import "github.com/prismchrono/prismchrono/trit"

// raiseTrap implements §4.8's delegation algorithm: consult medeleg_t's
// trit for cause, and take the Supervisor path when it is P and the
// privilege the trap arose in is at most Supervisor; otherwise take the
// Machine path. It always returns a non-nil error describing what
// happened, for Step to propagate.
func (c *Chip) raiseTrap(cause TrapCause, arisingIn Privilege) error {
	delegated := c.delegationTrit(CSRMedelegT, cause) == trit.P && arisingIn <= Supervisor

	if delegated {
		c.state.setRawCSR(CSRSepcT, c.state.PC)
		c.state.setTrapCause(CSRScauseT, cause)
		c.state.setPreviousPrivilege(CSRSstatusT, arisingIn)
		c.state.CurrentPrivilege = Supervisor
		c.state.PC = c.state.rawCSR(CSRStvecT)
	} else {
		c.state.setRawCSR(CSRMepcT, c.state.PC)
		c.state.setTrapCause(CSRMcauseT, cause)
		c.state.setPreviousPrivilege(CSRMstatusT, arisingIn)
		c.state.CurrentPrivilege = Machine
		c.state.PC = c.state.rawCSR(CSRMtvecT)
	}

	return &TrapError{Cause: cause, Delegated: delegated}
}

// delegationTrit reads the trit of the delegation mask (medeleg_t or
// mideleg_t) corresponding to cause. Each cause occupies one trit position
// in tryte 0, low to high, by its numeric code; causes beyond tryte 0's
// three positions fall back to tryte 1 and so on, so today's seven causes
// occupy trytes 0 through 2.
func (c *Chip) delegationTrit(csr CSRIndex, cause TrapCause) trit.Trit {
	mask := c.state.rawCSR(csr)
	tryteIdx := int(cause) / trit.TryteTrits
	trits := mask[tryteIdx].ToTrits()
	return trits[int(cause)%trit.TryteTrits]
}

// mret implements MRET_T: legal only from Machine, restores privilege from
// mstatus_t.MPP and PC from mepc_t.
func (c *Chip) mret() error {
	if c.state.CurrentPrivilege != Machine {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	c.state.CurrentPrivilege = c.state.previousPrivilege(CSRMstatusT)
	c.state.PC = c.state.rawCSR(CSRMepcT)
	return nil
}

// sret implements SRET_T: legal from Machine or Supervisor, illegal from
// User. Restores privilege from sstatus_t.SPP and PC from sepc_t.
func (c *Chip) sret() error {
	if c.state.CurrentPrivilege == User {
		return c.raiseTrap(IllegalInstr, c.state.CurrentPrivilege)
	}
	c.state.CurrentPrivilege = c.state.previousPrivilege(CSRSstatusT)
	c.state.PC = c.state.rawCSR(CSRSepcT)
	return nil
}
