package asm

import (
	"testing"

	"github.com/prismchrono/prismchrono/cpu"
	"github.com/prismchrono/prismchrono/memory"
	"github.com/prismchrono/prismchrono/trit"
)

func decodeRecord(t *testing.T, rec memory.ImageRecord) cpu.Instruction {
	t.Helper()
	if len(rec.Trytes) != 4 {
		t.Fatalf("record at %d has %d trytes, want 4", rec.Addr, len(rec.Trytes))
	}
	var trits [12]trit.Trit
	for i, tr := range rec.Trytes {
		tt := tr.ToTrits()
		trits[i*3], trits[i*3+1], trits[i*3+2] = tt[0], tt[1], tt[2]
	}
	inst, err := cpu.Decode(trits)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return inst
}

// TestAssembleAddiRoundTrip covers §8 scenario 5: assembling ADDI R3, R1, 5
// must decode back to opcode ALUI, rd=R3, rs1=R1, imm=+5.
func TestAssembleAddiRoundTrip(t *testing.T) {
	records, err := Assemble("ADDI R3, R1, 5\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	inst := decodeRecord(t, records[0])
	if inst.Kind != cpu.KindAluImm {
		t.Fatalf("got Kind %v, want KindAluImm", inst.Kind)
	}
	if inst.Rd != cpu.R3 {
		t.Errorf("rd = %v, want R3", inst.Rd)
	}
	if inst.Rs1 != cpu.R1 {
		t.Errorf("rs1 = %v, want R1", inst.Rs1)
	}
	if inst.Imm != 5 {
		t.Errorf("imm = %d, want 5", inst.Imm)
	}
}

// TestAssembleLabelResolution covers §8 scenario 6: a JAL to a later label
// two instructions away must resolve to offset +1.
func TestAssembleLabelResolution(t *testing.T) {
	src := "start: JAL R7, end\n       NOP\nend:   HALT\n"
	records, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Addr != 0 || records[1].Addr != 4 || records[2].Addr != 8 {
		t.Fatalf("unexpected addresses: %+v", records)
	}

	jal := decodeRecord(t, records[0])
	if jal.Kind != cpu.KindJump {
		t.Fatalf("got Kind %v, want KindJump", jal.Kind)
	}
	if jal.Imm != 1 {
		t.Errorf("JAL offset = %d, want 1", jal.Imm)
	}
	if jal.Rd != cpu.R7 {
		t.Errorf("JAL rd = %v, want R7", jal.Rd)
	}

	halt := decodeRecord(t, records[2])
	if halt.Kind != cpu.KindSystem || halt.Sys != cpu.SysHalt {
		t.Fatalf("got %+v, want HALT", halt)
	}
}

func TestAssembleUndefinedLabelFails(t *testing.T) {
	_, err := Assemble("JAL R7, nowhere\n")
	if err == nil {
		t.Fatal("expected a Pass2Error for an undefined label")
	}
	if _, ok := err.(*Pass2Error); !ok {
		t.Fatalf("got %T, want *Pass2Error", err)
	}
}

func TestAssembleDuplicateLabelFails(t *testing.T) {
	_, err := Assemble("a: NOP\na: NOP\n")
	if err == nil {
		t.Fatal("expected a Pass1Error for a duplicate label")
	}
	if _, ok := err.(*Pass1Error); !ok {
		t.Fatalf("got %T, want *Pass1Error", err)
	}
}

func TestAssembleDirectives(t *testing.T) {
	records, err := Assemble(".org 16\n.tryte 7\n.align 8\n.word -1000\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if records[0].Addr != 16 || len(records[0].Trytes) != 1 {
		t.Fatalf("tryte record: %+v", records[0])
	}
	if records[1].Addr != 24 || len(records[1].Trytes) != trit.WordTrytes {
		t.Fatalf("word record: %+v", records[1])
	}
	w := trit.Word(records[1].Trytes[0:trit.WordTrytes])
	n, ok := w.ToInt()
	if !ok || n != -1000 {
		t.Errorf("word value = %d (ok=%v), want -1000", n, ok)
	}
}

func TestAssembleOutOfRangeImmediateFails(t *testing.T) {
	_, err := Assemble("ADDI R1, R2, 100\n")
	if err == nil {
		t.Fatal("expected an EncodeError for an out-of-range ADDI immediate")
	}
	if _, ok := err.(*EncodeError); !ok {
		t.Fatalf("got %T, want *EncodeError", err)
	}
}

func TestAssembleSpecialStateOpsRoundTrip(t *testing.T) {
	records, err := Assemble("ISSPECIAL R1, R2\nSETSPECIAL R3, R4\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	is := decodeRecord(t, records[0])
	if is.Kind != cpu.KindAluReg || is.Op != cpu.AluIsSpecial || is.Rs1 != cpu.R1 || is.Rs2 != cpu.R2 {
		t.Fatalf("got %+v", is)
	}
	set := decodeRecord(t, records[1])
	if set.Kind != cpu.KindAluReg || set.Op != cpu.AluForceSpecial || set.Rs1 != cpu.R3 || set.Rs2 != cpu.R4 {
		t.Fatalf("got %+v", set)
	}
}

// TestAssembleBranchToLabelComposition covers the documented "negate and
// skip a JAL" composition SPEC_FULL.md resolves the B-format's missing
// offset field with: BRANCH NE skips the JAL when R1 != R2, so the JAL
// only executes (reaching target) when R1 == R2.
func TestAssembleBranchToLabelComposition(t *testing.T) {
	src := "BRANCH NE, R1, R2\nJAL R0, target\nother: NOP\ntarget: HALT\n"
	records, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}

	br := decodeRecord(t, records[0])
	if br.Kind != cpu.KindBranch || !br.SelfCompare || br.Cond != cpu.CondNe || br.Rs1 != cpu.R1 || br.Rs2 != cpu.R2 {
		t.Fatalf("got %+v", br)
	}

	jal := decodeRecord(t, records[1])
	if jal.Kind != cpu.KindJump || jal.Rd != cpu.R0 {
		t.Fatalf("got %+v", jal)
	}
	// records[1].Addr is 4 (right after BRANCH at 0); target is at 12, so
	// the JAL's offset must resolve to (12 - (4 + 4)) / 4 = 1.
	if jal.Imm != 1 {
		t.Errorf("JAL offset = %d, want 1", jal.Imm)
	}

	halt := decodeRecord(t, records[3])
	if halt.Kind != cpu.KindSystem || halt.Sys != cpu.SysHalt {
		t.Fatalf("got %+v, want HALT", halt)
	}
}

func TestAssembleStoreLoadRoundTrip(t *testing.T) {
	records, err := Assemble("STOREW R2, 8\nLOADT R3, -3\n")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	st := decodeRecord(t, records[0])
	if st.Kind != cpu.KindStore || !st.Word || st.Rs2 != cpu.R2 || st.Imm != 8 {
		t.Fatalf("got %+v", st)
	}
	ld := decodeRecord(t, records[1])
	if ld.Kind != cpu.KindLoad || ld.Word || !ld.Signed || ld.Rs1 != cpu.R3 || ld.Imm != -3 {
		t.Fatalf("got %+v", ld)
	}
}
