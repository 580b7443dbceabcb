package disassemble

import (
	"strings"
	"testing"

	"github.com/prismchrono/prismchrono/asm"
	"github.com/prismchrono/prismchrono/memory"
)

func assembleToMemory(t *testing.T, src string) *memory.Memory {
	t.Helper()
	records, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	m := memory.New(256)
	if err := m.LoadImage(records); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	return m
}

func TestStepRendersAluReg(t *testing.T) {
	m := assembleToMemory(t, "ADD R1, R2\n")
	line, size := Step(0, m)
	if size != 4 {
		t.Fatalf("size = %d, want 4", size)
	}
	if !strings.Contains(line, "ADD") || !strings.Contains(line, "R1") || !strings.Contains(line, "R2") {
		t.Fatalf("got %q", line)
	}
}

func TestStepRendersAddiAndHalt(t *testing.T) {
	m := assembleToMemory(t, "ADDI R3, R1, 5\nHALT\n")
	line0, _ := Step(0, m)
	if !strings.Contains(line0, "ADDI") {
		t.Fatalf("got %q, want ADDI", line0)
	}
	line1, _ := Step(4, m)
	if !strings.Contains(line1, "SYS") && !strings.Contains(line1, "HALT") {
		t.Fatalf("got %q, want a HALT rendering", line1)
	}
}

func TestStepRendersJalAndLabel(t *testing.T) {
	m := assembleToMemory(t, "start: JAL R7, end\n       NOP\nend:   HALT\n")
	line, _ := Step(0, m)
	if !strings.Contains(line, "JAL") || !strings.Contains(line, "R7") {
		t.Fatalf("got %q", line)
	}
}

func TestStepOnUndefinedMemoryRendersPlaceholder(t *testing.T) {
	m := memory.New(16)
	line, size := Step(0, m)
	if size != 4 {
		t.Fatalf("size = %d, want 4", size)
	}
	if !strings.Contains(line, "???") {
		t.Fatalf("got %q, want a ??? placeholder for undecodable memory", line)
	}
}
