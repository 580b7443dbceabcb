package memory

import (
	"errors"
	"testing"

	"github.com/prismchrono/prismchrono/trit"
)

func TestNewMemoryIsUndefined(t *testing.T) {
	m := New(64)
	tr, err := m.ReadTryte(10)
	if err != nil {
		t.Fatalf("ReadTryte(10): %v", err)
	}
	if tr.Kind != trit.Undefined {
		t.Errorf("fresh memory cell kind = %v, want Undefined", tr.Kind)
	}
}

func TestReadWriteTryte(t *testing.T) {
	m := New(64)
	want := trit.DigitTryte(trit.ZeroDigit + 5)
	if err := m.WriteTryte(3, want); err != nil {
		t.Fatalf("WriteTryte: %v", err)
	}
	got, err := m.ReadTryte(3)
	if err != nil {
		t.Fatalf("ReadTryte: %v", err)
	}
	if got != want {
		t.Errorf("ReadTryte(3) = %v, want %v", got, want)
	}
}

func TestOutOfBounds(t *testing.T) {
	m := New(8)
	_, err := m.ReadTryte(8)
	var oob *OutOfBoundsError
	if !errors.As(err, &oob) {
		t.Fatalf("ReadTryte(8) err = %v, want *OutOfBoundsError", err)
	}
	if err := m.WriteTryte(-1, trit.DigitTryte(trit.ZeroDigit)); !errors.As(err, &oob) {
		t.Errorf("WriteTryte(-1, ...) err = %v, want *OutOfBoundsError", err)
	}
}

func TestReadWordRoundTrip(t *testing.T) {
	m := New(64)
	w, _ := trit.WordFromInt(424242)
	if err := m.WriteWord(16, w); err != nil {
		t.Fatalf("WriteWord: %v", err)
	}
	got, err := m.ReadWord(16)
	if err != nil {
		t.Fatalf("ReadWord: %v", err)
	}
	if got != w {
		t.Errorf("ReadWord(16) = %v, want %v", got, w)
	}
}

func TestReadWordMisaligned(t *testing.T) {
	m := New(64)
	_, err := m.ReadWord(3)
	var mis *MisalignedError
	if !errors.As(err, &mis) {
		t.Fatalf("ReadWord(3) err = %v, want *MisalignedError", err)
	}
}

func TestLoadImage(t *testing.T) {
	m := New(32)
	records := []ImageRecord{
		{Addr: 0, Trytes: []trit.Tryte{trit.DigitTryte(trit.ZeroDigit + 1), trit.DigitTryte(trit.ZeroDigit + 2)}},
		{Addr: 10, Trytes: []trit.Tryte{trit.DigitTryte(trit.ZeroDigit + 3)}},
	}
	if err := m.LoadImage(records); err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	tr, _ := m.ReadTryte(0)
	if v, _ := tr.Value(); v != 1 {
		t.Errorf("tryte at 0 = %d, want 1", v)
	}
	tr, _ = m.ReadTryte(10)
	if v, _ := tr.Value(); v != 3 {
		t.Errorf("tryte at 10 = %d, want 3", v)
	}
}

func TestLoadImageOutOfBounds(t *testing.T) {
	m := New(4)
	records := []ImageRecord{{Addr: 2, Trytes: []trit.Tryte{trit.DigitTryte(trit.ZeroDigit), trit.DigitTryte(trit.ZeroDigit), trit.DigitTryte(trit.ZeroDigit)}}}
	if err := m.LoadImage(records); err == nil {
		t.Error("LoadImage should fail when a record overruns capacity")
	}
}
