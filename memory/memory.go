// Package memory implements the flat, tryte-addressable store the CPU
// fetches instructions and data from. Unlike a byte-addressed machine there
// is no separate word/byte memory map to decide between: everything is a
// sequence of trytes, and words are simply eight consecutive trytes read or
// written together.
package memory

import (
	"fmt"

	"github.com/prismchrono/prismchrono/trit"
)

// WordAlignment and InstrAlignment give the divisibility requirement for
// word-sized and instruction-sized accesses, respectively.
const (
	WordAlignment  = 8
	InstrAlignment = 4
)

// OutOfBoundsError reports an access at or beyond the store's capacity.
type OutOfBoundsError struct {
	Addr     int
	Capacity int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory: address %d out of bounds (capacity %d)", e.Addr, e.Capacity)
}

// MisalignedError reports an access whose address does not satisfy the
// required alignment for the access size.
type MisalignedError struct {
	Addr      int
	Alignment int
}

func (e *MisalignedError) Error() string {
	return fmt.Sprintf("memory: address %d is not aligned to %d", e.Addr, e.Alignment)
}

// Memory is a fixed-capacity, tryte-addressable linear store. It has no
// cache, no MMU and no protection of its own; privilege checks live at the
// CSR layer in the cpu package, and Memory simply stores whatever it is
// given, special states included.
type Memory struct {
	cells []trit.Tryte
}

// New allocates a Memory of the given capacity (in trytes), with every cell
// initialised to Undefined, matching the reset-time content of real
// hardware that has never been written.
func New(capacity int) *Memory {
	m := &Memory{cells: make([]trit.Tryte, capacity)}
	for i := range m.cells {
		m.cells[i] = trit.UndefinedTryte()
	}
	return m
}

// Capacity returns the number of addressable trytes.
func (m *Memory) Capacity() int { return len(m.cells) }

// ReadTryte returns the tryte stored at addr, or an OutOfBoundsError if addr
// is not within [0, Capacity).
func (m *Memory) ReadTryte(addr int) (trit.Tryte, error) {
	if addr < 0 || addr >= len(m.cells) {
		return trit.Tryte{}, &OutOfBoundsError{Addr: addr, Capacity: len(m.cells)}
	}
	return m.cells[addr], nil
}

// WriteTryte stores t at addr, or returns an OutOfBoundsError.
func (m *Memory) WriteTryte(addr int, t trit.Tryte) error {
	if addr < 0 || addr >= len(m.cells) {
		return &OutOfBoundsError{Addr: addr, Capacity: len(m.cells)}
	}
	m.cells[addr] = t
	return nil
}

// ReadWord reads eight consecutive trytes starting at addr, with tryte 0 of
// the word at addr+0. addr must be a multiple of WordAlignment.
func (m *Memory) ReadWord(addr int) (trit.Word, error) {
	if addr%WordAlignment != 0 {
		return trit.Word{}, &MisalignedError{Addr: addr, Alignment: WordAlignment}
	}
	var w trit.Word
	for i := 0; i < trit.WordTrytes; i++ {
		t, err := m.ReadTryte(addr + i)
		if err != nil {
			return trit.Word{}, err
		}
		w[i] = t
	}
	return w, nil
}

// WriteWord is the mirror of ReadWord: it writes w's eight trytes starting
// at addr, which must be a multiple of WordAlignment.
func (m *Memory) WriteWord(addr int, w trit.Word) error {
	if addr%WordAlignment != 0 {
		return &MisalignedError{Addr: addr, Alignment: WordAlignment}
	}
	for i := 0; i < trit.WordTrytes; i++ {
		if err := m.WriteTryte(addr+i, w[i]); err != nil {
			return err
		}
	}
	return nil
}

// LoadImage deposits each (address, trytes) record of a binary image into
// memory, in order. This is the loader half of the assembler→CPU pipeline:
// the assembler produces records, and a front-end (cmd/prismchrono-sim)
// hands them here before starting the fetch/decode/execute loop.
func (m *Memory) LoadImage(records []ImageRecord) error {
	for _, rec := range records {
		for i, t := range rec.Trytes {
			if err := m.WriteTryte(rec.Addr+i, t); err != nil {
				return fmt.Errorf("loading image record at %d: %w", rec.Addr, err)
			}
		}
	}
	return nil
}

// ImageRecord is one (address, trytes) pair of an assembled binary image.
type ImageRecord struct {
	Addr   int
	Trytes []trit.Tryte
}
