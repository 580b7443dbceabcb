package asm

import "fmt"

// SymbolTable maps label names to the addresses pass 1 assigned them. It
// is created empty, mutated only by Define during pass 1, and read-only
// (via Lookup) during pass 2 — the same single-writer-then-read-only
// lifecycle §3 specifies.
type SymbolTable struct {
	addrs map[string]int
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addrs: make(map[string]int)}
}

// Define records name at addr. It fails if name was already defined,
// enforcing "a label may be defined at most once."
func (t *SymbolTable) Define(name string, addr int) error {
	if _, dup := t.addrs[name]; dup {
		return fmt.Errorf("label %q already defined", name)
	}
	t.addrs[name] = addr
	return nil
}

// Lookup returns the address name was defined at. ok is false if name was
// never defined.
func (t *SymbolTable) Lookup(name string) (addr int, ok bool) {
	addr, ok = t.addrs[name]
	return
}
