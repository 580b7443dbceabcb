// Package trit defines the ternary primitives that every other PrismChrono
// package builds on: the single trit, the three-trit tryte (with its special
// states), and the eight-tryte word. Nothing here depends on memory, the CPU
// or the assembler; this is the bottom of the dependency graph.
package trit

import "fmt"

// Trit is one balanced-ternary digit: N (-1), Z (0) or P (+1).
type Trit int8

// The three trit values. These are the only valid Trit values; any other
// int8 is a programming error in a caller, not a representable trit.
const (
	N Trit = -1
	Z Trit = 0
	P Trit = 1
)

// String implements fmt.Stringer.
func (t Trit) String() string {
	switch t {
	case N:
		return "N"
	case Z:
		return "Z"
	case P:
		return "P"
	default:
		return fmt.Sprintf("Trit(%d)", int8(t))
	}
}

// Value returns the signed integer value of the trit (-1, 0 or +1).
func (t Trit) Value() int { return int(t) }

// Inv inverts a trit: N and P swap, Z is unchanged.
func (t Trit) Inv() Trit {
	return Trit(-int8(t))
}

// Min returns the ternary Kleene-style minimum of two trits.
// min(N, _) = N, min(P, x) = x, min(Z, Z) = Z.
func Min(a, b Trit) Trit {
	if a == N || b == N {
		return N
	}
	if a == Z || b == Z {
		return Z
	}
	return P
}

// Max returns the ternary Kleene-style maximum of two trits.
// max(P, _) = P, max(N, x) = x, max(Z, Z) = Z.
func Max(a, b Trit) Trit {
	if a == P || b == P {
		return P
	}
	if a == Z || b == Z {
		return Z
	}
	return N
}

// FullAdder is the one-trit full adder: given trits a, b and a carry-in,
// it returns (sum, carry-out) such that a + b + cin = sum + 3*cout, with
// sum and cout both trits.
func FullAdder(a, b, cin Trit) (sum, cout Trit) {
	total := a.Value() + b.Value() + cin.Value()
	switch total {
	case -3:
		return Z, N
	case -2:
		return P, N
	case -1:
		return N, Z
	case 0:
		return Z, Z
	case 1:
		return P, Z
	case 2:
		return N, P
	case 3:
		return Z, P
	default:
		panic(fmt.Sprintf("trit.FullAdder: impossible sum %d", total))
	}
}
