// Package alu implements the pure ternary arithmetic and logic layer: the
// ripple adder/subtractor, multiply/divide, shifts, and the Kleene-style
// trit logic ops. Every function here is pure — it takes words (and
// sometimes a carry trit) and returns a result plus the flags that
// operation produced. Nothing in this package touches registers, memory, or
// the CPU's privilege state; the cpu package owns wiring results into
// architectural state, per the single-module-boundary collapse described in
// the core design notes (cyclic module graphs in the original split of ALU,
// CPU and processor state are flattened here into pure-function free
// functions plus a couple of small data types).
package alu

import "github.com/prismchrono/prismchrono/trit"

// Flags holds the five architectural condition flags an ALU op updates.
type Flags struct {
	ZF bool // result is arithmetic zero across all trytes, no specials
	SF bool // most-significant non-Z trit of the result word is N (result < 0)
	XF bool // any tryte of the result (or an operand) was a special state
	OF bool // signed overflow occurred
	CF bool // carry/borrow out of the most significant trit
}

// combineTryte resolves one tryte position of a binary op: if either operand
// is special, the fixed NaN > Null > Undefined priority from trit.CombineSpecial
// applies and compute is never called. Otherwise compute runs on the two
// digit trytes; no carry passes between tryte positions.
func combineTryte(a, b trit.Tryte, compute func(a, b trit.Tryte) trit.Tryte) (trit.Tryte, bool) {
	if special, ok := trit.CombineSpecial(a, b); ok {
		return special, true
	}
	return compute(a, b), false
}

func wordFlags(result trit.Word, hasSpecial bool) Flags {
	return Flags{
		ZF: result.IsZero() && !hasSpecial,
		SF: result.IsNegative(),
		XF: hasSpecial,
	}
}

// AddWord ripples the one-trit full adder across all 24 trits of a and b,
// least significant first, starting from carry cin. It returns the sum, the
// final carry-out trit, and the resulting flags.
func AddWord(a, b trit.Word, cin trit.Trit) (trit.Word, trit.Trit, Flags) {
	var result trit.Word
	carry := cin
	hasSpecial := false

	for i := 0; i < trit.WordTrytes; i++ {
		ta, tb := a[i], b[i]
		if special, ok := trit.CombineSpecial(ta, tb); ok {
			result[i] = special
			hasSpecial = true
			continue
		}
		at, bt := ta.ToTrits(), tb.ToTrits()
		var sum [trit.TryteTrits]trit.Trit
		for j := 0; j < trit.TryteTrits; j++ {
			sum[j], carry = trit.FullAdder(at[j], bt[j], carry)
		}
		result[i] = trit.TryteFromTrits(sum)
	}

	flags := wordFlags(result, hasSpecial)
	flags.CF = carry == trit.P
	return result, carry, flags
}

// SubWord implements subtraction as negate-and-add: invert every trit of b
// (in balanced ternary this is exactly -b) and add, with the carry-in taken
// as the inverse of the borrow-in bin; callers pass bin = Z, so no +1
// correction is applied. The borrow-out is the complement of the resulting
// carry.
func SubWord(a, b trit.Word, bin trit.Trit) (trit.Word, trit.Trit, Flags) {
	var result trit.Word
	borrow := bin
	hasSpecial := false

	for i := 0; i < trit.WordTrytes; i++ {
		ta, tb := a[i], b[i]
		if special, ok := trit.CombineSpecial(ta, tb); ok {
			result[i] = special
			hasSpecial = true
			continue
		}
		at, bt := ta.ToTrits(), tb.ToTrits()
		var diff [trit.TryteTrits]trit.Trit
		for j := 0; j < trit.TryteTrits; j++ {
			var cout trit.Trit
			diff[j], cout = trit.FullAdder(at[j], bt[j].Inv(), borrow.Inv())
			borrow = cout.Inv()
		}
		result[i] = trit.TryteFromTrits(diff)
	}

	flags := wordFlags(result, hasSpecial)
	flags.CF = borrow == trit.P
	return result, borrow, flags
}

// CompareWord returns the flags that a subtraction a - b would produce,
// without returning the difference itself. BRANCH and CMP share this.
func CompareWord(a, b trit.Word) Flags {
	_, _, flags := SubWord(a, b, trit.Z)
	return flags
}

// negate returns -a. In balanced ternary, inverting every trit is already
// exact negation, so unlike two's complement no +1 correction follows.
func negate(a trit.Word) trit.Word {
	return InvWord(a)
}

// MulWord multiplies by shift-and-add against each digit of b, sign
// corrected per tryte by adding the negated partial product when that
// tryte's signed value is negative. A special tryte in either operand taints the whole result to
// the same NaN/Null/Undefined priority an add would produce; this mirrors
// how every other binary ALU op here treats specials rather than silently
// dropping them.
func MulWord(a, b trit.Word) (trit.Word, Flags) {
	if a.HasSpecial() || b.HasSpecial() {
		return specialBinaryResult(a, b)
	}
	result := trit.ZeroWord()
	temp := a
	for i := 0; i < trit.WordTrytes; i++ {
		v, _ := b[i].Value()
		if v != 0 {
			abs := v
			add := temp
			if v < 0 {
				abs = -v
				add = negate(temp)
			}
			for k := 0; k < abs; k++ {
				result, _, _ = AddWord(result, add, trit.Z)
			}
		}
		if i < trit.WordTrytes-1 {
			three, _ := trit.WordFromInt(3)
			temp = ShlWord(temp, three)
		}
	}
	return result, wordFlags(result, false)
}

// specialBinaryResult applies the standard special-state priority
// tryte-by-tryte for ops (Mul, Div, Mod) whose digit-level algorithm isn't a
// simple per-tryte loop the way Add/Sub are.
func specialBinaryResult(a, b trit.Word) (trit.Word, Flags) {
	var result trit.Word
	hasSpecial := false
	for i := 0; i < trit.WordTrytes; i++ {
		if special, ok := trit.CombineSpecial(a[i], b[i]); ok {
			result[i] = special
			hasSpecial = true
			continue
		}
		result[i] = trit.DigitTryte(trit.ZeroDigit)
	}
	return result, wordFlags(result, hasSpecial)
}

// DivWord divides by classical repeated subtraction on absolute values with
// a final sign correction. Division by zero yields a zero word rather than
// trapping; see the division-by-zero open question for why this legacy
// behavior is kept at the ALU layer while the execute layer is free to trap
// on it instead.
func DivWord(a, b trit.Word) (trit.Word, Flags) {
	if a.HasSpecial() || b.HasSpecial() {
		return specialBinaryResult(a, b)
	}
	if b.IsZero() || a.IsZero() {
		return trit.ZeroWord(), wordFlags(trit.ZeroWord(), false)
	}

	aNeg, bNeg := a.IsNegative(), b.IsNegative()
	resultNeg := aNeg != bNeg

	absB := b
	if bNeg {
		absB = negate(b)
	}
	absA := a
	if aNeg {
		absA = negate(a)
	}

	quotient := trit.ZeroWord()
	remainder := absA
	for compareGE(remainder, absB) {
		remainder, _, _ = SubWord(remainder, absB, trit.Z)
		quotient, _, _ = AddWord(quotient, trit.OneWord(), trit.Z)
	}

	if resultNeg {
		quotient = negate(quotient)
	}
	return quotient, wordFlags(quotient, false)
}

// compareGE reports whether a >= b for pure-digit, non-negative words.
func compareGE(a, b trit.Word) bool {
	diffFlags := CompareWord(a, b)
	return !diffFlags.SF
}

// ModWord returns the remainder of DivWord's division; its sign follows the
// dividend, matching the classical truncating-division remainder
// convention.
func ModWord(a, b trit.Word) (trit.Word, Flags) {
	if a.HasSpecial() || b.HasSpecial() {
		return specialBinaryResult(a, b)
	}
	if b.IsZero() || a.IsZero() {
		return trit.ZeroWord(), wordFlags(trit.ZeroWord(), false)
	}

	aNeg := a.IsNegative()
	absA := a
	if aNeg {
		absA = negate(a)
	}
	absB := b
	if b.IsNegative() {
		absB = negate(b)
	}

	remainder := absA
	for compareGE(remainder, absB) {
		remainder, _, _ = SubWord(remainder, absB, trit.Z)
	}

	if aNeg && !remainder.IsZero() {
		remainder = negate(remainder)
	}
	return remainder, wordFlags(remainder, false)
}

// shiftAmount extracts the shift distance from the least significant tryte
// of b, modulo the word's trit width, per the spec's "second operand's
// least-significant tryte modulo 24" rule.
func shiftAmount(b trit.Word) int {
	v, ok := b[0].Value()
	if !ok {
		return 0
	}
	n := v % trit.WordTrits
	if n < 0 {
		n += trit.WordTrits
	}
	return n
}

// ShlWord shifts the 24 trits of a left by the amount encoded in b.
// Out-shifted positions read as Z (the zero digit).
func ShlWord(a trit.Word, b trit.Word) trit.Word {
	n := shiftAmount(b)
	if n == 0 {
		return a
	}
	srcTrits := wordTrits(a)
	var dstTrits [trit.WordTrits]trit.Trit
	for pos := 0; pos < trit.WordTrits; pos++ {
		src := pos - n
		if src >= 0 {
			dstTrits[pos] = srcTrits[src]
		} else {
			dstTrits[pos] = trit.Z
		}
	}
	return wordFromTrits(dstTrits)
}

// ShrWord shifts the 24 trits of a right by the amount encoded in b.
// Out-shifted positions read as Z.
func ShrWord(a trit.Word, b trit.Word) trit.Word {
	n := shiftAmount(b)
	if n == 0 {
		return a
	}
	srcTrits := wordTrits(a)
	var dstTrits [trit.WordTrits]trit.Trit
	for pos := 0; pos < trit.WordTrits; pos++ {
		src := pos + n
		if src < trit.WordTrits {
			dstTrits[pos] = srcTrits[src]
		} else {
			dstTrits[pos] = trit.Z
		}
	}
	return wordFromTrits(dstTrits)
}

func wordTrits(w trit.Word) [trit.WordTrits]trit.Trit {
	var out [trit.WordTrits]trit.Trit
	for i := 0; i < trit.WordTrytes; i++ {
		tt := w[i].ToTrits()
		out[i*3], out[i*3+1], out[i*3+2] = tt[0], tt[1], tt[2]
	}
	return out
}

func wordFromTrits(trits [trit.WordTrits]trit.Trit) trit.Word {
	var w trit.Word
	for i := 0; i < trit.WordTrytes; i++ {
		w[i] = trit.TryteFromTrits([trit.TryteTrits]trit.Trit{trits[i*3], trits[i*3+1], trits[i*3+2]})
	}
	return w
}

// InvWord inverts every trit of a. N and P swap, Z is unchanged. Special
// states pass through unchanged: there is nothing meaningful to invert
// about "no value".
func InvWord(a trit.Word) trit.Word {
	var result trit.Word
	for i := 0; i < trit.WordTrytes; i++ {
		if a[i].Kind != trit.Digit {
			result[i] = a[i]
			continue
		}
		src := a[i].ToTrits()
		var dst [trit.TryteTrits]trit.Trit
		for j := range src {
			dst[j] = src[j].Inv()
		}
		result[i] = trit.TryteFromTrits(dst)
	}
	return result
}

// perTritWord applies op to every trit position of a and b, honoring the
// usual special-state priority on each tryte.
func perTritWord(a, b trit.Word, op func(a, b trit.Trit) trit.Trit) trit.Word {
	var result trit.Word
	for i := 0; i < trit.WordTrytes; i++ {
		result[i], _ = combineTryte(a[i], b[i], func(ta, tb trit.Tryte) trit.Tryte {
			at, bt := ta.ToTrits(), tb.ToTrits()
			var dst [trit.TryteTrits]trit.Trit
			for j := range at {
				dst[j] = op(at[j], bt[j])
			}
			return trit.TryteFromTrits(dst)
		})
	}
	return result
}

// MinWord computes the per-trit Kleene-style minimum of a and b.
func MinWord(a, b trit.Word) trit.Word { return perTritWord(a, b, trit.Min) }

// MaxWord computes the per-trit Kleene-style maximum of a and b.
func MaxWord(a, b trit.Word) trit.Word { return perTritWord(a, b, trit.Max) }

// AndWord is the ternary logical AND, defined as per-trit minimum (the
// standard Kleene-logic reading where N=false, Z=unknown, P=true).
func AndWord(a, b trit.Word) trit.Word { return MinWord(a, b) }

// OrWord is the ternary logical OR, defined as per-trit maximum.
func OrWord(a, b trit.Word) trit.Word { return MaxWord(a, b) }

// XorWord is the ternary logical XOR, defined as the per-trit product of
// trit values (each in {-1, 0, +1}, so the product is always a valid
// trit). This satisfies Xor(a, a) = Z-or-P-not-N style symmetry the same
// way binary XOR(a, a) = 0 does for the Z case, and is the natural
// generalization once AND/OR are read as min/max.
func XorWord(a, b trit.Word) trit.Word {
	return perTritWord(a, b, func(x, y trit.Trit) trit.Trit {
		return trit.Trit(x.Value() * y.Value())
	})
}
