package trit

import (
	"fmt"
	"strings"
)

// WordTrytes is the number of trytes in a word.
const WordTrytes = 8

// WordTrits is the number of trits in a word.
const WordTrits = WordTrytes * TryteTrits

// Word is an ordered sequence of eight trytes, 24 trits wide. Tryte 0 is the
// least significant tryte (little-endian by tryte index), mirroring how the
// teacher's 6502 words are little-endian by byte.
type Word [WordTrytes]Tryte

// ZeroWord returns a word whose every tryte is the zero digit.
func ZeroWord() Word {
	var w Word
	for i := range w {
		w[i] = DigitTryte(ZeroDigit)
	}
	return w
}

// OneWord returns a word equal to the integer 1.
func OneWord() Word {
	w, _ := WordFromInt(1)
	return w
}

// UndefinedWord returns a word whose every tryte is Undefined, matching the
// reset-time content of an uninitialised register or memory cell.
func UndefinedWord() Word {
	var w Word
	for i := range w {
		w[i] = UndefinedTryte()
	}
	return w
}

// NullWord returns a word whose every tryte is Null.
func NullWord() Word {
	var w Word
	for i := range w {
		w[i] = NullTryte()
	}
	return w
}

// NaNWord returns a word whose every tryte is NaN.
func NaNWord() Word {
	var w Word
	for i := range w {
		w[i] = NaNTryte()
	}
	return w
}

// WordMaxValue is the largest integer a pure-digit word can represent:
// (3^24 - 1) / 2.
const WordMaxValue = (282429536481 - 1) / 2 // 3^24 = 282429536481

// WordMinValue is the smallest integer a pure-digit word can represent.
const WordMinValue = -WordMaxValue

func powi(base, exp int64) int64 {
	r := int64(1)
	for i := int64(0); i < exp; i++ {
		r *= base
	}
	return r
}

// WordFromInt builds a word representing n in balanced base 3. ok is false
// if n is outside [WordMinValue, WordMaxValue].
func WordFromInt(n int64) (w Word, ok bool) {
	if n < WordMinValue || n > WordMaxValue {
		return w, false
	}
	trits := TritsFromInt(n, WordTrits)
	for i := 0; i < WordTrytes; i++ {
		w[i] = TryteFromTrits([TryteTrits]Trit{trits[i*3], trits[i*3+1], trits[i*3+2]})
	}
	return w, true
}

// ToInt interprets the word as a balanced base-3 integer. ok is false if any
// tryte holds a special state.
func (w Word) ToInt() (n int64, ok bool) {
	trits := make([]Trit, 0, WordTrits)
	for i := 0; i < WordTrytes; i++ {
		if w[i].Kind != Digit {
			return 0, false
		}
		tt := w[i].ToTrits()
		trits = append(trits, tt[0], tt[1], tt[2])
	}
	return IntFromTrits(trits), true
}

// IsNegative reports whether the word's sign trit (its most significant
// non-Z trit, scanning down from the top trit of the most significant
// tryte) is N. A special tryte reached before any non-Z trit makes the word
// count as non-negative.
func (w Word) IsNegative() bool {
	for i := WordTrytes - 1; i >= 0; i-- {
		if w[i].Kind != Digit {
			return false
		}
		tt := w[i].ToTrits()
		for j := TryteTrits - 1; j >= 0; j-- {
			if tt[j] != Z {
				return tt[j] == N
			}
		}
	}
	return false
}

// IsZero reports whether every tryte of the word is the zero digit.
func (w Word) IsZero() bool {
	for _, t := range w {
		if t != DigitTryte(ZeroDigit) {
			return false
		}
	}
	return true
}

// HasSpecial reports whether any tryte of the word holds a special state.
func (w Word) HasSpecial() bool {
	for _, t := range w {
		if t.Kind != Digit {
			return true
		}
	}
	return false
}

// HasSpecialKind reports whether any tryte of the word holds the given
// special kind. Kind == Digit always reports false, since "any tryte is an
// ordinary digit" isn't the question this is built to answer.
func (w Word) HasSpecialKind(kind TryteKind) bool {
	if kind == Digit {
		return false
	}
	for _, t := range w {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

// String renders the word as its trytes from most to least significant,
// matching how an assembler listing reads a word left to right.
func (w Word) String() string {
	parts := make([]string, WordTrytes)
	for i := 0; i < WordTrytes; i++ {
		parts[WordTrytes-1-i] = w[i].String()
	}
	return strings.Join(parts, " ")
}

// GoString supports %#v and spew-style dumps with a compact form.
func (w Word) GoString() string {
	if n, ok := w.ToInt(); ok {
		return fmt.Sprintf("Word(%d)", n)
	}
	return fmt.Sprintf("Word{%s}", w.String())
}
