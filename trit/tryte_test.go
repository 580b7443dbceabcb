package trit

import "testing"

func TestDigitRoundTrip(t *testing.T) {
	for d := uint8(0); d <= MaxDigit; d++ {
		tr := DigitTryte(d)
		trits := tr.ToTrits()
		back := TryteFromTrits(trits)
		if back != tr {
			t.Errorf("round trip through trits for offset %d: got offset %d", d, back.Offset())
		}
	}
}

func TestDigitValueRange(t *testing.T) {
	for d := uint8(0); d <= MaxDigit; d++ {
		v, ok := DigitTryte(d).Value()
		if !ok {
			t.Fatalf("DigitTryte(%d).Value() not ok", d)
		}
		if v < -13 || v > 13 {
			t.Errorf("DigitTryte(%d).Value() = %d out of [-13, 13]", d, v)
		}
	}
}

func TestDigitTryteFromValue(t *testing.T) {
	for v := -13; v <= 13; v++ {
		tr, ok := DigitTryteFromValue(v)
		if !ok {
			t.Fatalf("DigitTryteFromValue(%d) not ok", v)
		}
		got, _ := tr.Value()
		if got != v {
			t.Errorf("DigitTryteFromValue(%d).Value() = %d", v, got)
		}
	}
	if _, ok := DigitTryteFromValue(14); ok {
		t.Error("DigitTryteFromValue(14) should fail")
	}
	if _, ok := DigitTryteFromValue(-14); ok {
		t.Error("DigitTryteFromValue(-14) should fail")
	}
}

func TestSpecialPriority(t *testing.T) {
	tests := []struct {
		name string
		a, b Tryte
		want TryteKind
	}{
		{"nan beats null", NaNTryte(), NullTryte(), NaN},
		{"null beats undefined", NullTryte(), UndefinedTryte(), Null},
		{"undefined beats digit", UndefinedTryte(), DigitTryte(ZeroDigit), Undefined},
		{"nan beats all", NaNTryte(), UndefinedTryte(), NaN},
	}
	for _, tc := range tests {
		got, ok := CombineSpecial(tc.a, tc.b)
		if !ok {
			t.Fatalf("%s: CombineSpecial not ok", tc.name)
		}
		if got.Kind != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got.Kind, tc.want)
		}
		// Symmetric.
		got2, _ := CombineSpecial(tc.b, tc.a)
		if got2.Kind != tc.want {
			t.Errorf("%s (swapped): got %v, want %v", tc.name, got2.Kind, tc.want)
		}
	}
	if _, ok := CombineSpecial(DigitTryte(0), DigitTryte(26)); ok {
		t.Error("CombineSpecial(digit, digit) should report ok=false")
	}
}

func TestTritsFromIntRoundTrip(t *testing.T) {
	for n := int64(-13); n <= 13; n++ {
		trits := TritsFromInt(n, 3)
		if got := IntFromTrits(trits); got != n {
			t.Errorf("TritsFromInt(%d) round trip got %d", n, got)
		}
	}
}
