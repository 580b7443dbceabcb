package alu

import (
	"testing"

	"github.com/prismchrono/prismchrono/trit"
)

func word(t *testing.T, n int64) trit.Word {
	t.Helper()
	w, ok := trit.WordFromInt(n)
	if !ok {
		t.Fatalf("WordFromInt(%d) not ok", n)
	}
	return w
}

func TestAddWordBasic(t *testing.T) {
	a, b := word(t, 5), word(t, 7)
	sum, cout, flags := AddWord(a, b, trit.Z)
	n, ok := sum.ToInt()
	if !ok || n != 12 {
		t.Errorf("5 + 7 = %d, want 12", n)
	}
	if cout != trit.Z {
		t.Errorf("5 + 7 carry-out = %v, want Z", cout)
	}
	if flags.ZF || flags.SF {
		t.Errorf("5 + 7 flags = %+v, want ZF=false SF=false", flags)
	}
}

func TestAddWordZeroResult(t *testing.T) {
	a, b := word(t, 9), word(t, -9)
	sum, _, flags := AddWord(a, b, trit.Z)
	if !sum.IsZero() {
		t.Errorf("9 + -9 = %v, want zero", sum)
	}
	if !flags.ZF {
		t.Error("9 + -9: ZF should be set")
	}
	if flags.SF {
		t.Error("9 + -9: SF should be clear")
	}
}

func TestAddWordNegativeResult(t *testing.T) {
	a, b := word(t, 3), word(t, -10)
	sum, _, flags := AddWord(a, b, trit.Z)
	n, _ := sum.ToInt()
	if n != -7 {
		t.Errorf("3 + -10 = %d, want -7", n)
	}
	if !flags.SF {
		t.Error("3 + -10: SF should be set")
	}
}

func TestAddWordSpecialPriority(t *testing.T) {
	a := trit.UndefinedWord()
	b := word(t, 5)
	sum, _, flags := AddWord(a, b, trit.Z)
	if !sum.HasSpecial() {
		t.Error("Undefined + 5 should retain a special tryte")
	}
	if !flags.XF {
		t.Error("Undefined + 5: XF should be set")
	}
}

func TestSubWordRoundTripsWithAdd(t *testing.T) {
	for _, pair := range [][2]int64{{10, 3}, {-10, 3}, {0, 0}, {13, 13}} {
		a, b := word(t, pair[0]), word(t, pair[1])
		diff, _, _ := SubWord(a, b, trit.Z)
		n, ok := diff.ToInt()
		if !ok || n != pair[0]-pair[1] {
			t.Errorf("%d - %d = %d, want %d", pair[0], pair[1], n, pair[0]-pair[1])
		}
	}
}

func TestCompareWord(t *testing.T) {
	flags := CompareWord(word(t, 3), word(t, 5))
	if !flags.SF {
		t.Error("compare(3, 5) should set SF")
	}
	flags = CompareWord(word(t, 5), word(t, 5))
	if !flags.ZF {
		t.Error("compare(5, 5) should set ZF")
	}
}

func TestMulWord(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{6, 7, 42},
		{-6, 7, -42},
		{6, -7, -42},
		{-6, -7, 42},
		{0, 100, 0},
	}
	for _, tc := range tests {
		result, _ := MulWord(word(t, tc.a), word(t, tc.b))
		n, ok := result.ToInt()
		if !ok || n != tc.want {
			t.Errorf("%d * %d = %d, want %d", tc.a, tc.b, n, tc.want)
		}
	}
}

func TestDivModWord(t *testing.T) {
	tests := []struct{ a, b, wantQ, wantR int64 }{
		{17, 5, 3, 2},
		{-17, 5, -3, -2},
		{17, -5, -3, 2},
		{18, 3, 6, 0},
	}
	for _, tc := range tests {
		q, _ := DivWord(word(t, tc.a), word(t, tc.b))
		r, _ := ModWord(word(t, tc.a), word(t, tc.b))
		qn, _ := q.ToInt()
		rn, _ := r.ToInt()
		if qn != tc.wantQ {
			t.Errorf("%d / %d = %d, want %d", tc.a, tc.b, qn, tc.wantQ)
		}
		if rn != tc.wantR {
			t.Errorf("%d %% %d = %d, want %d", tc.a, tc.b, rn, tc.wantR)
		}
	}
}

func TestDivWordByZero(t *testing.T) {
	result, _ := DivWord(word(t, 5), word(t, 0))
	if !result.IsZero() {
		t.Errorf("5 / 0 = %v, want zero word (execute layer traps on this, not the ALU)", result)
	}
}

func TestShlShrWord(t *testing.T) {
	a := word(t, 1)
	shifted := ShlWord(a, word(t, 3))
	n, _ := shifted.ToInt()
	if n != 27 {
		t.Errorf("1 << one tryte = %d, want 27", n)
	}
	back := ShrWord(shifted, word(t, 3))
	n, _ = back.ToInt()
	if n != 1 {
		t.Errorf("27 >> one tryte = %d, want 1", n)
	}
}

func TestInvWordInvolution(t *testing.T) {
	a := word(t, 12345)
	if got := InvWord(InvWord(a)); got != a {
		t.Errorf("InvWord(InvWord(a)) = %v, want %v", got, a)
	}
}

func TestAndOrXorWord(t *testing.T) {
	a, b := word(t, 5), word(t, -5)
	if MinWord(a, b) != AndWord(a, b) {
		t.Error("AndWord should equal MinWord")
	}
	if MaxWord(a, b) != OrWord(a, b) {
		t.Error("OrWord should equal MaxWord")
	}
	same := XorWord(a, a)
	for _, tr := range same {
		if tr.Kind != trit.Digit {
			t.Fatalf("XorWord(a, a) produced a special tryte: %v", tr)
		}
	}
}
