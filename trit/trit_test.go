package trit

import "testing"

func TestInvInvolution(t *testing.T) {
	for _, tr := range []Trit{N, Z, P} {
		if got := tr.Inv().Inv(); got != tr {
			t.Errorf("Inv(Inv(%v)) = %v, want %v", tr, got, tr)
		}
	}
}

func TestInv(t *testing.T) {
	tests := []struct {
		in, want Trit
	}{
		{N, P},
		{Z, Z},
		{P, N},
	}
	for _, tc := range tests {
		if got := tc.in.Inv(); got != tc.want {
			t.Errorf("%v.Inv() = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	all := []Trit{N, Z, P}
	for _, a := range all {
		for _, b := range all {
			min := Min(a, b)
			max := Max(a, b)
			if min.Value() > a.Value() || min.Value() > b.Value() {
				t.Errorf("Min(%v, %v) = %v is not <= both operands", a, b, min)
			}
			if max.Value() < a.Value() || max.Value() < b.Value() {
				t.Errorf("Max(%v, %v) = %v is not >= both operands", a, b, max)
			}
		}
	}
	if Min(N, P) != N {
		t.Errorf("Min(N, P) = %v, want N", Min(N, P))
	}
	if Max(N, P) != P {
		t.Errorf("Max(N, P) = %v, want P", Max(N, P))
	}
}

func TestFullAdder(t *testing.T) {
	all := []Trit{N, Z, P}
	for _, a := range all {
		for _, b := range all {
			for _, cin := range all {
				sum, cout := FullAdder(a, b, cin)
				if got, want := sum.Value()+3*cout.Value(), a.Value()+b.Value()+cin.Value(); got != want {
					t.Errorf("FullAdder(%v, %v, %v) = (%v, %v): sum+3*cout = %d, want %d", a, b, cin, sum, cout, got, want)
				}
			}
		}
	}
}
