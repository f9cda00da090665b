package h264dec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewContextPStateIdxRange(t *testing.T) {
	// Property: for any (m, n, qp) triple the derived pStateIdx must stay
	// within [0, 63], whichever side of the preCtxState split it lands on.
	for m := -40; m <= 40; m += 5 {
		for n := -10; n <= 140; n += 10 {
			for qp := 0; qp <= 51; qp += 7 {
				ctx := newContext(m, n, qp)
				if ctx.PStateIdx < 0 || ctx.PStateIdx > 63 {
					t.Fatalf("newContext(%d,%d,%d).PStateIdx = %d, want [0,63]", m, n, qp, ctx.PStateIdx)
				}
			}
		}
	}
}

func TestNewContextMPSSplit(t *testing.T) {
	// preCtxState <= 63 must yield MPS=false; preCtxState > 63 must yield
	// MPS=true. m=0 makes preCtxState independent of qp, so n alone selects
	// the branch (clamped into [1,126] by clip3).
	low := newContext(0, 10, 0) // preCtxState = clip3(1,126,10) = 10 <= 63
	if low.MPS {
		t.Errorf("preCtxState=10: MPS = true, want false")
	}
	if low.PStateIdx != 63-10 {
		t.Errorf("preCtxState=10: PStateIdx = %d, want %d", low.PStateIdx, 63-10)
	}

	high := newContext(0, 100, 0) // preCtxState = 100 > 63
	if !high.MPS {
		t.Errorf("preCtxState=100: MPS = false, want true")
	}
	if high.PStateIdx != 100-64 {
		t.Errorf("preCtxState=100: PStateIdx = %d, want %d", high.PStateIdx, 100-64)
	}
}

func TestNewContextTableDeterministic(t *testing.T) {
	a := newContextTable(SliceTypeP, 26, 1)
	b := newContextTable(SliceTypeP, 26, 1)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("newContextTable not deterministic (-first +second):\n%s", diff)
	}
}

func TestNewContextTableVariesBySliceType(t *testing.T) {
	i := newContextTable(SliceTypeI, 26, 0)
	p := newContextTable(SliceTypeP, 26, 0)
	same := true
	for idx := 0; idx < numContexts; idx++ {
		if i[idx] != p[idx] {
			same = false
			break
		}
	}
	if same {
		t.Error("I-slice and P-slice context tables are identical, want at least one differing ctxIdx")
	}
}

func TestClip3(t *testing.T) {
	cases := []struct{ lo, hi, v, want int }{
		{0, 10, -5, 0},
		{0, 10, 15, 10},
		{0, 10, 5, 5},
		{1, 126, 0, 1},
		{1, 126, 200, 126},
	}
	for _, c := range cases {
		if got := clip3(c.lo, c.hi, c.v); got != c.want {
			t.Errorf("clip3(%d,%d,%d) = %d, want %d", c.lo, c.hi, c.v, got, c.want)
		}
	}
}
