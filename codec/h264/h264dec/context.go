/*
DESCRIPTION
  context.go provides the CABAC context model, the fixed-size context
  table, and its per-slice initialization (ITU-T H.264 clauses 9.3.1.1 and
  Table 9-4).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Bruce McMoran <mcmoranbjr@gmail.com>
  Shawn Smith <shawnpsmith@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

// numContexts is the fixed size of a CABAC context table.
const numContexts = 1024

// SliceType identifies the coding type of the slice a Decoder was
// constructed for; it also selects the mb_type binarization tree (9.3.2.5)
// and the context-initialization table (9.3.1.1).
type SliceType int

const (
	SliceTypeP SliceType = iota
	SliceTypeB
	SliceTypeI
	SliceTypeSP
	SliceTypeSI
)

func (t SliceType) String() string {
	switch t {
	case SliceTypeP:
		return "P"
	case SliceTypeB:
		return "B"
	case SliceTypeI:
		return "I"
	case SliceTypeSP:
		return "SP"
	case SliceTypeSI:
		return "SI"
	default:
		return "unknown"
	}
}

// Context is a single CABAC context model: a probability-state index and
// the currently most-probable-symbol value. It is mutated in place by
// every readDecision call that targets it.
type Context struct {
	PStateIdx int
	MPS       bool
}

// ContextTable is the fixed-size, flat array of context models owned by a
// Decoder. ctxIdx addressing is the caller's responsibility; ContextTable
// itself is just storage plus construction.
type ContextTable [numContexts]Context

// newContextTable builds a ContextTable for the given slice type, slice QP
// and cabac_init_idc, following the per-ctxIdx initialization formula of
// clause 9.3.1.1:
//
//	preCtxState = Clip3(1, 126, ((m * Clip3(0,51,qp)) >> 4) + n)
//	if preCtxState <= 63: pStateIdx = 63 - preCtxState, MPS = false
//	else:                 pStateIdx = preCtxState - 64,  MPS = true
//
// (m, n) depend only on (ctxIdx, sliceType, cabacInitIdc), so the resulting
// table is a pure function of its three inputs, so two decoders built
// from the same (sliceType, qp, cabacInitIdc) are bit-for-bit identical.
func newContextTable(sliceType SliceType, qp, cabacInitIdc int) *ContextTable {
	var table ContextTable
	for ctxIdx := 0; ctxIdx < numContexts; ctxIdx++ {
		m, n := initMN(ctxIdx, sliceType, cabacInitIdc)
		table[ctxIdx] = newContext(m, n, qp)
	}
	return &table
}

// newContext derives a single context model from its (m, n) initialization
// coefficients and the slice QP, per 9.3.1.1 / equation 9-5.
func newContext(m, n, qp int) Context {
	preCtxState := clip3(1, 126, ((m*clip3(0, 51, qp))>>4)+n)
	if preCtxState <= 63 {
		return Context{PStateIdx: 63 - preCtxState, MPS: false}
	}
	return Context{PStateIdx: preCtxState - 64, MPS: true}
}

// at returns the context model at ctxIdx. It panics on an out-of-range
// index, which indicates a bug in a ctxIdxInc derivation rather than
// anything a caller can recover from.
func (t *ContextTable) at(ctxIdx int) *Context {
	return &t[ctxIdx]
}

// clip3 implements equation 5-5: Clip3(x,y,z) = min(max(x,z),y) for x<=y.
func clip3(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
