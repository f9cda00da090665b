/*
DESCRIPTION
  mbtype.go implements the mb_type and sub_mb_type binarization trees
  (ITU-T H.264 clause 9.3.2.5, Tables 9-36 through 9-39) and the fixed
  ctxIdx assignment (Table 9-39) their inner bins use.

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

import "github.com/pkg/errors"

// NaCtxId marks a binIdx/ctxIdxOffset combination for which ctxIdx cannot
// be looked up directly (Table 9-39): either the bin does not exist for
// that offset, or its ctxIdxInc must be derived from neighbor state by the
// caller (clause 9.3.3.1.1/9.3.3.1.2) rather than read from the table.
const NaCtxId = 10000

// Binarizations for macroblock types in slice types.
var (
	// binOfIMBTypes provides binarization strings for values of macroblock
	// type in I slices as defined in ITU-T H.264 Table 9-36.
	binOfIMBTypes = [26][]int{
		0:  {0},
		1:  {1, 0, 0, 0, 0, 0},
		2:  {1, 0, 0, 0, 0, 1},
		3:  {1, 0, 0, 0, 1, 0},
		4:  {1, 0, 0, 0, 1, 1},
		5:  {1, 0, 0, 1, 0, 0, 0},
		6:  {1, 0, 0, 1, 0, 0, 1},
		7:  {1, 0, 0, 1, 0, 1, 0},
		8:  {1, 0, 0, 1, 0, 1, 1},
		9:  {1, 0, 0, 1, 1, 0, 0},
		10: {1, 0, 0, 1, 1, 0, 1},
		11: {1, 0, 0, 1, 1, 1, 0},
		12: {1, 0, 0, 1, 1, 1, 1},
		13: {1, 0, 1, 0, 0, 0},
		14: {1, 0, 1, 0, 0, 1},
		15: {1, 0, 1, 0, 1, 0},
		16: {1, 0, 1, 0, 1, 1},
		17: {1, 0, 1, 1, 0, 0, 0},
		18: {1, 0, 1, 1, 0, 0, 1},
		19: {1, 0, 1, 1, 0, 1, 0},
		20: {1, 0, 1, 1, 0, 1, 1},
		21: {1, 0, 1, 1, 1, 0, 0},
		22: {1, 0, 1, 1, 1, 0, 1},
		23: {1, 0, 1, 1, 1, 1, 0},
		24: {1, 0, 1, 1, 1, 1, 1},
		25: {1, 1},
	}

	// binOfPOrSPMBTypes provides binarization strings for values of
	// macroblock type in P or SP slices (table 9-37). mb_type values 5..30
	// binarize as "1" followed by the I-slice tree and are handled by
	// DecodeMbTypeP falling through to that tree on prefix "1".
	binOfPOrSPMBTypes = [4][]int{
		0: {0, 0, 0},
		1: {0, 1, 1},
		2: {0, 1, 0},
		3: {0, 0, 1},
	}

	// binOfBMBTypes provides binarization strings for values of macroblock
	// type in B slices as defined in ITU-T H.264 Table 9-37.
	// mb_type values 23..48 binarize as "111101" followed by the I-slice
	// suffix tree and are handled the same way as the P/SP case.
	binOfBMBTypes = [23][]int{
		0:  {0},
		1:  {1, 0, 0},
		2:  {1, 0, 1},
		3:  {1, 1, 0, 0, 0, 0},
		4:  {1, 1, 0, 0, 0, 1},
		5:  {1, 1, 0, 0, 1, 0},
		6:  {1, 1, 0, 0, 1, 1},
		7:  {1, 1, 0, 1, 0, 0},
		8:  {1, 1, 0, 1, 0, 1},
		9:  {1, 1, 0, 1, 1, 0},
		10: {1, 1, 0, 1, 1, 1},
		11: {1, 1, 1, 1, 1, 0},
		12: {1, 1, 1, 0, 0, 0, 0},
		13: {1, 1, 1, 0, 0, 0, 1},
		14: {1, 1, 1, 0, 0, 1, 0},
		15: {1, 1, 1, 0, 0, 1, 1},
		16: {1, 1, 1, 0, 1, 0, 0},
		17: {1, 1, 1, 0, 1, 0, 1},
		18: {1, 1, 1, 0, 1, 1, 0},
		19: {1, 1, 1, 0, 1, 1, 1},
		20: {1, 1, 1, 1, 0, 0, 0},
		21: {1, 1, 1, 1, 0, 0, 1},
		22: {1, 1, 1, 1, 1, 1},
	}
)

// Binarizations for sub-macroblock types in slice types.
var (
	// binOfPOrSPSubMBTypes provides binarization strings for values of
	// sub-macroblock type in P or SP slices (table 9-38).
	binOfPOrSPSubMBTypes = [4][]int{
		0: {1},
		1: {0, 0},
		2: {0, 1, 1},
		3: {0, 1, 0},
	}

	// binOfBSubMBTypes provides binarization strings for values of
	// sub-macroblock type in B slices (table 9-38). No string is a prefix
	// of another, so binTree reaches every value.
	binOfBSubMBTypes = [13][]int{
		0:  {0},
		1:  {1, 0, 0},
		2:  {1, 0, 1},
		3:  {1, 1, 0, 0, 0},
		4:  {1, 1, 0, 0, 1},
		5:  {1, 1, 0, 1, 0},
		6:  {1, 1, 0, 1, 1},
		7:  {1, 1, 1, 0, 0, 0},
		8:  {1, 1, 1, 0, 0, 1},
		9:  {1, 1, 1, 0, 1, 0},
		10: {1, 1, 1, 0, 1, 1},
		11: {1, 1, 1, 1, 0},
		12: {1, 1, 1, 1, 1},
	}
)

// ctxIdxLookup gives the fixed, neighbor-independent ctxIdxInc for the
// inner bins of the binarization trees, keyed by ctxIdxOffset then binIdx
// (Table 9-39); 276 is the ctxIdx of the terminate bin itself. A missing
// binIdx entry falls through to the per-offset default in CtxIdx.
var ctxIdxLookup = map[int]map[int]int{
	3:  {0: NaCtxId, 1: 276, 2: 3, 3: 4, 4: NaCtxId, 5: NaCtxId},
	14: {0: 0, 1: 1, 2: NaCtxId},
	17: {0: 0, 1: 276, 2: 1, 3: 2, 4: NaCtxId},
	27: {0: NaCtxId, 1: 3, 2: NaCtxId},
	32: {0: 0, 1: 276, 2: 1, 3: 2, 4: NaCtxId},
	36: {2: NaCtxId, 3: 3, 4: 3, 5: 3},
	40: {0: NaCtxId},
	47: {0: NaCtxId, 1: 3, 2: 4, 3: 5},
	54: {0: NaCtxId, 1: 4},
	64: {0: NaCtxId, 1: 3, 2: 3},
	69: {0: 0, 1: 0, 2: 0},
	77: {0: NaCtxId, 1: NaCtxId},
}

// CtxIdx returns the ctxIdxInc for a binIdx and ctxIdxOffset per Table
// 9-39, which the caller adds to ctxIdxOffset; a return of 276 instead
// names the terminate bin's ctxIdx. A return of NaCtxId means the caller
// must derive ctxIdxInc itself (clauses 9.3.3.1.1/9.3.3.1.2).
func CtxIdx(binIdx, maxBinIdxCtx, ctxIdxOffset int) int {
	ctxIdx := NaCtxId

	if c, ok := ctxIdxLookup[ctxIdxOffset]; ok {
		if v, ok := c[binIdx]; ok {
			return v
		}
	}

	switch ctxIdxOffset {
	case 0:
		if binIdx != 0 {
			return NaCtxId
		}
	case 3:
		return 7
	case 11:
		if binIdx != 0 {
			return NaCtxId
		}
	case 14:
		if binIdx > 2 {
			return NaCtxId
		}
	case 17:
		return 3
	case 21:
		if binIdx < 3 {
			ctxIdx = binIdx
		} else {
			return NaCtxId
		}
	case 24:
	case 27:
		return 5
	case 32:
		return 3
	case 36:
		if binIdx == 0 || binIdx == 1 {
			ctxIdx = binIdx
		}
	case 40:
		fallthrough
	case 47:
		return 6
	case 54:
		if binIdx > 1 {
			ctxIdx = 5
		}
	case 60:
		if binIdx == 1 {
			ctxIdx = 2
		}
		if binIdx > 1 {
			ctxIdx = 3
		}
	case 64:
		return NaCtxId
	case 68:
		if binIdx != 0 {
			return NaCtxId
		}
		ctxIdx = 0
	case 69:
		return NaCtxId
	case 70:
		if binIdx != 0 {
			return NaCtxId
		}
	case 77:
		return NaCtxId
	case 276:
		if binIdx != 0 {
			return NaCtxId
		}
		ctxIdx = 0
	case 399:
		if binIdx != 0 {
			return NaCtxId
		}
	}

	return ctxIdx
}

// binTree decodes one of the fixed prefix-free binarization trees above:
// it reads one bin at a time, resolving each bin's context through
// resolve, until exactly one table entry matches the bins read so far.
//
// resolve(binIdx) returns the Context to use for a context-adaptive bin,
// or (nil, true) to invoke the terminate primitive instead (ctxIdx 276),
// or (nil, false) for a bypass bin.
func (d *Decoder) binTree(table map[int][]int, resolve func(binIdx int) (ctx *Context, terminate bool)) (int, error) {
	var bins []int
	for {
		match, ok := uniquePrefixMatch(table, bins)
		if ok {
			return match, nil
		}

		ctx, terminate := resolve(len(bins))
		var bin bool
		var err error
		if terminate {
			bin, err = d.eng.readTerminate()
		} else {
			bin, err = d.readBin(ctx)
		}
		if err != nil {
			return 0, errors.Wrap(err, "binTree")
		}

		b := 0
		if bin {
			b = 1
		}
		bins = append(bins, b)

		if len(bins) > maxUnaryBins {
			return 0, ErrMalformedStream
		}
	}
}

// uniquePrefixMatch returns the sole table value whose binString equals
// prefix exactly, once no other entry could still extend it.
func uniquePrefixMatch(table map[int][]int, prefix []int) (int, bool) {
	for val, binString := range table {
		if len(binString) != len(prefix) {
			continue
		}
		if slicesEqual(binString, prefix) {
			return val, true
		}
	}
	return 0, false
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mbTypeITable() map[int][]int {
	m := make(map[int][]int, len(binOfIMBTypes))
	for k, v := range binOfIMBTypes {
		m[k] = v
	}
	return m
}

// mbTypeEscape is the sentinel value binTree returns when it matches the
// escape prefix that hands off to the shared I-slice-shaped suffix tree
// used by both the P/SP and B mb_type trees.
const mbTypeEscape = -1

func mbTypePOrSPTable() map[int][]int {
	m := make(map[int][]int, len(binOfPOrSPMBTypes)+1)
	for k, v := range binOfPOrSPMBTypes {
		m[k] = v
	}
	m[mbTypeEscape] = []int{1}
	return m
}

func mbTypeBTable() map[int][]int {
	m := make(map[int][]int, len(binOfBMBTypes)+1)
	for k, v := range binOfBMBTypes {
		m[k] = v
	}
	m[mbTypeEscape] = []int{1, 1, 1, 1, 0, 1}
	return m
}

func subMbTypePOrSPTable() map[int][]int {
	m := make(map[int][]int, len(binOfPOrSPSubMBTypes))
	for k, v := range binOfPOrSPSubMBTypes {
		m[k] = v
	}
	return m
}

func subMbTypeBTable() map[int][]int {
	m := make(map[int][]int, len(binOfBSubMBTypes))
	for k, v := range binOfBSubMBTypes {
		m[k] = v
	}
	return m
}

// mbTypeCondTermFlags derives condTermFlagA/condTermFlagB for mb_type's
// leading bin (clause 9.3.3.1.1.3): 0 if the neighbor is unavailable or is
// itself coded as Intra_NxN, else 1.
func (d *Decoder) mbTypeCondTermFlags() (a, b int) {
	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	notIntraNxN := func(mb MacroblockDescriptor) bool { return mb.Type != MBIntraNxN }
	return condTermFlag(na, notIntraNxN), condTermFlag(nb, notIntraNxN)
}

// DecodeMbTypeI decodes mb_type in an I slice (clause 9.3.2.5, Table 9-36,
// ctxIdxOffset 3).
func (d *Decoder) DecodeMbTypeI() (int, error) {
	condA, condB := d.mbTypeCondTermFlags()
	resolve := func(binIdx int) (*Context, bool) {
		if binIdx == 0 {
			return d.ctx.at(3 + condA + condB), false
		}
		abs := CtxIdx(binIdx, 6, 3)
		if abs == 276 {
			return nil, true
		}
		return d.ctx.at(3 + abs), false
	}
	return d.binTree(mbTypeITable(), resolve)
}

// DecodeMbTypeP decodes mb_type in a P or SP slice (Table 9-37). Matching
// the escape prefix ("1") means the macroblock is I-coded; DecodeMbTypeP
// then reads the I-slice suffix via the shared suffix tree and returns 5
// plus the suffix value.
func (d *Decoder) DecodeMbTypeP() (int, error) {
	resolve := func(binIdx int) (*Context, bool) {
		abs := CtxIdx(binIdx, 2, 14)
		if abs == NaCtxId {
			return nil, false // clause 9.3.3.1.2: no ctxIdx entry here means bypass
		}
		return d.ctx.at(14 + abs), false
	}
	val, err := d.binTree(mbTypePOrSPTable(), resolve)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMbTypeP prefix")
	}
	if val != mbTypeEscape {
		return val, nil
	}
	suffix, err := d.decodeMbTypeSuffix(17)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMbTypeP suffix")
	}
	return 5 + suffix, nil
}

// DecodeMbTypeB decodes mb_type in a B slice (Table 9-37, ctxIdxOffset 27
// for the prefix and 32 for the I-slice-shaped suffix).
func (d *Decoder) DecodeMbTypeB() (int, error) {
	condA, condB := d.mbTypeCondTermFlags()
	resolve := func(binIdx int) (*Context, bool) {
		if binIdx == 0 {
			return d.ctx.at(27 + condA + condB), false
		}
		abs := CtxIdx(binIdx, 5, 27)
		if abs == 276 {
			return nil, true
		}
		if abs == NaCtxId {
			return nil, false
		}
		return d.ctx.at(27 + abs), false
	}
	val, err := d.binTree(mbTypeBTable(), resolve)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMbTypeB prefix")
	}
	if val != mbTypeEscape {
		return val, nil
	}
	suffix, err := d.decodeMbTypeSuffix(32)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMbTypeB suffix")
	}
	return 23 + suffix, nil
}

// decodeMbTypeSuffix reads the shared I-slice-shaped suffix tree that both
// P/SP and B mb_type trees fall through to once their prefix is exhausted.
func (d *Decoder) decodeMbTypeSuffix(ctxIdxOffset int) (int, error) {
	resolve := func(binIdx int) (*Context, bool) {
		abs := CtxIdx(binIdx, 6, ctxIdxOffset)
		if abs == 276 {
			return nil, true
		}
		return d.ctx.at(ctxIdxOffset + abs), false
	}
	return d.binTree(mbTypeITable(), resolve)
}

// DecodeSubMbTypeP decodes sub_mb_type in a P or SP slice (Table 9-38,
// ctxIdxOffset 21).
func (d *Decoder) DecodeSubMbTypeP() (int, error) {
	resolve := func(binIdx int) (*Context, bool) {
		abs := CtxIdx(binIdx, 2, 21)
		return d.ctx.at(21 + abs), false
	}
	return d.binTree(subMbTypePOrSPTable(), resolve)
}

// DecodeSubMbTypeB decodes sub_mb_type in a B slice (Table 9-38,
// ctxIdxOffset 36).
func (d *Decoder) DecodeSubMbTypeB() (int, error) {
	resolve := func(binIdx int) (*Context, bool) {
		abs := CtxIdx(binIdx, 5, 36)
		if abs == NaCtxId {
			return nil, false
		}
		return d.ctx.at(36 + abs), false
	}
	return d.binTree(subMbTypeBTable(), resolve)
}
