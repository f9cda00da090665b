/*
DESCRIPTION
  elements.go provides the Decoder type: construction, per-element setup
  fields, and the Decode<Element> operations of clause 9.3.2/9.3.3 that sit
  on top of the arithmetic engine, context table and binarization schemes.

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

import (
	"io"

	"github.com/ausocean/av/codec/h264/h264dec/bits"
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

// Options configures a Decoder beyond its mandatory construction
// parameters. The zero value is a usable default: cabac_init_idc taken
// from the provider, and a logger that discards its output.
type Options struct {
	// CabacInitIdcOverride, if non-nil, is used instead of
	// provider.CabacInitIdc() when building the context table.
	CabacInitIdcOverride *int

	// Log receives debug-level tracing of context initialization and
	// element decisions. A nil Log is replaced with a discarding logger.
	Log logging.Logger
}

// noopLogger implements logging.Logger by discarding everything. newLogger
// does not use it: an unset Options.Log gets a logging.New logger writing
// to io.Discard instead.
type noopLogger struct{}

func (noopLogger) SetLevel(int8)                   {}
func (noopLogger) Log(int8, string, ...interface{}) {}
func (noopLogger) Debug(string, ...interface{})     {}
func (noopLogger) Info(string, ...interface{})      {}
func (noopLogger) Warning(string, ...interface{})   {}
func (noopLogger) Error(string, ...interface{})     {}
func (noopLogger) Fatal(string, ...interface{})     {}

// newLogger builds a default logging.Logger from opts, falling back to
// logging.New at the warning level writing to io.Discard.
func newLogger(opts Options) logging.Logger {
	if opts.Log != nil {
		return opts.Log
	}
	return logging.New(logging.Warning, io.Discard, false)
}

// Decoder is a CABAC decoder instance for one slice. It owns its context
// table and arithmetic engine exclusively and is not safe for concurrent
// use.
type Decoder struct {
	sliceType    SliceType
	sliceQPy     int
	cabacInitIdc int
	provider     NeighborProvider
	eng          *engine
	ctx          *ContextTable
	log          logging.Logger

	// Per-element setup fields the caller adjusts before certain
	// operations.
	MbPartIdx           int
	SubMbPartIdx        int
	ResidualBlockKind   ctxBlockCat
	LevelListIdx        int
	NumC8x8             int
	NumDecodAbsLevelGt1 int
	NumDecodAbsLevelEq1 int

	// currentCBP accumulates the bits of coded_block_pattern decoded so
	// far in this macroblock, consulted by condTermFlag when a CBP
	// neighbor block is the macroblock currently being parsed.
	currentCBP int
}

// NewDecoder constructs a Decoder for one slice: it builds the 1024-entry
// context table from sliceType/qp/cabacInitIdc and wraps
// bitSource in the arithmetic engine, primed with initialOffset (the 9
// raw bits read externally just before the first decoded element).
func NewDecoder(sliceType SliceType, sliceQPy int, provider NeighborProvider, initialOffset int, bitSource bits.BitSource, opts Options) (*Decoder, error) {
	if provider == nil {
		return nil, errors.New("h264dec: NewDecoder requires a non-nil NeighborProvider")
	}
	if bitSource == nil {
		return nil, errors.New("h264dec: NewDecoder requires a non-nil BitSource")
	}

	cabacInitIdc := provider.CabacInitIdc()
	if opts.CabacInitIdcOverride != nil {
		cabacInitIdc = *opts.CabacInitIdcOverride
	}

	log := newLogger(opts)
	log.Debug("initializing CABAC decoder", "sliceType", sliceType.String(), "qp", sliceQPy, "cabacInitIdc", cabacInitIdc)

	return &Decoder{
		sliceType:    sliceType,
		sliceQPy:     sliceQPy,
		cabacInitIdc: cabacInitIdc,
		provider:     provider,
		eng:          newEngine(bitSource, initialOffset),
		ctx:          newContextTable(sliceType, sliceQPy, cabacInitIdc),
		log:          log,
	}, nil
}

// Context returns a copy of the context model at ctxIdx, for test
// inspection.
func (d *Decoder) Context(i int) Context {
	return *d.ctx.at(i)
}

// DecodeMbSkipFlag decodes mb_skip_flag (FL(1), ctxIdxOffset 11 for P/SP
// slices, 24 for B slices).
func (d *Decoder) DecodeMbSkipFlag() (bool, error) {
	offset := 11
	if d.sliceType == SliceTypeB {
		offset = 24
	}
	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	notSkipped := func(mb MacroblockDescriptor) bool { return !mb.SkipFlag }
	inc := condTermFlag(na, notSkipped) + condTermFlag(nb, notSkipped)
	bit, err := d.readBin(d.ctx.at(offset + inc))
	if err != nil {
		return false, errors.Wrap(err, "DecodeMbSkipFlag")
	}
	return bit, nil
}

// DecodeMbType decodes mb_type, dispatching to the per-slice-type tree.
// It returns the decoded value together with a slice type: SliceTypeI when
// an SI-slice macroblock is decoded through the I-slice tree, otherwise
// d.sliceType. An I-coded macroblock in a P/SP or B slice keeps
// d.sliceType and is told apart by its value instead (5 and above in
// P/SP slices, 23 and above in B slices).
func (d *Decoder) DecodeMbType() (int, SliceType, error) {
	switch d.sliceType {
	case SliceTypeI:
		v, err := d.DecodeMbTypeI()
		return v, SliceTypeI, err
	case SliceTypeSI:
		bit, err := d.readBin(d.ctx.at(0))
		if err != nil {
			return 0, SliceTypeSI, errors.Wrap(err, "DecodeMbType SI selector")
		}
		if bit {
			v, err := d.DecodeMbTypeI()
			return v, SliceTypeI, err
		}
		return 0, SliceTypeSI, nil
	case SliceTypeP, SliceTypeSP:
		v, err := d.DecodeMbTypeP()
		return v, d.sliceType, err
	case SliceTypeB:
		v, err := d.DecodeMbTypeB()
		return v, SliceTypeB, err
	default:
		return 0, d.sliceType, ErrInvalidSliceTypeForOperation
	}
}

// DecodeSubMbType decodes sub_mb_type for a P/SP or B slice macroblock.
func (d *Decoder) DecodeSubMbType() (int, error) {
	switch d.sliceType {
	case SliceTypeP, SliceTypeSP:
		return d.DecodeSubMbTypeP()
	case SliceTypeB:
		return d.DecodeSubMbTypeB()
	default:
		return 0, ErrInvalidSliceTypeForOperation
	}
}

// mvdCtxIdxInc derives bin 0's ctxIdxInc for mvd_lX: the sum of each
// neighbor's absolute MVD component, thresholded into {0,1,2}.
func (d *Decoder) mvdCtxIdxInc(list, comp int) int {
	a, b, _, _ := d.provider.DeriveNeighborPartitions(d.MbPartIdx, 0, d.SubMbPartIdx)
	absComp := func(p NeighborPartition) int {
		if !p.Available {
			return 0
		}
		return absi(p.MB.MvdLX[list][p.MbPartIdx][p.SubMbPartIdx][comp])
	}
	sum := absComp(a) + absComp(b)
	switch {
	case sum <= 2:
		return 0
	case sum <= 32:
		return 1
	default:
		return 2
	}
}

// mvdHigherBinCtxIdx is the fixed table {-, 3, 4, 5, 6, 6, 6} for mvd_lX
// bins beyond bin 0.
var mvdHigherBinCtxIdx = [7]int{0, 3, 4, 5, 6, 6, 6}

// DecodeMvdLX decodes mvd_lX (UEG3, signed, uCoff=9) for reference list
// list (0 or 1) and vector component comp (0 = horizontal, 1 = vertical),
// using MbPartIdx/SubMbPartIdx as setup.
func (d *Decoder) DecodeMvdLX(list, comp int) (int, error) {
	offset := 40
	if list == 1 {
		offset = 47
	}
	ctxFor := func(binIdx int) *Context {
		if binIdx == 0 {
			return d.ctx.at(offset + d.mvdCtxIdxInc(list, comp))
		}
		idx := binIdx
		if idx >= len(mvdHigherBinCtxIdx) {
			idx = len(mvdHigherBinCtxIdx) - 1
		}
		return d.ctx.at(offset + mvdHigherBinCtxIdx[idx])
	}
	v, err := d.readUEGk(9, 3, true, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMvdLX")
	}
	return v, nil
}

// refIdxHigherBinCtxIdx is the fixed table {-, 4, 5, 5, 5, 5, 5} for
// ref_idx_lX bins beyond bin 0.
var refIdxHigherBinCtxIdx = [7]int{0, 4, 5, 5, 5, 5, 5}

// DecodeRefIdxLX decodes ref_idx_lX (U, cap 24, ctxIdxOffset 54) for
// reference list list, using MbPartIdx as setup.
func (d *Decoder) DecodeRefIdxLX(list int) (int, error) {
	a, b, _, _ := d.provider.DeriveNeighborPartitions(d.MbPartIdx, 0, 0)
	predEqual := func(p NeighborPartition) int {
		if !p.Available {
			return 0
		}
		mode := d.provider.MbPartPredMode(p.MB, p.MbPartIdx)
		if mode.UsesList(list) {
			return 1
		}
		return 0
	}
	refIdxNonZero := func(p NeighborPartition) int {
		if !p.Available {
			return 0
		}
		if p.MB.RefIdx[list][p.MbPartIdx] > 0 {
			return 1
		}
		return 0
	}
	inc0 := predEqual(a)*refIdxNonZero(a) + 2*predEqual(b)*refIdxNonZero(b)

	ctxFor := func(binIdx int) *Context {
		if binIdx == 0 {
			return d.ctx.at(54 + inc0)
		}
		idx := binIdx
		if idx >= len(refIdxHigherBinCtxIdx) {
			idx = len(refIdxHigherBinCtxIdx) - 1
		}
		return d.ctx.at(54 + refIdxHigherBinCtxIdx[idx])
	}
	v, err := d.readUnaryCapped(24, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeRefIdxLX")
	}
	return v, nil
}

// readUnaryCapped is readUnary with an explicit cap passed by the caller,
// used by elements whose cap is part of their contract rather than a
// global safety limit.
func (d *Decoder) readUnaryCapped(limit int, ctxFor func(int) *Context) (int, error) {
	val := 0
	for {
		if val >= limit {
			return 0, ErrMalformedStream
		}
		b, err := d.readBin(ctxFor(val))
		if err != nil {
			return 0, errors.Wrap(err, "readUnaryCapped")
		}
		if !b {
			return val, nil
		}
		val++
	}
}

// DecodeMbQpDelta decodes mb_qp_delta (U, ctxIdxOffset 60).
func (d *Decoder) DecodeMbQpDelta() (int, error) {
	ctxFor := func(binIdx int) *Context {
		abs := CtxIdx(binIdx, 2, 60)
		if abs == NaCtxId {
			abs = 0
		}
		return d.ctx.at(60 + abs)
	}
	v, err := d.readUnary(ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeMbQpDelta")
	}
	return v, nil
}

// DecodeIntraChromaPredMode decodes intra_chroma_pred_mode (TU(3),
// ctxIdxOffset 64).
func (d *Decoder) DecodeIntraChromaPredMode() (int, error) {
	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	notDC := func(mb MacroblockDescriptor) bool { return mb.Pred == PredIntra }
	inc := condTermFlag(na, notDC) + condTermFlag(nb, notDC)
	ctxFor := func(binIdx int) *Context {
		if binIdx == 0 {
			return d.ctx.at(64 + inc)
		}
		abs := CtxIdx(binIdx, 1, 64)
		return d.ctx.at(64 + abs)
	}
	v, err := d.readTU(3, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeIntraChromaPredMode")
	}
	return v, nil
}

// DecodePrevIntraPredModeFlag decodes prev_intra_{4,8}x8_pred_mode_flag
// (FL(1), ctxIdxOffset 68).
func (d *Decoder) DecodePrevIntraPredModeFlag() (bool, error) {
	b, err := d.readBin(d.ctx.at(68))
	if err != nil {
		return false, errors.Wrap(err, "DecodePrevIntraPredModeFlag")
	}
	return b, nil
}

// DecodeRemIntraPredMode decodes rem_intra_{4,8}x8_pred_mode (FL(7), three
// bins sharing ctxIdxOffset 69).
func (d *Decoder) DecodeRemIntraPredMode() (int, error) {
	ctxFor := func(binIdx int) *Context { return d.ctx.at(69) }
	v, err := d.readFL(7, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeRemIntraPredMode")
	}
	return v, nil
}

// DecodeMbFieldDecodingFlag decodes mb_field_decoding_flag (FL(1),
// ctxIdxOffset 70).
func (d *Decoder) DecodeMbFieldDecodingFlag() (bool, error) {
	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	isField := func(mb MacroblockDescriptor) bool { return mb.MBAFF == MBAFFCodingField }
	inc := condTermFlag(na, isField) + condTermFlag(nb, isField)
	b, err := d.readBin(d.ctx.at(70 + inc))
	if err != nil {
		return false, errors.Wrap(err, "DecodeMbFieldDecodingFlag")
	}
	return b, nil
}

// DecodeTransformSize8x8Flag decodes transform_size_8x8_flag (FL(1),
// ctxIdxOffset 399).
func (d *Decoder) DecodeTransformSize8x8Flag() (bool, error) {
	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	notBig := func(mb MacroblockDescriptor) bool { return !mb.TransformSize8x8Flag }
	inc := condTermFlag(na, notBig) + condTermFlag(nb, notBig)
	b, err := d.readBin(d.ctx.at(399 + inc))
	if err != nil {
		return false, errors.Wrap(err, "DecodeTransformSize8x8Flag")
	}
	return b, nil
}

// DecodeCodedBlockPattern decodes coded_block_pattern: four luma FL bins
// (ctxIdxOffset 73) followed by up to two chroma TU bins (ctxIdxOffset
// 77), reconstructing the result as luma + 16*chroma (not (luma+16)*chroma,
// an easy arithmetic slip to avoid here).
func (d *Decoder) DecodeCodedBlockPattern() (int, error) {
	luma := 0
	for blk := 0; blk < 4; blk++ {
		a, b := d.provider.DeriveNeighbor8x8Luma(d.provider.CurrMbAddr(), blk)
		inc := d.cbpLumaCondTerm(a, blk) + 2*d.cbpLumaCondTerm(b, blk)
		bit, err := d.readBin(d.ctx.at(73 + inc))
		if err != nil {
			return 0, errors.Wrap(err, "DecodeCodedBlockPattern luma")
		}
		if bit {
			luma |= 1 << uint(blk)
			d.currentCBP |= 1 << uint(blk)
		}
	}

	na, nb := d.provider.DeriveNeighbors(d.provider.CurrMbAddr())
	chroma := 0
	for binIdx := 0; binIdx < 2; binIdx++ {
		if binIdx == 1 && chroma != 1 {
			break
		}
		inc := d.cbpChromaCondTerm(na, binIdx) + 2*d.cbpChromaCondTerm(nb, binIdx)
		if binIdx == 1 {
			inc += 4
		}
		bit, err := d.readBin(d.ctx.at(77 + inc))
		if err != nil {
			return 0, errors.Wrap(err, "DecodeCodedBlockPattern chroma")
		}
		if binIdx == 0 {
			if bit {
				chroma = 1
			}
		} else if bit {
			chroma = 2
		}
	}

	return luma + 16*chroma, nil
}

// cbpLumaCondTerm implements the condTermFlag rule for coded_block_pattern's
// luma prefix: the term is 0 when the neighbor is unavailable or when its
// luma bit for blk is set, else 1. When the neighbor is the current
// macroblock, the already decoded bits of this CBP word are consulted
// instead of the neighbor descriptor's stored pattern.
func (d *Decoder) cbpLumaCondTerm(n NeighborMB, blk int) int {
	if !n.Available {
		return 0
	}
	if n.MB.Address == d.provider.CurrMbAddr() {
		if d.currentCBP&(1<<uint(blk)) != 0 {
			return 0
		}
		return 1
	}
	if n.MB.CbpLuma()&(1<<uint(blk)) != 0 {
		return 0
	}
	return 1
}

// cbpChromaCondTerm implements the condTermFlag rule for the chroma
// suffix: 0 if the neighbor is unavailable; otherwise, for binIdx 0, 1 if
// the neighbor's chroma cbp is nonzero, and for binIdx 1, 1 if it is 2.
func (d *Decoder) cbpChromaCondTerm(n NeighborMB, binIdx int) int {
	if !n.Available {
		return 0
	}
	switch binIdx {
	case 0:
		if n.MB.CbpChroma() == 0 {
			return 0
		}
		return 1
	default:
		if n.MB.CbpChroma() == 2 {
			return 1
		}
		return 0
	}
}

// CodedBlockFlagOptions carries the extra state coded_block_flag's
// ctxIdxInc derivation needs beyond the decoder's own setup fields: the
// caller-defined block index used to look up CodedBlockFlags on a
// neighbor descriptor.
type CodedBlockFlagOptions struct {
	BlockIdx int
}

// DecodeCodedBlockFlag decodes coded_block_flag (FL(1), ctxIdxOffset
// table-driven by ResidualBlockKind and the macroblock's MBAFF mode).
func (d *Decoder) DecodeCodedBlockFlag(mode mbaffMode, opts CodedBlockFlagOptions) (bool, error) {
	factor := blockKindFactor(d.ResidualBlockKind, mode)
	base := codedBlockFlagOffset[factor]

	a, b := d.provider.DeriveNeighbor4x4Luma(d.provider.CurrMbAddr(), opts.BlockIdx)
	condTerm := func(n NeighborMB) int {
		if !n.Available {
			return 1
		}
		if n.MB.Pred == PredPCM {
			return 1
		}
		if n.MB.CodedBlockFlags[opts.BlockIdx] {
			return 1
		}
		return 0
	}
	inc := condTerm(a) + 2*condTerm(b)

	bit, err := d.readBin(d.ctx.at(base + inc))
	if err != nil {
		return false, errors.Wrap(err, "DecodeCodedBlockFlag")
	}
	return bit, nil
}

// significantCoeffCtxIdxInc derives ctxIdxInc for significant_coeff_flag
// and last_significant_coeff_flag from the coefficient's position.
//
// This is a simplified stand-in for the full per-position lookup (ITU-T
// H.264 Tables 9-43, frame/field variants) that clause 9.3.3.1.3 defines
// for CatChromaAC, CatCbLevel4x4 and CatCrLevel4x4: those should each
// consult a position-indexed table keyed on LevelListIdx rather than use
// it directly. Falling back to LevelListIdx keeps ctxIdxInc in range and
// deterministic, but it is not the ITU table.
func (d *Decoder) significantCoeffCtxIdxInc(mode mbaffMode) int {
	switch d.ResidualBlockKind {
	case CatLumaLevel4x4:
		v := d.LevelListIdx / maxi(1, d.NumC8x8)
		return mini(v, 2)
	case CatChromaAC, CatCbLevel4x4, CatCrLevel4x4:
		return d.LevelListIdx
	default:
		return d.LevelListIdx
	}
}

// DecodeSignificantCoeffFlag decodes significant_coeff_flag.
func (d *Decoder) DecodeSignificantCoeffFlag(mode mbaffMode) (bool, error) {
	factor := blockKindFactor(d.ResidualBlockKind, mode)
	base := significantCoeffFlagOffset[factor]
	bit, err := d.readBin(d.ctx.at(base + d.significantCoeffCtxIdxInc(mode)))
	if err != nil {
		return false, errors.Wrap(err, "DecodeSignificantCoeffFlag")
	}
	return bit, nil
}

// DecodeLastSignificantCoeffFlag decodes last_significant_coeff_flag.
func (d *Decoder) DecodeLastSignificantCoeffFlag(mode mbaffMode) (bool, error) {
	factor := blockKindFactor(d.ResidualBlockKind, mode)
	base := lastSignificantCoeffFlagOffset[factor]
	bit, err := d.readBin(d.ctx.at(base + d.significantCoeffCtxIdxInc(mode)))
	if err != nil {
		return false, errors.Wrap(err, "DecodeLastSignificantCoeffFlag")
	}
	return bit, nil
}

// DecodeCoeffAbsLevelMinus1 decodes coeff_abs_level_minus1 (UEG0,
// unsigned, uCoff=14), using NumDecodAbsLevelGt1/NumDecodAbsLevelEq1 as
// setup for the bin-0/higher-bin ctxIdxInc split.
func (d *Decoder) DecodeCoeffAbsLevelMinus1(mode mbaffMode) (int, error) {
	factor := blockKindFactor(d.ResidualBlockKind, mode)
	base := coeffAbsLevelMinus1PrefixOffset[factor]

	ctxFor := func(binIdx int) *Context {
		if binIdx == 0 {
			if d.NumDecodAbsLevelGt1 > 0 {
				return d.ctx.at(base)
			}
			return d.ctx.at(base + mini(4, 1+d.NumDecodAbsLevelEq1))
		}
		limit := 4
		if d.ResidualBlockKind == CatLumaLevel4x4 {
			limit = 3
		}
		return d.ctx.at(base + 5 + mini(limit, d.NumDecodAbsLevelGt1))
	}

	v, err := d.readUEGk(14, 0, false, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "DecodeCoeffAbsLevelMinus1")
	}

	if v > 0 {
		d.NumDecodAbsLevelGt1++
	} else {
		d.NumDecodAbsLevelEq1++
	}
	return v, nil
}

// DecodeCoeffSignFlag decodes coeff_sign_flag (FL(1), bypass only).
func (d *Decoder) DecodeCoeffSignFlag() (bool, error) {
	b, err := d.eng.readBypass()
	if err != nil {
		return false, errors.Wrap(err, "DecodeCoeffSignFlag")
	}
	return b, nil
}

// DecodeEndOfSliceFlag decodes end_of_slice_flag via the terminate
// primitive.
func (d *Decoder) DecodeEndOfSliceFlag() (bool, error) {
	b, err := d.eng.readTerminate()
	if err != nil {
		return false, errors.Wrap(err, "DecodeEndOfSliceFlag")
	}
	return b, nil
}

// ResetCurrentCBP clears the in-progress coded_block_pattern accumulator.
// Callers invoke this once per macroblock, before DecodeCodedBlockPattern.
func (d *Decoder) ResetCurrentCBP() { d.currentCBP = 0 }
