/*
DESCRIPTION
  provider.go declares the macroblock/neighbor provider contract the CABAC
  decoder consumes. The decoder never derives neighbors, partitioning or
  prediction modes itself — those belong to the macroblock graph (ITU-T
  H.264 clauses 6.4.9, 6.4.11.x, 7.4.5), which is out of scope for this
  library and supplied by the caller.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h264dec

// MBAddrNotAvailable marks a macroblock address or neighbor as absent.
const MBAddrNotAvailable = -1

// MBTypeTag identifies the coarse type of a macroblock, as consumed by the
// ctxIdxInc condTermFlag rules of clause 9.3.3.1.1.
type MBTypeTag int

const (
	MBOther MBTypeTag = iota
	MBIntraNxN
	MBIPCM
	MBSI
	MBPSkip
	MBP8x8
	MBBSkip
	MBBDirect16x16
	MBB8x8
)

// PredCoding is the prediction-coding category of a macroblock (7.4.5).
type PredCoding int

const (
	PredOther PredCoding = iota
	PredIntra
	PredInter
	PredPCM
)

// MBAFFCoding is the field/frame coding state of a macroblock under MBAFF.
type MBAFFCoding int

const (
	MBAFFCodingNeither MBAFFCoding = iota
	MBAFFCodingFrame
	MBAFFCodingField
)

// PredMode is a macroblock or sub-macroblock partition's prediction
// direction, as derived by MbPartPredMode/SubMbPredMode (7.4.5/7.4.5.2).
type PredMode int

const (
	PredModeNone PredMode = iota
	PredModeL0
	PredModeL1
	PredModeBi
	PredModeDirect
)

// UsesList reports whether this prediction mode references the given
// reference-picture list (0 or 1), as used by ref_idx_lX's ctxIdxInc.
func (m PredMode) UsesList(list int) bool {
	switch m {
	case PredModeBi:
		return true
	case PredModeL0:
		return list == 0
	case PredModeL1:
		return list == 1
	default:
		return false
	}
}

// MacroblockDescriptor carries the read-only-to-the-decoder attributes of
// an already-parsed (or in-progress) macroblock that binarization routines
// need. The provider owns the real representation; this is the minimal
// projection the CABAC layer consumes.
type MacroblockDescriptor struct {
	Address              int
	Type                 MBTypeTag
	Pred                 PredCoding
	MBAFF                MBAFFCoding
	TransformSize8x8Flag bool
	SkipFlag             bool
	MbaffFrameFlag       bool

	// CodedBlockPattern is the full 6-bit value; CbpLuma/CbpChroma split it.
	CodedBlockPattern int

	// RefIdx[list][mbPartIdx] is the reference index used by that partition.
	RefIdx [2][16]int

	// PredModes[mbPartIdx] is this macroblock's prediction mode per partition.
	PredModes [16]PredMode

	// MvdLX[list][mbPartIdx][subMbPartIdx][comp] is the motion vector
	// difference, comp 0 = horizontal, 1 = vertical.
	MvdLX [2][4][4][2]int

	// SubMbType[mbPartIdx] holds the sub-macroblock type for P_8x8/B_8x8.
	SubMbType [4]int

	// CodedBlockFlags is keyed by a caller-defined block index; the decoder
	// only ever looks up indices it was told about via setup fields.
	CodedBlockFlags map[int]bool
}

// CbpLuma returns the luma portion of the coded block pattern (cbp % 16).
func (d MacroblockDescriptor) CbpLuma() int { return d.CodedBlockPattern % 16 }

// CbpChroma returns the chroma portion of the coded block pattern (cbp / 16).
func (d MacroblockDescriptor) CbpChroma() int { return d.CodedBlockPattern / 16 }

// NeighborMB is a neighbor macroblock reference together with its
// availability, as returned by DeriveNeighbors and the block-level
// neighbor-derivation calls.
type NeighborMB struct {
	MB        MacroblockDescriptor
	Available bool
}

// NeighborPartition additionally carries the neighbor's partition indices,
// as returned by DeriveNeighborPartitions (clause 6.4.11.7).
type NeighborPartition struct {
	MB           MacroblockDescriptor
	Available    bool
	MbPartIdx    int
	SubMbPartIdx int
}

// NeighborProvider is the external macroblock/neighbor graph the CABAC
// decoder consults while binarizing neighbor-dependent syntax elements.
// This library ships no production implementation — only this interface
// and a minimal fake used in tests.
type NeighborProvider interface {
	// TryGetMacroblock returns the macroblock at address, and whether it is
	// present. It must return the macroblock currently being parsed as
	// present even if some of its syntax elements are still being filled in.
	TryGetMacroblock(address int) (MacroblockDescriptor, bool)

	// ForceGetMacroblock is TryGetMacroblock for an address that must exist
	// (e.g. the current macroblock); absence is a logic error.
	ForceGetMacroblock(address int) (MacroblockDescriptor, error)

	DeriveNeighbors(address int) (a, b NeighborMB)
	DeriveNeighborPartitions(mbPartIdx, currSubMbType, subMbPartIdx int) (a, b, c, d NeighborPartition)

	DeriveNeighbor4x4Luma(address, blkIdx int) (a, b NeighborMB)
	DeriveNeighbor4x4Chroma(address, blkIdx int) (a, b NeighborMB)
	DeriveNeighbor8x8Luma(address, blkIdx int) (a, b NeighborMB)
	DeriveNeighbor8x8LumaChromaArrayType3(address, blkIdx int) (a, b NeighborMB)
	DeriveNeighbor8x8ChromaArrayType3(address, blkIdx int) (a, b NeighborMB)

	MbPartPredMode(desc MacroblockDescriptor, mbPartIdx int) PredMode
	SubMbPredMode(address int, subMbType int) PredMode

	CurrMbAddr() int
	CabacInitIdc() int
	PPSConstrainedIntraPredFlag() bool
	CurrentNalUnitType() int
}

// condTermFlag implements the recurring "is this neighbor unavailable, or
// does it satisfy some per-element predicate" shape used across
// clause 9.3.3.1.1's condTermFlag rules: 0 if unavailable, else the
// predicate's value as 0/1.
func condTermFlag(n NeighborMB, pred func(MacroblockDescriptor) bool) int {
	if !n.Available {
		return 0
	}
	if pred(n.MB) {
		return 1
	}
	return 0
}
