/*
DESCRIPTION
  fakes_test.go provides a bit-slice BitSource and a minimal NeighborProvider
  used across this package's tests.

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

// bitSliceSource is a BitSource backed by an in-memory slice of 0/1 ints,
// for tests that want to script an exact bin sequence without hand-packing
// bytes.
type bitSliceSource struct {
	bits []int
	pos  int
}

func newBitSliceSource(bits ...int) *bitSliceSource {
	return &bitSliceSource{bits: bits}
}

func (s *bitSliceSource) ReadBit() (bool, error) {
	if s.pos >= len(s.bits) {
		return false, ErrBitstreamExhausted
	}
	b := s.bits[s.pos] != 0
	s.pos++
	return b, nil
}

// byteSource is a BitSource backed by a byte slice, MSB first.
type byteSource struct {
	buf []byte
	pos int // bit position
}

func newByteSource(buf ...byte) *byteSource {
	return &byteSource{buf: buf}
}

func (s *byteSource) ReadBit() (bool, error) {
	byteIdx := s.pos >> 3
	if byteIdx >= len(s.buf) {
		return false, ErrBitstreamExhausted
	}
	shift := 7 - uint(s.pos&7)
	bit := (s.buf[byteIdx] >> shift) & 1
	s.pos++
	return bit != 0, nil
}

// fakeProvider is a minimal NeighborProvider where every neighbor is
// unavailable and every descriptor is its zero value, suitable for tests
// that exercise the neighbor-independent parts of a binarization tree.
type fakeProvider struct {
	cabacInitIdc    int
	constrainedIntra bool
	nalUnitType     int
	currAddr        int

	// neighborA and neighborB are returned by DeriveNeighbors and by every
	// block-level neighbor call, letting a test script specific condTermFlag
	// inputs; their zero value is an unavailable neighbor.
	neighborA, neighborB NeighborMB
}

func (p *fakeProvider) TryGetMacroblock(address int) (MacroblockDescriptor, bool) {
	return MacroblockDescriptor{}, false
}

func (p *fakeProvider) ForceGetMacroblock(address int) (MacroblockDescriptor, error) {
	return MacroblockDescriptor{}, ErrMissingNeighbor
}

func (p *fakeProvider) DeriveNeighbors(address int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) DeriveNeighborPartitions(mbPartIdx, currSubMbType, subMbPartIdx int) (a, b, c, d NeighborPartition) {
	return
}

func (p *fakeProvider) DeriveNeighbor4x4Luma(address, blkIdx int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) DeriveNeighbor4x4Chroma(address, blkIdx int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) DeriveNeighbor8x8Luma(address, blkIdx int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) DeriveNeighbor8x8LumaChromaArrayType3(address, blkIdx int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) DeriveNeighbor8x8ChromaArrayType3(address, blkIdx int) (a, b NeighborMB) {
	return p.neighborA, p.neighborB
}

func (p *fakeProvider) MbPartPredMode(desc MacroblockDescriptor, mbPartIdx int) PredMode {
	return desc.PredModes[mbPartIdx]
}

func (p *fakeProvider) SubMbPredMode(address int, subMbType int) PredMode {
	return PredModeNone
}

func (p *fakeProvider) CurrMbAddr() int                      { return p.currAddr }
func (p *fakeProvider) CabacInitIdc() int                    { return p.cabacInitIdc }
func (p *fakeProvider) PPSConstrainedIntraPredFlag() bool    { return p.constrainedIntra }
func (p *fakeProvider) CurrentNalUnitType() int              { return p.nalUnitType }
