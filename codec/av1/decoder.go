/*
DESCRIPTION
  decoder.go implements the AV1 symbol decoder's range-coder state machine:
  construction, symbol decode with CDF adaptation, and the boolean/literal
  helpers built on top of it.

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
package av1

import "math/bits"

// symbolRangeBits is the fixed precision of the range register.
const symbolRangeBits = 15

// probTop is the top of the probability scale (1 << symbolRangeBits).
const probTop = 1 << symbolRangeBits

// SymbolDecoder is a 15-bit range coder that decodes multi-symbol values
// against caller-supplied CDFs, adapting each CDF in place unless
// adaptation is disabled for this decoder. It holds its own register
// state and is not safe for concurrent use.
type SymbolDecoder struct {
	buf    []byte
	bitPos int // next bit to pull from buf, MSB-first within each byte

	symbolValue   uint32
	symbolRange   uint32
	symbolMaxBits int

	disableCDFUpdate bool
}

// NewSymbolDecoder constructs a SymbolDecoder over buf. It reads
// min(len(buf)*8, 15) bits from the front of buf to seed the register,
// per the AV1 init_symbol process. disableCDFUpdate turns off the
// in-place CDF adaptation step of ReadSymbol, matching a decoder running
// in a context where probability models must stay fixed.
func NewSymbolDecoder(buf []byte, disableCDFUpdate bool) *SymbolDecoder {
	d := &SymbolDecoder{
		buf:              buf,
		symbolRange:      probTop,
		disableCDFUpdate: disableCDFUpdate,
	}

	sz := len(buf)
	numBits := mini(sz*8, symbolRangeBits)
	raw := d.readBufBits(numBits)
	padded := raw << uint(symbolRangeBits-numBits)
	d.symbolValue = uint32(probTop-1) ^ padded
	d.symbolMaxBits = 8*sz - symbolRangeBits

	return d
}

// ReadSymbol decodes one symbol against cdf, an array of cumulative
// probabilities of length N+1 where N is the number of symbols and the
// final entry is an adaptation-rate counter, not a probability. It
// renormalizes the register afterwards and, unless adaptation is
// disabled, nudges cdf towards the decoded symbol in place.
func (d *SymbolDecoder) ReadSymbol(cdf []uint16) (int, error) {
	if len(cdf) < 2 {
		return 0, ErrInvalidCDF
	}
	n := len(cdf) - 1

	cur := d.symbolRange
	prev := cur
	symbol := -1
	for {
		prev = cur
		symbol++
		f := uint32(probTop) - uint32(cdf[symbol])
		cur = (((d.symbolRange >> 8) * (f >> 6)) >> 1) + uint32(4*(n-symbol-1))
		if d.symbolValue >= cur || symbol == n-1 {
			break
		}
	}

	d.symbolRange = prev - cur
	d.symbolValue -= cur
	d.normalize()

	if !d.disableCDFUpdate {
		updateCDF(cdf, symbol, n)
	}

	return symbol, nil
}

// normalize restores symbolRange to the top of its 15-bit precision,
// shifting fresh bits from buf into symbolValue as needed and charging
// them against the remaining bit budget (symbolMaxBits).
func (d *SymbolDecoder) normalize() {
	shift := symbolRangeBits - floorLog2(d.symbolRange)
	if shift <= 0 {
		return
	}
	numBits := mini(shift, maxi(0, d.symbolMaxBits))
	newData := d.readBufBits(numBits)
	padded := newData << uint(shift-numBits)

	d.symbolRange <<= uint(shift)
	d.symbolValue = ((d.symbolValue << uint(shift)) | padded) & (probTop - 1)
	d.symbolMaxBits -= numBits
}

// updateCDF adapts cdf in place towards the decoded symbol, per the AV1
// update_cdf process: each entry cdf[0..n-2] is nudged towards probTop if
// it is the decoded symbol's slot, or towards 0 otherwise, at a rate that
// slows as the count grows. cdf[n-1] is left as it is, and the count
// cdf[n] is incremented until it reaches 32.
func updateCDF(cdf []uint16, symbol, n int) {
	count := cdf[n]
	rate := 3
	if count > 15 {
		rate++
	}
	if count > 31 {
		rate++
	}
	rate += mini(floorLog2(uint32(n)), 2)

	for i := 0; i < n-1; i++ {
		var target uint16
		if i == symbol {
			target = probTop
		}
		if target < cdf[i] {
			cdf[i] -= (cdf[i] - target) >> uint(rate)
		} else {
			cdf[i] += (target - cdf[i]) >> uint(rate)
		}
	}
	if count < 32 {
		cdf[n]++
	}
}

// readBit decodes a single bit against a fixed, non-adapting 50/50 CDF.
// It underlies both ReadBoolean and ReadLiteral.
func (d *SymbolDecoder) readBit() (int, error) {
	cdf := [3]uint16{probTop / 2, probTop, 0}
	return d.ReadSymbol(cdf[:])
}

// ReadBoolean decodes a single boolean against a fixed 50/50 CDF.
func (d *SymbolDecoder) ReadBoolean() (bool, error) {
	bit, err := d.readBit()
	if err != nil {
		return false, err
	}
	return bit == 0, nil
}

// ReadLiteral decodes an n-bit unsigned literal, most-significant bit
// first, as n independent 50/50 boolean reads.
func (d *SymbolDecoder) ReadLiteral(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := d.readBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint32(bit)
	}
	return v, nil
}

// readBufBits reads n bits from buf starting at bitPos, most-significant
// bit first within each byte, returning 0 for any bit positions past the
// end of buf. It always advances bitPos by n.
func (d *SymbolDecoder) readBufBits(n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v <<= 1
		byteIdx := d.bitPos >> 3
		if byteIdx < len(d.buf) {
			shift := 7 - uint(d.bitPos&7)
			v |= uint32((d.buf[byteIdx] >> shift) & 1)
		}
		d.bitPos++
	}
	return v
}

// floorLog2 returns the position of the highest set bit of x (0 for x==0),
// i.e. floor(log2(x)) for x > 0. Implemented with math/bits rather than
// math.Log2 to avoid a float round-trip on the decode hot path.
func floorLog2(x uint32) int {
	if x == 0 {
		return 0
	}
	return bits.Len32(x) - 1
}

func mini(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
