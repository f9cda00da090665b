/*
DESCRIPTION
  binarization.go implements the generic binarization schemes of clause
  9.3.2: fixed-length (FL), unary (U), truncated unary (TU), and the
  unary/k-th order Exp-Golomb scheme (UEGk) used for motion vector
  differences and absolute coefficient levels.

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

import "github.com/pkg/errors"

// maxUnaryBins is the cap past which a unary binarization is considered
// malformed.
const maxUnaryBins = 24

// readFL decodes a fixed-length value of ceil(log2(cMax+1)) bins, each
// driven by the context returned by ctxFor(binIdx).
func (d *Decoder) readFL(cMax int, ctxFor func(binIdx int) *Context) (int, error) {
	numBins := fixedLengthBins(cMax)
	val := 0
	for bin := 0; bin < numBins; bin++ {
		b, err := d.readBin(ctxFor(bin))
		if err != nil {
			return 0, errors.Wrap(err, "readFL")
		}
		val <<= 1
		if b {
			val |= 1
		}
	}
	return val, nil
}

// fixedLengthBins returns ceil(log2(cMax+1)), the number of bins an FL(cMax)
// binarization consumes.
func fixedLengthBins(cMax int) int {
	n := 0
	for (1 << n) <= cMax {
		n++
	}
	return n
}

// readUnary decodes an unbounded unary value (terminated by a 0 bin),
// capped at maxUnaryBins.
func (d *Decoder) readUnary(ctxFor func(binIdx int) *Context) (int, error) {
	val := 0
	for {
		if val >= maxUnaryBins {
			return 0, ErrMalformedStream
		}
		b, err := d.readBin(ctxFor(val))
		if err != nil {
			return 0, errors.Wrap(err, "readUnary")
		}
		if !b {
			return val, nil
		}
		val++
	}
}

// readTU decodes a truncated-unary value: unary, unless cMax is reached, in
// which case the terminating 0 bin is omitted.
func (d *Decoder) readTU(cMax int, ctxFor func(binIdx int) *Context) (int, error) {
	val := 0
	for val < cMax {
		b, err := d.readBin(ctxFor(val))
		if err != nil {
			return 0, errors.Wrap(err, "readTU")
		}
		if !b {
			return val, nil
		}
		val++
	}
	return val, nil
}

// readExpGolombSuffix decodes the k-th order Exp-Golomb bypass suffix used
// by UEGk once the truncated-unary prefix saturates:
//
//	x = 0; while bypass() == 1: x += 1<<k; k++
//	then read k bypass bits MSB-first into the low bits of x.
func (d *Decoder) readExpGolombSuffix(k int) (int, error) {
	x := 0
	for {
		b, err := d.eng.readBypass()
		if err != nil {
			return 0, errors.Wrap(err, "readExpGolombSuffix prefix")
		}
		if !b {
			break
		}
		x += 1 << uint(k)
		k++
	}
	for ; k > 0; k-- {
		b, err := d.eng.readBypass()
		if err != nil {
			return 0, errors.Wrap(err, "readExpGolombSuffix suffix")
		}
		bit := 0
		if b {
			bit = 1
		}
		x |= bit << uint(k-1)
	}
	return x, nil
}

// readUEGk decodes the full UEGk binarization: a truncated-unary prefix
// (capped at uCoff) consuming context-driven bins via ctxFor, followed by
// an Exp-Golomb-k bypass suffix if the prefix saturates, followed by a
// bypass sign bit if signed.
func (d *Decoder) readUEGk(uCoff, k int, signed bool, ctxFor func(binIdx int) *Context) (int, error) {
	prefix, err := d.readTU(uCoff, ctxFor)
	if err != nil {
		return 0, errors.Wrap(err, "readUEGk prefix")
	}

	val := prefix
	if prefix == uCoff {
		suffix, err := d.readExpGolombSuffix(k)
		if err != nil {
			return 0, errors.Wrap(err, "readUEGk suffix")
		}
		val += suffix
	}

	if !signed {
		return val, nil
	}
	if val == 0 {
		return 0, nil
	}
	sign, err := d.eng.readBypass()
	if err != nil {
		return 0, errors.Wrap(err, "readUEGk sign")
	}
	if sign {
		return -val, nil
	}
	return val, nil
}

// mapSigned implements the UEGk sign mapping:
// map(x) = ((-1)^(x+1)) * ceil(x/2), for codeNum x >= 0.
func mapSigned(x int) int {
	if x == 0 {
		return 0
	}
	mag := (x + 1) / 2
	if x%2 == 1 {
		return mag
	}
	return -mag
}

// unmapSigned is the inverse of mapSigned, used by property-based
// round-trip tests.
func unmapSigned(v int) int {
	if v == 0 {
		return 0
	}
	if v > 0 {
		return 2*v - 1
	}
	return -2 * v
}

// readBin dispatches to the engine's context-driven decision primitive,
// or to bypass if ctx is nil (used by bypass-only elements such as
// coeff_sign_flag).
func (d *Decoder) readBin(ctx *Context) (bool, error) {
	if ctx == nil {
		return d.eng.readBypass()
	}
	return d.eng.readDecision(ctx)
}
