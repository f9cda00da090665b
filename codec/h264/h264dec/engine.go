/*
DESCRIPTION
  engine.go implements the CABAC binary arithmetic decoding engine: the
  codIRange/codIOffset register pair and its three read primitives, as
  specified in ITU-T H.264 clause 9.3.3.2.

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
	"github.com/ausocean/av/codec/h264/h264dec/bits"
	"github.com/pkg/errors"
)

// engine holds the arithmetic decoding engine's register state (9.3.3.2).
// It is exclusive to one Decoder and is not safe for concurrent use.
type engine struct {
	src        bits.BitSource
	codIRange  int
	codIOffset int
}

// newEngine constructs the arithmetic decoding engine with codIRange
// initialized to 510 (clause 9.3.1.2) and codIOffset set to initialOffset:
// the 9 raw bits read just before the first decoded element. Those bits
// are read externally, by the bitstream-parsing layer this library does
// not reimplement, rather than by the engine itself.
func newEngine(src bits.BitSource, initialOffset int) *engine {
	return &engine{src: src, codIRange: 510, codIOffset: initialOffset}
}

// readDecision implements DecodeDecision (9.3.3.2.1): a context-adaptive
// bin read that mutates both the engine registers and the supplied context
// model in place.
func (e *engine) readDecision(ctx *Context) (bool, error) {
	qCodIRangeIdx := (e.codIRange >> 6) & 3
	codIRangeLPS, err := retCodIRangeLPS(ctx.PStateIdx, qCodIRangeIdx)
	if err != nil {
		return false, errors.Wrap(err, "could not look up codIRangeLPS")
	}

	e.codIRange -= codIRangeLPS

	var binVal bool
	if e.codIOffset >= e.codIRange {
		binVal = !ctx.MPS
		e.codIOffset -= e.codIRange
		e.codIRange = codIRangeLPS
		if ctx.PStateIdx == 0 {
			ctx.MPS = !ctx.MPS
		}
		ctx.PStateIdx = lpsTransition[ctx.PStateIdx]
	} else {
		binVal = ctx.MPS
		ctx.PStateIdx = mpsTransition[ctx.PStateIdx]
	}

	if err := e.renormalize(); err != nil {
		return false, errors.Wrap(err, "could not renormalize after decision")
	}
	return binVal, nil
}

// readBypass implements DecodeBypass (9.3.3.2.3): an equiprobable bin read
// that consumes exactly one bit and performs no renormalization.
func (e *engine) readBypass() (bool, error) {
	bit, err := e.src.ReadBit()
	if err != nil {
		return false, ErrBitstreamExhausted
	}
	e.codIOffset <<= 1
	if bit {
		e.codIOffset |= 1
	}

	if e.codIOffset >= e.codIRange {
		e.codIOffset -= e.codIRange
		return true, nil
	}
	return false, nil
}

// readTerminate implements DecodeTerminate (9.3.3.2.4), used for
// end_of_slice_flag and to detect I_PCM. A true return means the stream has
// signalled termination; the engine must not be used further in that case.
func (e *engine) readTerminate() (bool, error) {
	e.codIRange -= 2
	if e.codIOffset >= e.codIRange {
		return true, nil
	}
	if err := e.renormalize(); err != nil {
		return false, errors.Wrap(err, "could not renormalize after terminate")
	}
	return false, nil
}

// renormalize implements RenormD (9.3.3.2.2): doubles codIRange and shifts
// in fresh bits until codIRange is at least 256.
func (e *engine) renormalize() error {
	for e.codIRange < 256 {
		e.codIRange <<= 1
		e.codIOffset <<= 1
		bit, err := e.src.ReadBit()
		if err != nil {
			return ErrBitstreamExhausted
		}
		if bit {
			e.codIOffset |= 1
		}
	}
	return nil
}
