/*
DESCRIPTION
  errors.go declares the sentinel errors surfaced by the CABAC decoder.

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

import "errors"

// Sentinel errors returned by the CABAC decoder. Callers should compare
// against these with errors.Is; wrapping at call sites is done with
// github.com/pkg/errors so context is not lost.
var (
	// ErrBitstreamExhausted is surfaced unchanged from the bit source when a
	// read runs past the end of the stream.
	ErrBitstreamExhausted = errors.New("h264dec: bitstream exhausted")

	// ErrMalformedStream is raised when a unary binarization exceeds its cap
	// (24 bins), or another decode-time invariant would be violated by the
	// stream as given.
	ErrMalformedStream = errors.New("h264dec: malformed stream")

	// ErrMissingNeighbor is raised when the neighbor provider is asked for a
	// macroblock that must exist (the macroblock currently being parsed) and
	// returns absent.
	ErrMissingNeighbor = errors.New("h264dec: required neighbor macroblock missing")

	// ErrInvalidSliceTypeForOperation is raised by DecodeMbType and
	// DecodeSubMbType when invoked with a slice type they do not handle.
	ErrInvalidSliceTypeForOperation = errors.New("h264dec: invalid slice type for operation")
)
