/*
DESCRIPTION
  errors.go declares the sentinel errors surfaced by the symbol decoder.

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

import "errors"

// ErrInvalidCDF is raised by ReadSymbol when handed a CDF too short to
// describe even a single symbol (it must carry at least one probability
// entry plus the trailing update-rate count).
var ErrInvalidCDF = errors.New("av1: cdf must have at least 2 entries")
