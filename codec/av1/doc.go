/*
DESCRIPTION
  Package av1 implements the AOM AV1 symbol decoder: a 15-bit range coder
  that decodes multi-symbol values against caller-supplied cumulative
  distribution functions (CDFs), adapting each CDF in place unless
  adaptation is disabled.

  This package does not parse OBUs or frame/tile headers and does not
  build the block partition or prediction-mode machinery that supplies
  CDFs in a real AV1 decoder; a caller owns all of that and hands this
  package only a byte buffer and the CDF for each symbol it wants read.

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
