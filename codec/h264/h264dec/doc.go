/*
DESCRIPTION
  Package h264dec implements the ITU-T H.264 CABAC entropy decoder: the
  binary arithmetic engine (clause 9.3.3.2), the context model table and
  its per-slice initialization (clause 9.3.1.1), and the binarization and
  ctxIdxInc derivation for the syntax elements CABAC covers (clause 9.3.2).

  This package does not parse NAL units, SPS/PPS, or slice headers, does
  not build the macroblock/neighbor graph, and does not implement CAVLC or
  CABAC encoding; a caller supplies slice-level parameters directly and
  implements NeighborProvider (see provider.go) over its own bitstream
  parser and macroblock store.

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
