package av1

import "testing"

func TestReadBooleanAndLiteral(t *testing.T) {
	// sz=1, bitstream 0b10000000, CDF update disabled: the first boolean
	// read is false, and a subsequent 4-bit literal read is 0.
	d := NewSymbolDecoder([]byte{0x80}, true)

	got, err := d.ReadBoolean()
	if err != nil {
		t.Fatalf("ReadBoolean: %v", err)
	}
	if got != false {
		t.Errorf("ReadBoolean = %v, want false", got)
	}

	lit, err := d.ReadLiteral(4)
	if err != nil {
		t.Fatalf("ReadLiteral: %v", err)
	}
	if lit != 0 {
		t.Errorf("ReadLiteral(4) = %d, want 0", lit)
	}
}

func TestReadSymbolInvalidCDF(t *testing.T) {
	d := NewSymbolDecoder([]byte{0x00}, true)
	if _, err := d.ReadSymbol([]uint16{0}); err != ErrInvalidCDF {
		t.Errorf("ReadSymbol with 1-entry cdf: got err %v, want ErrInvalidCDF", err)
	}
}

func TestReadSymbolRangeStaysInBounds(t *testing.T) {
	// A long run of reads against a skewed CDF must keep symbolRange
	// within its 15-bit precision and never panic on index bounds.
	buf := make([]byte, 64)
	for i := range buf {
		buf[i] = byte(i * 37)
	}
	d := NewSymbolDecoder(buf, false)
	cdf := []uint16{24576, 32768, 0}

	for i := 0; i < 256; i++ {
		sym, err := d.ReadSymbol(cdf)
		if err != nil {
			t.Fatalf("ReadSymbol iteration %d: %v", i, err)
		}
		if sym != 0 && sym != 1 {
			t.Fatalf("ReadSymbol iteration %d: got symbol %d, want 0 or 1", i, sym)
		}
		if d.symbolRange == 0 || d.symbolRange >= 1<<16 {
			t.Fatalf("ReadSymbol iteration %d: symbolRange out of range: %d", i, d.symbolRange)
		}
	}
}

func TestUpdateCDFAdaptsTowardsSymbol(t *testing.T) {
	cdf := []uint16{16384, 32768, 0}
	updateCDF(cdf, 0, 2)
	if cdf[0] <= 16384 {
		t.Errorf("updateCDF towards symbol 0: cdf[0] = %d, want > 16384", cdf[0])
	}
	if cdf[2] != 1 {
		t.Errorf("updateCDF count = %d, want 1", cdf[2])
	}
}

func TestFloorLog2(t *testing.T) {
	cases := []struct {
		x    uint32
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 1},
		{1 << 15, 15},
		{(1 << 15) - 1, 14},
	}
	for _, c := range cases {
		if got := floorLog2(c.x); got != c.want {
			t.Errorf("floorLog2(%d) = %d, want %d", c.x, got, c.want)
		}
	}
}
