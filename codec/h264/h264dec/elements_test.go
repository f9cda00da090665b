package h264dec

import "testing"

// newElementsTestDecoder builds a Decoder whose engine's codIOffset is
// pinned at 0 by zeroBitSource, so every context-adaptive decision decodes
// exactly that context's MPS value (see the comment on zeroBitSource in
// mbtype_test.go). This lets a test script an element's output bin by bin
// by presetting each ctxIdx it expects to be consulted.
func newElementsTestDecoder(provider NeighborProvider) *Decoder {
	return &Decoder{
		provider: provider,
		eng:      newEngine(zeroBitSource{}, 0),
		ctx:      &ContextTable{},
	}
}

func TestDecodeCodedBlockPatternAllZero(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	// Every condTerm is 0 with no neighbors available, so all four luma
	// bins and the chroma prefix bin share ctxIdx 73 and 77 respectively;
	// leaving their MPS at the zero value (false) decodes cbp 0.
	got, err := d.DecodeCodedBlockPattern()
	if err != nil {
		t.Fatalf("DecodeCodedBlockPattern: %v", err)
	}
	if got != 0 {
		t.Errorf("DecodeCodedBlockPattern = %d, want 0", got)
	}
}

func TestDecodeCodedBlockPatternFull(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	d.ctx.at(73).MPS = true // all four luma 8x8 blocks coded
	d.ctx.at(77).MPS = true // chroma prefix bin: chroma != 0
	d.ctx.at(81).MPS = true // chroma suffix bin (77+4): chroma == 2

	got, err := d.DecodeCodedBlockPattern()
	if err != nil {
		t.Fatalf("DecodeCodedBlockPattern: %v", err)
	}
	want := 15 + 16*2 // luma = 0b1111, chroma = 2
	if got != want {
		t.Errorf("DecodeCodedBlockPattern = %d, want %d", got, want)
	}
}

func TestDecodeCodedBlockPatternChromaOneStopsAtPrefix(t *testing.T) {
	// chroma prefix bin true, suffix bin false: chroma must land on 1, not
	// fall through to 2 or stay at 0. This is the case that a break
	// condition keyed on the wrong chroma value would get wrong.
	d := newElementsTestDecoder(&fakeProvider{})
	d.ctx.at(77).MPS = true
	d.ctx.at(81).MPS = false

	got, err := d.DecodeCodedBlockPattern()
	if err != nil {
		t.Fatalf("DecodeCodedBlockPattern: %v", err)
	}
	want := 0 + 16*1
	if got != want {
		t.Errorf("DecodeCodedBlockPattern = %d, want %d", got, want)
	}
}

func TestDecodeMbQpDeltaUnary(t *testing.T) {
	// ctxIdxOffset 60: bin 0 uses ctx 60, bin 1 uses ctx 62, bins 2+ use
	// ctx 63 (see CtxIdx's case 60). Two true bins then a false bin
	// decodes unary value 2.
	d := newElementsTestDecoder(&fakeProvider{})
	d.ctx.at(60).MPS = true
	d.ctx.at(62).MPS = true
	d.ctx.at(63).MPS = false

	got, err := d.DecodeMbQpDelta()
	if err != nil {
		t.Fatalf("DecodeMbQpDelta: %v", err)
	}
	if got != 2 {
		t.Errorf("DecodeMbQpDelta = %d, want 2", got)
	}
}

func TestDecodeMbQpDeltaZero(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	got, err := d.DecodeMbQpDelta()
	if err != nil {
		t.Fatalf("DecodeMbQpDelta: %v", err)
	}
	if got != 0 {
		t.Errorf("DecodeMbQpDelta = %d, want 0", got)
	}
}

func TestDecodeEndOfSliceFlag(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	got, err := d.DecodeEndOfSliceFlag()
	if err != nil {
		t.Fatalf("DecodeEndOfSliceFlag: %v", err)
	}
	if got {
		t.Errorf("DecodeEndOfSliceFlag = true, want false (codIOffset pinned below codIRange-2)")
	}
}

func TestResetCurrentCBP(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	d.currentCBP = 0xf
	d.ResetCurrentCBP()
	if d.currentCBP != 0 {
		t.Errorf("currentCBP after ResetCurrentCBP = %d, want 0", d.currentCBP)
	}
}

func TestContextAccessor(t *testing.T) {
	d := newElementsTestDecoder(&fakeProvider{})
	d.ctx.at(5).MPS = true
	d.ctx.at(5).PStateIdx = 12
	got := d.Context(5)
	if got.MPS != true || got.PStateIdx != 12 {
		t.Errorf("Context(5) = %+v, want {PStateIdx:12 MPS:true}", got)
	}
}
