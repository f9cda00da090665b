package h264dec

import "testing"

func TestNewEngineInitialRange(t *testing.T) {
	e := newEngine(newByteSource(0x00), 0)
	if e.codIRange != 510 {
		t.Errorf("codIRange = %d, want 510", e.codIRange)
	}
}

func TestReadBypassConsumesOneBit(t *testing.T) {
	src := newByteSource(0x80, 0x00)
	e := newEngine(src, 0)
	before := e.codIRange
	if _, err := e.readBypass(); err != nil {
		t.Fatalf("readBypass: %v", err)
	}
	if src.pos != 1 {
		t.Errorf("readBypass consumed %d bits, want 1", src.pos)
	}
	if e.codIRange != before {
		t.Errorf("readBypass must not change codIRange: got %d, want %d", e.codIRange, before)
	}
}

func TestReadTerminateEndOfSlice(t *testing.T) {
	// codIOffset starts at codIRange-2 after subtracting 2, forcing the
	// codIOffset >= codIRange branch (stream-end signal).
	e := newEngine(newByteSource(0x00), 510-2)
	done, err := e.readTerminate()
	if err != nil {
		t.Fatalf("readTerminate: %v", err)
	}
	if !done {
		t.Errorf("readTerminate = false, want true (end of slice)")
	}
}

func TestReadTerminateContinues(t *testing.T) {
	e := newEngine(newByteSource(0x00, 0x00), 0)
	done, err := e.readTerminate()
	if err != nil {
		t.Fatalf("readTerminate: %v", err)
	}
	if done {
		t.Errorf("readTerminate = true, want false")
	}
	if e.codIRange < 256 {
		t.Errorf("codIRange = %d after renormalize, want >= 256", e.codIRange)
	}
}

func TestReadDecisionExhaustedSource(t *testing.T) {
	// codIOffset(300) >= codIRange-codIRangeLPS(270) takes the LPS branch,
	// which leaves codIRange at 240 and forces a renormalize read from an
	// empty source.
	e := newEngine(newByteSource(), 300)
	ctx := &Context{PStateIdx: 0, MPS: false}
	if _, err := e.readDecision(ctx); err == nil {
		t.Error("readDecision with exhausted source: got nil error, want non-nil")
	}
}
