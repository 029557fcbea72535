package core

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestScalarField(t *testing.T) {
	f := NewScalarField(3, 2)
	if f.Len() != 6 {
		t.Fatalf("len: got %d, want 6", f.Len())
	}
	for i := range f.Data {
		f.Data[i] = float32(i) - 2
	}
	if got := f.At(2, 1); got != 3 {
		t.Errorf("At(2,1): got %f, want 3", got)
	}
	if got := f.Index(1, 1); got != 4 {
		t.Errorf("Index(1,1): got %d, want 4", got)
	}
	lo, hi := f.MinMax()
	if lo != -2 || hi != 3 {
		t.Errorf("MinMax: got (%f, %f), want (-2, 3)", lo, hi)
	}

	var buf bytes.Buffer
	n, err := f.WriteTo(&buf)
	if err != nil || n != 24 {
		t.Fatalf("WriteTo: got %d, %v", n, err)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf.Bytes()[20:])); got != 3 {
		t.Errorf("last sample: got %f, want 3", got)
	}
}

func TestIDField(t *testing.T) {
	f := NewIDField(4, 1)
	copy(f.Data, []int32{0, 2, 2, 255})

	if got := f.At(3, 0); got != 255 {
		t.Errorf("At(3,0): got %d, want 255", got)
	}
	norm := f.Normalized()
	want := []float32{0, 2.0 / 255, 2.0 / 255, 1}
	for i := range want {
		if norm[i] != want[i] {
			t.Errorf("Normalized[%d]: got %f, want %f", i, norm[i], want[i])
		}
	}

	hist := f.Histogram(3)
	if hist[0] != 1 || hist[1] != 0 || hist[2] != 2 {
		t.Errorf("Histogram: got %v, want [1 0 2]", hist)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if got := int32(binary.LittleEndian.Uint32(buf.Bytes()[4:])); got != 2 {
		t.Errorf("second id: got %d, want 2", got)
	}
}
