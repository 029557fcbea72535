package core

import (
	"encoding/binary"
	"io"
	"math"
)

// ScalarField is a W×H grid of float32 samples, row-major, origin top-left.
// A kernel writes every cell exactly once; consumers only read it.
type ScalarField struct {
	Width  int
	Height int
	Data   []float32
}

// NewScalarField allocates a zeroed field
func NewScalarField(width, height int) *ScalarField {
	return &ScalarField{Width: width, Height: height, Data: make([]float32, width*height)}
}

// Len returns the number of cells
func (f *ScalarField) Len() int { return len(f.Data) }

// Index returns the row-major offset of cell (x, y)
func (f *ScalarField) Index(x, y int) int { return y*f.Width + x }

// At returns the sample at (x, y)
func (f *ScalarField) At(x, y int) float32 { return f.Data[y*f.Width+x] }

// MinMax returns the smallest and largest sample
func (f *ScalarField) MinMax() (lo, hi float32) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	lo, hi = f.Data[0], f.Data[0]
	for _, v := range f.Data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// WriteTo writes the samples as little-endian IEEE-754 bits
func (f *ScalarField) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*len(f.Data))
	for i, v := range f.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// IDField is a W×H grid of plate ids
type IDField struct {
	Width  int
	Height int
	Data   []int32
}

// NewIDField allocates a field with every cell set to plate 0
func NewIDField(width, height int) *IDField {
	return &IDField{Width: width, Height: height, Data: make([]int32, width*height)}
}

func (f *IDField) Len() int { return len(f.Data) }

func (f *IDField) At(x, y int) int32 { return f.Data[y*f.Width+x] }

// Normalized encodes each id as id/255 for texture consumers
func (f *IDField) Normalized() []float32 {
	out := make([]float32, len(f.Data))
	for i, id := range f.Data {
		out[i] = float32(id) / 255
	}
	return out
}

// Histogram counts the cells owned by each plate
func (f *IDField) Histogram(plateCount int) []int {
	counts := make([]int, plateCount)
	for _, id := range f.Data {
		if int(id) < plateCount && id >= 0 {
			counts[id]++
		}
	}
	return counts
}

// WriteTo writes the ids as little-endian int32
func (f *IDField) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 4*len(f.Data))
	for i, id := range f.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(id))
	}
	n, err := w.Write(buf)
	return int64(n), err
}
