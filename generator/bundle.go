package generator

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"hash"
	"math"
	"sync"

	"github.com/google/uuid"

	"tectonicfield/core"
	"tectonicfield/simulation"
)

// ErrReleased is returned when a released bundle is used to run kernels
var ErrReleased = errors.New("field bundle released")

// FieldBundle owns everything one generation run produced. Consumers read it;
// nothing writes to it after Generate returns except Release and
// GenerateNoise attaching the height field.
type FieldBundle struct {
	RunID   uuid.UUID
	Params  core.ParameterSet
	Seed    int32
	Profile core.Profile

	mu       sync.RWMutex
	released bool
	plates   *simulation.PlateSet
	plateIDs *core.IDField
	delta    *core.ScalarField
	height   *core.ScalarField
}

func newBundle(params core.ParameterSet, profile core.Profile) *FieldBundle {
	return &FieldBundle{
		RunID:   uuid.New(),
		Params:  params,
		Seed:    params.ResolvedSeed(),
		Profile: profile,
	}
}

// HasPlates reports whether plates and plate fields were generated
func (b *FieldBundle) HasPlates() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.plates.Len() > 0
}

// Plates returns the plate set, nil when tectonics is inactive or released
func (b *FieldBundle) Plates() *simulation.PlateSet {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.plates
}

// PlateCount returns the number of plates, 0 without tectonics
func (b *FieldBundle) PlateCount() int {
	return b.Plates().Len()
}

// PlateIDs returns the plate-id field
func (b *FieldBundle) PlateIDs() *core.IDField {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.plateIDs
}

// BoundaryDelta returns the boundary-delta field
func (b *FieldBundle) BoundaryDelta() *core.ScalarField {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.delta
}

// HeightNoise returns the noise field attached by GenerateNoise, if any
func (b *FieldBundle) HeightNoise() *core.ScalarField {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.height
}

// Released reports whether Release has been called
func (b *FieldBundle) Released() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.released
}

// Release drops the plate set and all fields so their storage can be
// reclaimed. Calling it more than once is a no-op.
func (b *FieldBundle) Release() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return
	}
	b.released = true
	b.plates = nil
	b.plateIDs = nil
	b.delta = nil
	b.height = nil
}

func (b *FieldBundle) attachHeight(f *core.ScalarField) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.released {
		return ErrReleased
	}
	b.height = f
	return nil
}

// Digest hashes the plate set and the plate fields. Two runs with the same
// parameters and a non-zero seed have the same digest. The height field is
// excluded because it is generated separately.
func (b *FieldBundle) Digest() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	h := sha256.New()
	writeInt(h, int64(b.Seed))
	if b.plates != nil {
		for _, p := range b.plates.Plates {
			writeInt(h, int64(p.ID))
			writeInt(h, int64(p.Crust))
			writeFloat(h, p.U, p.V, p.Center[0], p.Center[1], p.Center[2],
				p.Movement[0], p.Movement[1], p.Movement[2], p.Speed)
		}
	}
	if b.plateIDs != nil {
		_, _ = b.plateIDs.WriteTo(h)
	}
	if b.delta != nil {
		_, _ = b.delta.WriteTo(h)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeInt(h hash.Hash, v int64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	h.Write(buf[:])
}

func writeFloat(h hash.Hash, vs ...float64) {
	var buf [8]byte
	for _, v := range vs {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
