package generator

import (
	"sync"

	"tectonicfield/core"
	"tectonicfield/noise"
)

// Slot is an output slot that always holds at most one live bundle.
// Regenerating releases the previous bundle first, whatever the outcome of
// the new run.
type Slot struct {
	gen *Generator

	mu      sync.Mutex
	current *FieldBundle
}

// NewSlot creates an empty slot backed by gen
func NewSlot(gen *Generator) *Slot {
	return &Slot{gen: gen}
}

// Current returns the live bundle, nil if the slot is empty
func (s *Slot) Current() *FieldBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Regenerate releases the current bundle and generates a new one. On error
// the slot is left empty.
func (s *Slot) Regenerate(params core.ParameterSet, np *noise.Params) (*FieldBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current.Release()
	s.current = nil

	var (
		b   *FieldBundle
		err error
	)
	if np != nil {
		b, err = s.gen.GenerateAll(params, *np)
	} else {
		b, err = s.gen.Generate(params)
	}
	if err != nil {
		return nil, err
	}
	s.current = b
	return b, nil
}

// Release empties the slot. It is safe to call repeatedly.
func (s *Slot) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Release()
	s.current = nil
}
