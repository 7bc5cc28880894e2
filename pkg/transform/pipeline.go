package transform

import (
	"errors"
	"fmt"
)

// Pipeline chains transforms: Apply runs them 0..N, Reverse runs them N..0.
type Pipeline struct {
	transforms []Transform
}

// NewPipeline creates a pipeline from the given transforms. Requires at
// least one transform; use NewNoOpTransform() for an explicitly empty
// pipeline.
func NewPipeline(transforms []Transform) (*Pipeline, error) {
	if len(transforms) == 0 {
		return nil, errors.New("pipeline requires at least one transform; use NewNoOpTransform() for an empty pipeline")
	}

	s := make([]Transform, len(transforms))
	copy(s, transforms)

	return &Pipeline{transforms: s}, nil
}

// Apply runs the pipeline transforms in forward order (0..N).
func (p *Pipeline) Apply(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i, tr := range p.transforms {
		current, err = tr.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("pipeline: transform %d (%T) Apply failed: %w", i, tr, err)
		}
	}
	return current, nil
}

// Reverse runs the pipeline transforms in reverse order (N..0).
func (p *Pipeline) Reverse(payload []byte) ([]byte, error) {
	var err error
	current := payload
	for i := len(p.transforms) - 1; i >= 0; i-- {
		tr := p.transforms[i]
		current, err = tr.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("pipeline: transform %d (%T) Reverse failed: %w", i, tr, err)
		}
	}
	return current, nil
}
