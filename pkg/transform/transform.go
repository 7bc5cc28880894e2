// Package transform provides reversible payload transforms and a pipeline
// that applies them in order. Every transform must satisfy
// Reverse(Apply(data)) == data so a pipeline run forward over a payload can
// always be undone by running it backward.
package transform

type Transform interface {
	Apply(data []byte) ([]byte, error)
	Reverse(data []byte) ([]byte, error)
}

type noOpTransform struct{}

func NewNoOpTransform() Transform                            { return &noOpTransform{} }
func (n *noOpTransform) Apply(data []byte) ([]byte, error)   { return data, nil }
func (n *noOpTransform) Reverse(data []byte) ([]byte, error) { return data, nil }
