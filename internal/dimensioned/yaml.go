package dimensioned

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrMalformed = errors.New("dimensioned: malformed entry")

// Entries are encoded as {dimensions: [M L T Θ N I J], value: ...}.

type scalarEntry struct {
	Dimensions *Dimensions `yaml:"dimensions"`
	Value      *float64    `yaml:"value"`
}

type vectorEntry struct {
	Dimensions *Dimensions `yaml:"dimensions"`
	Value      *Vec3       `yaml:"value"`
}

func flowNode(v interface{}) (interface{}, error) {
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	return n, nil
}

func (s Scalar) MarshalYAML() (interface{}, error) {
	return flowNode(scalarEntry{Dimensions: &s.Dims, Value: &s.Value})
}

func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	var e scalarEntry
	if err := node.Decode(&e); err != nil {
		return fmt.Errorf("%w: line %d: %v", ErrMalformed, node.Line, err)
	}
	if e.Dimensions == nil || e.Value == nil {
		return fmt.Errorf("%w: line %d: need dimensions and value", ErrMalformed, node.Line)
	}
	s.Dims, s.Value = *e.Dimensions, *e.Value
	return nil
}

func (v Vector) MarshalYAML() (interface{}, error) {
	return flowNode(vectorEntry{Dimensions: &v.Dims, Value: &v.Value})
}

func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	dims, val, err := decodeVec(node)
	if err != nil {
		return err
	}
	v.Dims, v.Value = dims, val
	return nil
}

func (t DiagTensor) MarshalYAML() (interface{}, error) {
	return flowNode(vectorEntry{Dimensions: &t.Dims, Value: &t.Value})
}

func (t *DiagTensor) UnmarshalYAML(node *yaml.Node) error {
	dims, val, err := decodeVec(node)
	if err != nil {
		return err
	}
	t.Dims, t.Value = dims, val
	return nil
}

func decodeVec(node *yaml.Node) (Dimensions, Vec3, error) {
	var e vectorEntry
	if err := node.Decode(&e); err != nil {
		return Dimensions{}, Vec3{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, node.Line, err)
	}
	if e.Dimensions == nil || e.Value == nil {
		return Dimensions{}, Vec3{}, fmt.Errorf("%w: line %d: need dimensions and value", ErrMalformed, node.Line)
	}
	return *e.Dimensions, *e.Value, nil
}
