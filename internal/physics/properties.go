package physics

import (
	"bytes"
	"fmt"
	"io"

	"github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Properties is the oscillator dictionary: parameters followed by the
// initial motion state. Field order is the serialised key order.
type Properties struct {
	Mass                dimensioned.Scalar     `yaml:"mass"`
	EquilibriumPosition dimensioned.Vector     `yaml:"equilibriumPosition"`
	LinearSpring        dimensioned.DiagTensor `yaml:"linearSpring"`
	LinearDamping       dimensioned.DiagTensor `yaml:"linearDamping"`
	Xrel                dimensioned.Vector     `yaml:"Xrel"`
	U                   dimensioned.Vector     `yaml:"U"`
	Uold                dimensioned.Vector     `yaml:"Uold"`
	Force               dimensioned.Vector     `yaml:"force"`
}

// DocumentEnd terminates a serialised dictionary.
const DocumentEnd = "..."

type entry struct {
	key    string
	target interface{}
}

func (p *Properties) entries() []entry {
	return []entry{
		{"mass", &p.Mass},
		{"equilibriumPosition", &p.EquilibriumPosition},
		{"linearSpring", &p.LinearSpring},
		{"linearDamping", &p.LinearDamping},
		{"Xrel", &p.Xrel},
		{"U", &p.U},
		{"Uold", &p.Uold},
		{"force", &p.Force},
	}
}

// DecodeProperties reads a dictionary. Every key is required.
func DecodeProperties(data []byte) (Properties, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Properties{}, fmt.Errorf("%w: %v", dynamo.ErrMalformedEntry, err)
	}

	var p Properties
	for _, e := range p.entries() {
		node, ok := raw[e.key]
		if !ok {
			return Properties{}, fmt.Errorf("%w: %s", dynamo.ErrMissingEntry, e.key)
		}
		if err := node.Decode(e.target); err != nil {
			return Properties{}, fmt.Errorf("%w: %s: %v", dynamo.ErrMalformedEntry, e.key, err)
		}
	}
	p.setNames()
	return p, nil
}

func (p *Properties) setNames() {
	p.Mass.Name = "mass"
	p.EquilibriumPosition.Name = "equilibriumPosition"
	p.LinearSpring.Name = "linearSpring"
	p.LinearDamping.Name = "linearDamping"
	p.Xrel.Name = "Xrel"
	p.U.Name = "U"
	p.Uold.Name = "Uold"
	p.Force.Name = "force"
}

// WriteTo writes one quantity per line in dictionary order, followed by
// the document end marker.
func (p Properties) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(p); err != nil {
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	buf.WriteString(DocumentEnd + "\n")
	return buf.WriteTo(w)
}

// Validate checks dimensions and bounds of every entry.
func (p Properties) Validate() error {
	checks := []struct {
		name      string
		got, want dimensioned.Dimensions
	}{
		{"mass", p.Mass.Dims, dimensioned.DimMass},
		{"equilibriumPosition", p.EquilibriumPosition.Dims, dimensioned.DimLength},
		{"linearSpring", p.LinearSpring.Dims, dimensioned.DimStiffness},
		{"linearDamping", p.LinearDamping.Dims, dimensioned.DimDamping},
		{"Xrel", p.Xrel.Dims, dimensioned.DimLength},
		{"U", p.U.Dims, dimensioned.DimVelocity},
		{"Uold", p.Uold.Dims, dimensioned.DimVelocity},
		{"force", p.Force.Dims, dimensioned.DimForce},
	}
	for _, c := range checks {
		if err := dimensioned.Check(c.name, c.got, c.want); err != nil {
			return fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
		}
	}

	if !(p.Mass.Value > 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", dynamo.ErrParameterBounds, p.Mass.Value)
	}

	values := dynamo.State{p.Mass.Value}
	for _, v := range []dimensioned.Vec3{
		p.EquilibriumPosition.Value, p.LinearSpring.Value, p.LinearDamping.Value,
		p.Xrel.Value, p.U.Value, p.Uold.Value, p.Force.Value,
	} {
		values = append(values, v[:]...)
	}
	if !values.IsValid() {
		return dynamo.ErrInvalidState
	}
	return nil
}
