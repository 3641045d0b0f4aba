package dimensioned

import (
	"errors"
	"fmt"
)

var ErrDivideByZero = errors.New("dimensioned: division by zero")

type Scalar struct {
	Name  string
	Dims  Dimensions
	Value float64
}

type Vector struct {
	Name  string
	Dims  Dimensions
	Value Vec3
}

// DiagTensor is a 3x3 tensor with only its diagonal (xx, yy, zz) stored.
type DiagTensor struct {
	Name  string
	Dims  Dimensions
	Value Vec3
}

func NewScalar(name string, dims Dimensions, v float64) Scalar {
	return Scalar{Name: name, Dims: dims, Value: v}
}

func NewVector(name string, dims Dimensions, v Vec3) Vector {
	return Vector{Name: name, Dims: dims, Value: v}
}

func NewDiagTensor(name string, dims Dimensions, v Vec3) DiagTensor {
	return DiagTensor{Name: name, Dims: dims, Value: v}
}

func (s Scalar) String() string {
	return fmt.Sprintf("%s %s %g", s.Name, s.Dims, s.Value)
}

func (v Vector) String() string {
	return fmt.Sprintf("%s %s %s", v.Name, v.Dims, v.Value)
}

func (t DiagTensor) String() string {
	return fmt.Sprintf("%s %s %s", t.Name, t.Dims, t.Value)
}

func (v Vector) Add(o Vector) (Vector, error) {
	if err := Check(o.Name, o.Dims, v.Dims); err != nil {
		return Vector{}, err
	}
	return Vector{Name: v.Name + "+" + o.Name, Dims: v.Dims, Value: v.Value.Add(o.Value)}, nil
}

func (v Vector) Sub(o Vector) (Vector, error) {
	if err := Check(o.Name, o.Dims, v.Dims); err != nil {
		return Vector{}, err
	}
	return Vector{Name: v.Name + "-" + o.Name, Dims: v.Dims, Value: v.Value.Sub(o.Value)}, nil
}

func (v Vector) Neg() Vector {
	return Vector{Name: "-" + v.Name, Dims: v.Dims, Value: v.Value.Scale(-1)}
}

// Scale multiplies by a plain number; dimensions are unchanged.
func (v Vector) Scale(f float64) Vector {
	return Vector{Name: v.Name, Dims: v.Dims, Value: v.Value.Scale(f)}
}

func (v Vector) Div(s Scalar) (Vector, error) {
	if s.Value == 0 {
		return Vector{}, fmt.Errorf("%w: %s/%s", ErrDivideByZero, v.Name, s.Name)
	}
	return Vector{
		Name:  v.Name + "|" + s.Name,
		Dims:  v.Dims.Div(s.Dims),
		Value: v.Value.Scale(1 / s.Value),
	}, nil
}

// Dot applies the tensor to v. Dimensions multiply.
func (t DiagTensor) Dot(v Vector) Vector {
	return Vector{
		Name:  t.Name + "&" + v.Name,
		Dims:  t.Dims.Mul(v.Dims),
		Value: t.Value.Mul(v.Value),
	}
}
