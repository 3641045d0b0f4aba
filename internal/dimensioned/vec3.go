package dimensioned

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is the bare value of a vector quantity.
type Vec3 [3]float64

func (v Vec3) gl() mgl64.Vec3 { return mgl64.Vec3(v) }

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3(v.gl().Add(o.gl()))
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3(v.gl().Sub(o.gl()))
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3(v.gl().Mul(s))
}

// Mul multiplies component-wise, which is how a diagonal tensor acts on a vector.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{v[0] * o[0], v[1] * o[1], v[2] * o[2]}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.gl().Dot(o.gl())
}

func (v Vec3) Mag() float64 {
	return v.gl().Len()
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%g %g %g)", v[0], v[1], v[2])
}
