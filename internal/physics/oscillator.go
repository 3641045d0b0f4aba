package physics

import (
	"fmt"
	"io"

	"github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
)

const oscillatorEquations = 6

// Oscillator is a rigid body on a linear spring-damper mount driven by an
// external force. Only translation is modelled and both the spring and the
// damper act independently per axis.
//
// The ODE state is [Xrel, U]. The solver works directly on the buffer
// returned by StateVector; the structured view (Xrel, U, Uold) follows it
// only when Update is called.
type Oscillator struct {
	mass        dimensioned.Scalar
	equilibrium dimensioned.Vector
	spring      dimensioned.DiagTensor
	damping     dimensioned.DiagTensor

	xrel  dimensioned.Vector
	u     dimensioned.Vector
	uold  dimensioned.Vector
	force dimensioned.Vector

	coeffs dynamo.State
}

func NewOscillator(p Properties) (*Oscillator, error) {
	p.setNames()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	o := &Oscillator{
		mass:        p.Mass,
		equilibrium: p.EquilibriumPosition,
		spring:      p.LinearSpring,
		damping:     p.LinearDamping,
		xrel:        p.Xrel,
		u:           p.U,
		uold:        p.Uold,
		force:       p.Force,
		coeffs:      make(dynamo.State, oscillatorEquations),
	}

	a, err := o.A()
	if err != nil {
		return nil, err
	}
	if err := dimensioned.Check("acceleration", a.Dims, dimensioned.DimAcceleration); err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}

	o.setCoeffs()
	return o, nil
}

func (o *Oscillator) setCoeffs() {
	o.coeffs[0], o.coeffs[1], o.coeffs[2] = o.xrel.Value[0], o.xrel.Value[1], o.xrel.Value[2]
	o.coeffs[3], o.coeffs[4], o.coeffs[5] = o.u.Value[0], o.u.Value[1], o.u.Value[2]
}

func (o *Oscillator) NEquations() int { return oscillatorEquations }

// StateVector returns the buffer the solver integrates in place.
func (o *Oscillator) StateVector() dynamo.State { return o.coeffs }

func (o *Oscillator) Derivatives(x float64, y dynamo.State) dynamo.State {
	dydx := make(dynamo.State, oscillatorEquations)

	dydx[0] = y[3]
	dydx[1] = y[4]
	dydx[2] = y[5]

	k, c, f, m := o.spring.Value, o.damping.Value, o.force.Value, o.mass.Value
	for i := 0; i < 3; i++ {
		dydx[3+i] = (-k[i]*y[i] - c[i]*y[3+i] + f[i]) / m
	}

	return dydx
}

func (o *Oscillator) Jacobian(x float64, y dynamo.State) (dynamo.State, dynamo.Matrix, error) {
	return nil, nil, fmt.Errorf("oscillator jacobian: %w", dynamo.ErrNotImplemented)
}

// Update copies the integrated state back into the structured view. Uold
// keeps the velocity held before the call. delta is unused: position and
// velocity come straight from the solved state.
func (o *Oscillator) Update(delta float64) {
	o.xrel.Value = dimensioned.Vec3{o.coeffs[0], o.coeffs[1], o.coeffs[2]}

	o.uold.Value = o.u.Value

	o.u.Value = dimensioned.Vec3{o.coeffs[3], o.coeffs[4], o.coeffs[5]}
}

func (o *Oscillator) Mass() dimensioned.Scalar { return o.mass }

func (o *Oscillator) Xrel() dimensioned.Vector { return o.xrel }

// X returns the absolute position, equilibrium + Xrel.
func (o *Oscillator) X() dimensioned.Vector {
	return dimensioned.NewVector("X", o.xrel.Dims, o.equilibrium.Value.Add(o.xrel.Value))
}

func (o *Oscillator) U() dimensioned.Vector { return o.u }

func (o *Oscillator) Uold() dimensioned.Vector { return o.uold }

func (o *Oscillator) Uaverage() dimensioned.Vector {
	return dimensioned.NewVector("Uaverage", o.u.Dims, o.u.Value.Add(o.uold.Value).Scale(0.5))
}

// A returns the acceleration at the current Xrel and U.
func (o *Oscillator) A() (dimensioned.Vector, error) {
	f, err := o.spring.Dot(o.xrel).Neg().Sub(o.damping.Dot(o.u))
	if err != nil {
		return dimensioned.Vector{}, fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}
	if f, err = f.Add(o.force); err != nil {
		return dimensioned.Vector{}, fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}
	a, err := f.Div(o.mass)
	if err != nil {
		return dimensioned.Vector{}, err
	}
	a.Name = "A"
	return a, nil
}

func (o *Oscillator) Force() dimensioned.Vector { return o.force }

// SetForce replaces the driving force. It applies from the next
// derivative evaluation on.
func (o *Oscillator) SetForce(f dimensioned.Vector) error {
	if err := dimensioned.Check("force", f.Dims, o.force.Dims); err != nil {
		return fmt.Errorf("%w: %v", dynamo.ErrDimensionMismatch, err)
	}
	o.force.Value = f.Value
	return nil
}

// Energy is the mechanical energy of state y: kinetic plus spring potential.
func (o *Oscillator) Energy(y dynamo.State) float64 {
	k := o.spring.Value
	e := 0.0
	for i := 0; i < 3; i++ {
		e += 0.5*o.mass.Value*y[3+i]*y[3+i] + 0.5*k[i]*y[i]*y[i]
	}
	return e
}

// Properties snapshots parameters and the structured state.
func (o *Oscillator) Properties() Properties {
	return Properties{
		Mass:                o.mass,
		EquilibriumPosition: o.equilibrium,
		LinearSpring:        o.spring,
		LinearDamping:       o.damping,
		Xrel:                o.xrel,
		U:                   o.u,
		Uold:                o.uold,
		Force:               o.force,
	}
}

// Restore puts the parameters and the structured state back to p, Uold
// included, and refills the state buffer in place.
func (o *Oscillator) Restore(p Properties) error {
	p.setNames()
	if err := p.Validate(); err != nil {
		return err
	}
	o.mass, o.equilibrium = p.Mass, p.EquilibriumPosition
	o.spring, o.damping = p.LinearSpring, p.LinearDamping
	o.xrel, o.u, o.uold, o.force = p.Xrel, p.U, p.Uold, p.Force
	o.setCoeffs()
	return nil
}

func (o *Oscillator) WriteTo(w io.Writer) (int64, error) {
	return o.Properties().WriteTo(w)
}
