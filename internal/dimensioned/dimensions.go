// Package dimensioned provides physical quantities tagged with their
// dimensions. Arithmetic between quantities checks that the dimensions
// agree and reports ErrDimensionMismatch when they do not.
package dimensioned

import (
	"errors"
	"fmt"
	"strings"
)

var ErrDimensionMismatch = errors.New("dimensioned: dimensions do not match")

const nDimensions = 7

// Dimensions holds the exponents of mass, length, time, temperature,
// moles, current and luminous intensity, in that order.
type Dimensions [nDimensions]int

var (
	DimLess   = Dimensions{}
	DimMass   = Dimensions{1, 0, 0, 0, 0, 0, 0}
	DimLength = Dimensions{0, 1, 0, 0, 0, 0, 0}
	DimTime   = Dimensions{0, 0, 1, 0, 0, 0, 0}

	DimVelocity     = DimLength.Div(DimTime)
	DimAcceleration = DimVelocity.Div(DimTime)
	DimForce        = DimMass.Mul(DimAcceleration)
	DimStiffness    = DimForce.Div(DimLength)
	DimDamping      = DimForce.Div(DimVelocity)
)

func (d Dimensions) Mul(o Dimensions) Dimensions {
	var r Dimensions
	for i := range d {
		r[i] = d[i] + o[i]
	}
	return r
}

func (d Dimensions) Div(o Dimensions) Dimensions {
	var r Dimensions
	for i := range d {
		r[i] = d[i] - o[i]
	}
	return r
}

func (d Dimensions) Dimensionless() bool {
	return d == DimLess
}

func (d Dimensions) String() string {
	parts := make([]string, nDimensions)
	for i, e := range d {
		parts[i] = fmt.Sprintf("%d", e)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Check returns a wrapped ErrDimensionMismatch naming the quantity when
// got differs from want.
func Check(name string, got, want Dimensions) error {
	if got != want {
		return fmt.Errorf("%w: %s has %s, expected %s", ErrDimensionMismatch, name, got, want)
	}
	return nil
}
