package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}


func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// MaxAbs returns the infinity norm.
func (s State) MaxAbs() float64 {
	m := 0.0
	for _, v := range s {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// String formats the state as a parenthesised list, e.g. "(1 0.5 0)".
func (s State) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Matrix is a dense row-major square matrix.
type Matrix [][]float64

func NewMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// System is an ODE system dy/dx = f(x, y).
type System interface {
	NEquations() int
	Derivatives(x float64, y State) State
	// Jacobian returns df/dx and df/dy. Systems that cannot supply one
	// return ErrNotImplemented.
	Jacobian(x float64, y State) (State, Matrix, error)
}

// Model is a System that owns the buffer a solver integrates and is told
// when a step has been accepted.
type Model interface {
	System
	StateVector() State
	Update(delta float64)
}

// Reference is implemented by systems with a closed-form solution.
type Reference interface {
	Analytic(x float64) State
}

type Hamiltonian interface {
	Energy(y State) float64
}

// Solver is a step-adaptive integrator bound to a single System.
type Solver interface {
	Name() string
	RelTol() float64
	SetRelTol(tol float64)
	AbsTol() float64
	SetAbsTol(tol float64)

	// Step takes one accepted adaptive step from x, trying dxTry first.
	// y is advanced in place. It returns the new x, the step actually
	// taken and the suggested size of the next step.
	Step(x float64, y State, dxTry float64) (xNew, dxDid, dxNext float64, err error)

	// Solve integrates y in place from x to xEnd.
	Solve(x, xEnd float64, y State, dxTry float64) (dxNext float64, err error)
}

type Metric interface {
	Name() string
	Observe(y State, x float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(y State, x float64)
}
