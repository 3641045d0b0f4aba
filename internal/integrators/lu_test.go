package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/oscillator/internal/dynamo"
)

func TestShiftedJacobianSolve(t *testing.T) {
	jac := dynamo.Matrix{
		{0, -2, -1},
		{-1, 1, 0},
		{-3, 0, -4},
	}
	const shift = 2.0
	want := dynamo.State{1, -2, 0.5}

	// b = (I*shift - J) want
	b := make(dynamo.State, 3)
	for i := range jac {
		b[i] = shift * want[i]
		for j := range jac[i] {
			b[i] -= jac[i][j] * want[j]
		}
	}

	s := newShiftedJacobian(3)
	if err := s.factorize(jac, shift); err != nil {
		t.Fatal(err)
	}
	if err := s.solve(b); err != nil {
		t.Fatal(err)
	}

	for i := range want {
		if math.Abs(b[i]-want[i]) > 1e-12 {
			t.Errorf("x[%d]: expected %f, got %f", i, want[i], b[i])
		}
	}
}

func TestShiftedJacobianSingular(t *testing.T) {
	jac := dynamo.Matrix{{0, -2}, {-2, -3}}
	if err := newShiftedJacobian(2).factorize(jac, 1); !errors.Is(err, errSingular) {
		t.Errorf("expected singular matrix error, got %v", err)
	}
}
