package integrators

import (
	"errors"
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

var errSingular = errors.New("integrators: singular matrix")

// shiftedJacobian holds the LU factors of I*shift - J for the stages of
// a linearly implicit step.
type shiftedJacobian struct {
	m   *mat.Dense
	lu  mat.LU
	rhs *mat.VecDense
	sol *mat.VecDense
}

func newShiftedJacobian(n int) *shiftedJacobian {
	return &shiftedJacobian{
		m:   mat.NewDense(n, n, nil),
		rhs: mat.NewVecDense(n, nil),
		sol: mat.NewVecDense(n, nil),
	}
}

func (s *shiftedJacobian) factorize(dfdy dynamo.Matrix, shift float64) error {
	for i, row := range dfdy {
		for j, v := range row {
			s.m.Set(i, j, -v)
		}
		s.m.Set(i, i, s.m.At(i, i)+shift)
	}
	s.lu.Factorize(s.m)
	if s.lu.Det() == 0 || math.IsInf(s.lu.Cond(), 1) {
		return errSingular
	}
	return nil
}

// solve overwrites b with the solution of (I*shift - J) x = b.
func (s *shiftedJacobian) solve(b dynamo.State) error {
	for i, v := range b {
		s.rhs.SetVec(i, v)
	}
	if err := s.lu.SolveVecTo(s.sol, false, s.rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return err
		}
	}
	for i := range b {
		b[i] = s.sol.AtVec(i)
	}
	return nil
}
