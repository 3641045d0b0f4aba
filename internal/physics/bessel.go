package physics

import (
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
)

// Bessel is the reference system whose solution, started from
// Analytic(x0), is [J0, J1, J2, J3, J0', J1'].
type Bessel struct{}

func NewBessel() *Bessel {
	return &Bessel{}
}

func (b *Bessel) NEquations() int { return 6 }

func (b *Bessel) Derivatives(x float64, y dynamo.State) dynamo.State {
	return dynamo.State{
		-y[1],
		y[0] - y[1]/x,
		y[1] - 2*y[2]/x,
		y[2] - 3*y[3]/x,
		-y[0] + y[1]/x,
		-y[1] - y[5]/x + y[1]/(x*x),
	}
}

func (b *Bessel) Jacobian(x float64, y dynamo.State) (dynamo.State, dynamo.Matrix, error) {
	x2 := x * x
	dfdx := dynamo.State{
		0,
		y[1] / x2,
		2 * y[2] / x2,
		3 * y[3] / x2,
		-y[1] / x2,
		y[5]/x2 - 2*y[1]/(x2*x),
	}

	dfdy := dynamo.NewMatrix(6)
	dfdy[0][1] = -1
	dfdy[1][0], dfdy[1][1] = 1, -1/x
	dfdy[2][1], dfdy[2][2] = 1, -2/x
	dfdy[3][2], dfdy[3][3] = 1, -3/x
	dfdy[4][0], dfdy[4][1] = -1, 1/x
	dfdy[5][1], dfdy[5][5] = -1+1/x2, -1/x

	return dfdx, dfdy, nil
}

func (b *Bessel) Analytic(x float64) dynamo.State {
	j0, j1 := math.J0(x), math.J1(x)
	return dynamo.State{j0, j1, math.Jn(2, x), math.Jn(3, x), -j1, j0 - j1/x}
}
