package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
)

// L-stable embedded Rosenbrock 1(2). Needs the system Jacobian.
var (
	rbGamma = 1 + 1/math.Sqrt2
	rbA21   = 1 / rbGamma
	rbC2    = 1.0
	rbC21   = -2 / rbGamma
	rbB1    = 3 / (2 * rbGamma)
	rbB2    = 1 / (2 * rbGamma)
	rbE1    = rbB1 - 1/rbGamma
	rbE2    = rbB2
	rbD1    = rbGamma
	rbD2    = -rbGamma
)

type rosenbrock12 struct {
	lin     *shiftedJacobian
	k1, k2  dynamo.State
	scratch dynamo.State
}

// NewRosenbrock12 fails with ErrJacobianRequired for systems that do not
// supply a Jacobian.
func NewRosenbrock12(sys dynamo.System) (*Adaptive, error) {
	n := sys.NEquations()
	ones := make(dynamo.State, n)
	for i := range ones {
		ones[i] = 1
	}
	if _, _, err := sys.Jacobian(1, ones); errors.Is(err, dynamo.ErrNotImplemented) {
		return nil, fmt.Errorf("Rosenbrock12: %w: %v", dynamo.ErrJacobianRequired, err)
	}
	return newAdaptive("Rosenbrock12", sys, &rosenbrock12{}), nil
}

func (r *rosenbrock12) ensureScratch(n int) {
	if len(r.k1) != n {
		r.lin = newShiftedJacobian(n)
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *rosenbrock12) advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error {
	n := len(y0)
	r.ensureScratch(n)

	dfdx, dfdy, err := sys.Jacobian(x, y0)
	if err != nil {
		return err
	}

	if err := r.lin.factorize(dfdy, 1/(rbGamma*dx)); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.k1[i] = dydx0[i] + dx*rbD1*dfdx[i]
	}
	if err := r.lin.solve(r.k1); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + rbA21*r.k1[i]
	}
	dydx := sys.Derivatives(x+rbC2*dx, r.scratch)

	for i := 0; i < n; i++ {
		r.k2[i] = dydx[i] + dx*rbD2*dfdx[i] + rbC21*r.k1[i]/dx
	}
	if err := r.lin.solve(r.k2); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		y[i] = y0[i] + rbB1*r.k1[i] + rbB2*r.k2[i]
		yErr[i] = rbE1*r.k1[i] + rbE2*r.k2[i]
	}
	return nil
}
