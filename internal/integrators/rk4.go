package integrators

import "github.com/san-kum/oscillator/internal/dynamo"

// rk4 is the classic fourth order method made adaptive by step doubling.
// The error of the two half steps is (y2 - y1)/15.
type rk4 struct {
	k2, k3, k4 dynamo.State
	scratch    dynamo.State
	full, mid  dynamo.State
}

func NewRK4(sys dynamo.System) *Adaptive {
	return newAdaptive("RK4", sys, &rk4{})
}

func (r *rk4) ensureScratch(n int) {
	if len(r.k2) != n {
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
		r.full = make(dynamo.State, n)
		r.mid = make(dynamo.State, n)
	}
}

func (r *rk4) single(sys dynamo.System, x float64, y0, k1 dynamo.State, dt float64, out dynamo.State) {
	n := len(y0)

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*0.5*k1[i]
	}
	copy(r.k2, sys.Derivatives(x+dt*0.5, r.scratch))

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*0.5*r.k2[i]
	}
	copy(r.k3, sys.Derivatives(x+dt*0.5, r.scratch))

	for i := 0; i < n; i++ {
		r.scratch[i] = y0[i] + dt*r.k3[i]
	}
	copy(r.k4, sys.Derivatives(x+dt, r.scratch))

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		out[i] = y0[i] + dt6*(k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
}

func (r *rk4) advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error {
	r.ensureScratch(len(y0))

	r.single(sys, x, y0, dydx0, dx, r.full)

	h := 0.5 * dx
	r.single(sys, x, y0, dydx0, h, r.mid)
	r.single(sys, x+h, r.mid, sys.Derivatives(x+h, r.mid), h, y)

	for i := range y {
		yErr[i] = (y[i] - r.full[i]) / 15.0
	}
	return nil
}
