package integrators

import "github.com/san-kum/oscillator/internal/dynamo"

// tableau is an explicit embedded Runge-Kutta pair. b gives the
// propagated solution and e = b - bhat the error weights.
type tableau struct {
	c []float64
	a [][]float64
	b []float64
	e []float64
}

type embedded struct {
	t       tableau
	k       []dynamo.State
	scratch dynamo.State
}

func newEmbedded(t tableau) *embedded {
	return &embedded{t: t}
}

func (r *embedded) ensureScratch(n int) {
	if len(r.scratch) != n {
		r.k = make([]dynamo.State, len(r.t.c))
		r.scratch = make(dynamo.State, n)
	}
}

func (r *embedded) advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error {
	n := len(y0)
	r.ensureScratch(n)

	r.k[0] = dydx0
	for s := 1; s < len(r.t.c); s++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j, aij := range r.t.a[s] {
				sum += aij * r.k[j][i]
			}
			r.scratch[i] = y0[i] + dx*sum
		}
		r.k[s] = sys.Derivatives(x+r.t.c[s]*dx, r.scratch)
	}

	for i := 0; i < n; i++ {
		sum, errSum := 0.0, 0.0
		for s := range r.k {
			sum += r.t.b[s] * r.k[s][i]
			errSum += r.t.e[s] * r.k[s][i]
		}
		y[i] = y0[i] + dx*sum
		yErr[i] = dx * errSum
	}
	return nil
}
