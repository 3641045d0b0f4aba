package integrators

import "github.com/san-kum/oscillator/internal/dynamo"

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// The seventh stage is evaluated at the fifth order solution (FSAL) and
// only feeds the error estimate.
var dormandPrince = tableau{
	c: []float64{0, a2, a3, a4, a5, 1, 1},
	a: [][]float64{
		{},
		{b21},
		{b31, b32},
		{b41, b42, b43},
		{b51, b52, b53, b54},
		{b61, b62, b63, b64, b65},
		{c1, 0, c3, c4, c5, c6},
	},
	b: []float64{c1, 0, c3, c4, c5, c6, 0},
	e: []float64{dc1, 0, dc3, dc4, dc5, dc6, dc7},
}

func NewRKDP45(sys dynamo.System) *Adaptive {
	return newAdaptive("RKDP45", sys, newEmbedded(dormandPrince))
}
