package integrators

import (
	"log/slog"
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/logging"
)

const (
	DefaultRelTol   = 1e-4
	DefaultAbsTol   = 1e-15
	DefaultMaxSteps = 10000
)

// stepper advances y0 by dx and estimates the local error of that step.
type stepper interface {
	advance(sys dynamo.System, x float64, y0, dydx0 dynamo.State, dx float64, y, yErr dynamo.State) error
}

// Adaptive wraps a stepper with step-size control. A step is accepted
// when the normalised error is at most one; rejected steps are retried
// with a smaller dx.
type Adaptive struct {
	name    string
	sys     dynamo.System
	stepper stepper

	relTol   float64
	absTol   float64
	maxSteps int

	safety   float64
	minScale float64
	maxScale float64
	alphaInc float64
	alphaDec float64

	y    dynamo.State
	yErr dynamo.State

	logger *slog.Logger
}

func newAdaptive(name string, sys dynamo.System, s stepper) *Adaptive {
	return &Adaptive{
		name:     name,
		sys:      sys,
		stepper:  s,
		relTol:   DefaultRelTol,
		absTol:   DefaultAbsTol,
		maxSteps: DefaultMaxSteps,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		alphaInc: 0.2,
		alphaDec: 0.25,
	}
}

func (a *Adaptive) Name() string          { return a.name }
func (a *Adaptive) RelTol() float64       { return a.relTol }
func (a *Adaptive) SetRelTol(tol float64) { a.relTol = tol }
func (a *Adaptive) AbsTol() float64       { return a.absTol }
func (a *Adaptive) SetAbsTol(tol float64) { a.absTol = tol }
func (a *Adaptive) SetMaxSteps(n int)     { a.maxSteps = n }

// SetLogger enables trace output of accepted and rejected steps.
func (a *Adaptive) SetLogger(l *slog.Logger) { a.logger = l }

func (a *Adaptive) ensureScratch(n int) {
	if len(a.y) != n {
		a.y = make(dynamo.State, n)
		a.yErr = make(dynamo.State, n)
	}
}

func (a *Adaptive) Step(x float64, y dynamo.State, dxTry float64) (float64, float64, float64, error) {
	dxDid, dxNext, err := a.step(x, y, dxTry)
	if err != nil {
		return x, 0, dxTry, &dynamo.SimulationError{Solver: a.name, X: x, Dx: dxTry, Wrapped: err}
	}
	return x + dxDid, dxDid, dxNext, nil
}

func (a *Adaptive) step(x float64, y dynamo.State, dxTry float64) (dxDid, dxNext float64, err error) {
	n := a.sys.NEquations()
	if len(y) != n {
		return 0, dxTry, dynamo.ErrDimensionMismatch
	}
	a.ensureScratch(n)

	dydx0 := a.sys.Derivatives(x, y)
	dx := dxTry

	var errNorm float64
	for {
		if err := a.stepper.advance(a.sys, x, y, dydx0, dx, a.y, a.yErr); err != nil {
			return 0, dx, err
		}

		errNorm = a.normalizeError(y, a.y, a.yErr)
		if errNorm <= 1 {
			break
		}

		if a.logger != nil {
			logging.Trace(a.logger, "step rejected", "solver", a.name, "x", x, "dx", dx, "err", errNorm)
		}

		scale := a.minScale
		if !math.IsNaN(errNorm) && !math.IsInf(errNorm, 0) {
			scale = math.Max(a.safety*math.Pow(errNorm, -a.alphaDec), a.minScale)
		}
		dx *= scale

		if x+dx == x {
			return 0, dx, dynamo.ErrStepTooSmall
		}
	}

	if !a.y.IsValid() {
		return 0, dx, dynamo.ErrInvalidState
	}
	copy(y, a.y)

	if errNorm > math.Pow(a.maxScale/a.safety, -1/a.alphaInc) {
		scale := math.Min(math.Max(a.safety*math.Pow(errNorm, -a.alphaInc), a.minScale), a.maxScale)
		dxNext = scale * dx
	} else {
		dxNext = a.safety * a.maxScale * dx
	}

	if a.logger != nil {
		logging.Trace(a.logger, "step accepted", "solver", a.name, "x", x, "dx", dx, "err", errNorm, "dxNext", dxNext)
	}

	return dx, dxNext, nil
}

// Solve integrates from x to xEnd. The last step is shortened to land on
// xEnd exactly; the returned step suggestion ignores that truncation.
func (a *Adaptive) Solve(x, xEnd float64, y dynamo.State, dxTry float64) (float64, error) {
	xStart := x
	dx := dxTry
	if x == xEnd {
		return dx, nil
	}

	for i := 0; i < a.maxSteps; i++ {
		dx0 := dx
		last := false
		if (x+dx-xEnd)*(x+dx-xStart) > 0 {
			last = true
			dx = xEnd - x
		}

		dxDid, dxNext, err := a.step(x, y, dx)
		if err != nil {
			return dx, &dynamo.SimulationError{Solver: a.name, Step: i, X: x, Dx: dx, Wrapped: err}
		}

		if last && dxDid == dx {
			x = xEnd
		} else {
			x += dxDid
		}
		dx = dxNext

		if (x-xEnd)*(xEnd-xStart) >= 0 {
			if i > 0 && last {
				dx = dx0
			}
			return dx, nil
		}
	}

	return dx, &dynamo.SimulationError{Solver: a.name, Step: a.maxSteps, X: x, Dx: dx, Wrapped: dynamo.ErrTooManySteps}
}

func (a *Adaptive) normalizeError(y0, y, yErr dynamo.State) float64 {
	maxErr := 0.0
	for i := range y0 {
		tol := a.absTol + a.relTol*math.Max(math.Abs(y0[i]), math.Abs(y[i]))
		maxErr = math.Max(maxErr, math.Abs(yErr[i])/tol)
	}
	return maxErr
}
