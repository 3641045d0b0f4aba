package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and integration.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrTooManySteps indicates the step budget ran out before xEnd.
	ErrTooManySteps = errors.New("dynamo: integration steps exceed maximum")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrNotImplemented is returned by optional operations a system does not provide.
	ErrNotImplemented = errors.New("dynamo: operation not implemented")

	// ErrJacobianRequired indicates a solver needs a Jacobian the system cannot supply.
	ErrJacobianRequired = errors.New("dynamo: solver requires a jacobian")

	ErrUnknownSolver = errors.New("dynamo: unknown solver")
	ErrUnknownSystem = errors.New("dynamo: unknown system")

	// ErrMissingEntry indicates a required configuration key is absent.
	ErrMissingEntry = errors.New("dynamo: missing configuration entry")

	// ErrMalformedEntry indicates a configuration entry has the wrong shape.
	ErrMalformedEntry = errors.New("dynamo: malformed configuration entry")
)

// SimulationError wraps a solver failure with integration context.
type SimulationError struct {
	Solver  string
	Step    int
	X       float64
	Dx      float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s: step %d (x=%.6g, dx=%.3g): %v", e.Solver, e.Step, e.X, e.Dx, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
