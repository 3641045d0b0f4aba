package experiment

import (
	"context"
	"log/slog"
	"math"

	"github.com/san-kum/oscillator/internal/config"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/logging"
	"github.com/san-kum/oscillator/internal/physics"
)

// SweepRow is one single-step attempt of the tolerance sweep.
type SweepRow struct {
	RelTol float64
	DxEst  float64
	DxDid  float64
	DxNext float64
	Y      dynamo.State
	// Error is the max-norm distance to the reference at x+DxDid.
	Error float64
}

// Report is everything a convergence study produces.
type Report struct {
	System string
	Solver string

	XStart float64
	YStart dynamo.State
	Dydx   dynamo.State

	Sweep []SweepRow

	XEnd     float64
	Analytic dynamo.State
	Numeric  dynamo.State
	DxEst    float64
	Error    float64
}

// Study runs the tolerance sweep and the extended integration for one
// system and solver pair. The initial state always comes from the Bessel
// reference, whatever the system.
type Study struct {
	cfg       *config.Config
	sys       dynamo.System
	solver    dynamo.Solver
	reference dynamo.Reference
	logger    *slog.Logger
}

func NewStudy(cfg *config.Config, sys dynamo.System, solver dynamo.Solver, logger *slog.Logger) *Study {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Study{
		cfg:       cfg,
		sys:       sys,
		solver:    solver,
		reference: physics.NewBessel(),
		logger:    logger,
	}
}

func (s *Study) Run(ctx context.Context) (*Report, error) {
	xStart := s.cfg.Sweep.XStart
	yStart := s.reference.Analytic(xStart)
	if len(yStart) != s.sys.NEquations() {
		return nil, dynamo.ErrDimensionMismatch
	}

	report := &Report{
		System: s.cfg.System,
		Solver: s.solver.Name(),
		XStart: xStart,
		YStart: yStart.Clone(),
		Dydx:   s.sys.Derivatives(xStart, yStart.Clone()),
		Sweep:  make([]SweepRow, 0, s.cfg.Sweep.Count),
	}

	for i := 0; i < s.cfg.Sweep.Count; i++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row, err := s.sweepStep(i, xStart, yStart)
		if err != nil {
			return report, err
		}
		report.Sweep = append(report.Sweep, row)
	}

	if err := s.extended(report, xStart, yStart); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Study) sweepStep(i int, xStart float64, yStart dynamo.State) (SweepRow, error) {
	relTol := math.Exp(-float64(i + 1))
	s.solver.SetRelTol(relTol)

	y := yStart.Clone()
	dxEst := s.cfg.Sweep.DxEst
	x, dxDid, dxNext, err := s.solver.Step(xStart, y, dxEst)
	if err != nil {
		return SweepRow{}, err
	}

	row := SweepRow{
		RelTol: relTol,
		DxEst:  dxEst,
		DxDid:  dxDid,
		DxNext: dxNext,
		Y:      y,
		Error:  y.Sub(s.reference.Analytic(x)).MaxAbs(),
	}
	s.logger.Debug("sweep step", "i", i, "relTol", relTol, "dxDid", row.DxDid, "dxNext", dxNext, "err", row.Error)
	return row, nil
}

func (s *Study) extended(report *Report, xStart float64, yStart dynamo.State) error {
	xEnd := xStart + s.cfg.Extended.Span
	s.solver.SetRelTol(s.cfg.Extended.RelTol)

	y := yStart.Clone()
	dxNext, err := s.solver.Solve(xStart, xEnd, y, s.cfg.Extended.DxEst)
	if err != nil {
		return err
	}

	report.XEnd = xEnd
	report.Numeric = y
	report.Analytic = s.reference.Analytic(xEnd)
	report.DxEst = dxNext
	report.Error = y.Sub(report.Analytic).MaxAbs()

	if m, ok := s.sys.(dynamo.Model); ok {
		copy(m.StateVector(), y)
		m.Update(xEnd - xStart)
	}

	s.logger.Info("extended integration",
		"solver", report.Solver,
		"system", report.System,
		"xEnd", xEnd,
		"relTol", s.cfg.Extended.RelTol,
		"dxNext", dxNext,
		"err", report.Error,
	)
	return nil
}
