package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/logging"
)

// Simulator advances a model in place. The solver works on the model's
// StateVector and Update resynchronises the structured state after each
// interval.
type Simulator struct {
	model     dynamo.Model
	solver    dynamo.Solver
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger
}

func New(model dynamo.Model, solver dynamo.Solver) *Simulator {
	return &Simulator{
		model:     model,
		solver:    solver,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    logging.Discard(),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger)      { s.logger = l }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	intervals := int(math.Round(cfg.Duration / cfg.Interval))
	result := &Result{
		States:  make([]dynamo.State, 0, intervals+1),
		Times:   make([]float64, 0, intervals+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.solver.SetRelTol(cfg.RelTol)
	y := s.model.StateVector()
	x := 0.0
	dx := cfg.DxEst

	s.record(result, y, x)
	initialEnergy := s.computeEnergy(y)

	for i := 0; i < intervals; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		xNext := float64(i+1) * cfg.Interval
		var err error
		dx, err = s.solver.Solve(x, xNext, y, dx)
		if err != nil {
			return result, err
		}
		s.model.Update(xNext - x)
		x = xNext
		result.Intervals++

		s.record(result, y, x)
	}

	finalEnergy := s.computeEnergy(y)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Info("trajectory complete",
		"solver", s.solver.Name(),
		"intervals", result.Intervals,
		"energyDrift", result.EnergyDrift,
	)
	return result, nil
}

func (s *Simulator) record(result *Result, y dynamo.State, x float64) {
	for _, m := range s.metrics {
		m.Observe(y, x)
	}
	for _, obs := range s.observers {
		obs.OnStep(y, x)
	}
	result.States = append(result.States, y.Clone())
	result.Times = append(result.Times, x)
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Interval > 0) {
		return fmt.Errorf("%w: interval must be positive, got %f", dynamo.ErrParameterBounds, cfg.Interval)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", dynamo.ErrParameterBounds, cfg.Duration)
	}
	if !(cfg.RelTol > 0) {
		return fmt.Errorf("%w: tolerance must be positive, got %g", dynamo.ErrParameterBounds, cfg.RelTol)
	}
	if !(cfg.DxEst > 0) {
		return fmt.Errorf("%w: initial step must be positive, got %g", dynamo.ErrParameterBounds, cfg.DxEst)
	}
	return nil
}

func (s *Simulator) computeEnergy(y dynamo.State) float64 {
	if h, ok := s.model.(dynamo.Hamiltonian); ok {
		return h.Energy(y)
	}
	return 0
}
