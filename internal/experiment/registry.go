package experiment

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/oscillator/internal/config"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/integrators"
	"github.com/san-kum/oscillator/internal/metrics"
	"github.com/san-kum/oscillator/internal/physics"
)

type Registry struct {
	systems map[string]func(*config.Config) (dynamo.System, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		systems: make(map[string]func(*config.Config) (dynamo.System, error)),
	}

	r.systems["oscillator"] = func(cfg *config.Config) (dynamo.System, error) {
		p, err := cfg.Properties()
		if err != nil {
			return nil, err
		}
		return physics.NewOscillator(p)
	}
	r.systems["bessel"] = func(cfg *config.Config) (dynamo.System, error) {
		return physics.NewBessel(), nil
	}

	return r
}

func (r *Registry) GetSystem(name string, cfg *config.Config) (dynamo.System, error) {
	fn, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", dynamo.ErrUnknownSystem, name, r.ListSystems())
	}
	return fn(cfg)
}

func (r *Registry) GetSolver(name string, sys dynamo.System) (*integrators.Adaptive, error) {
	return integrators.New(name, sys)
}

func (r *Registry) ListSystems() []string {
	names := make([]string, 0, len(r.systems))
	for name := range r.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListSolvers() []string {
	return integrators.Names()
}

// DefaultMetrics returns the trajectory metrics that apply to sys.
func (r *Registry) DefaultMetrics(sys dynamo.System) []dynamo.Metric {
	ms := []dynamo.Metric{metrics.NewPeakDisplacement()}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append(ms, metrics.NewEnergy(h), metrics.NewDissipation(h))
	}
	return ms
}

// Build constructs the configured system, binds the named solver to it and
// returns the study ready to run.
func (r *Registry) Build(cfg *config.Config, solverName string, logger *slog.Logger) (*Study, error) {
	sys, err := r.GetSystem(cfg.System, cfg)
	if err != nil {
		return nil, err
	}
	solver, err := r.GetSolver(solverName, sys)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		solver.SetLogger(logger)
		logger.Debug("study constructed", "system", cfg.System, "solver", solver.Name(), "equations", sys.NEquations())
	}
	return NewStudy(cfg, sys, solver, logger), nil
}
