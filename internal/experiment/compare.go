package experiment

import (
	"context"
	"log/slog"

	"github.com/san-kum/oscillator/internal/config"
)

// Compare runs one study per solver on the same configuration, one after
// the other. Every study builds its own system and solver. Reports come
// back in solver order; the first failure stops the comparison.
func Compare(ctx context.Context, reg *Registry, cfg *config.Config, solvers []string, logger *slog.Logger) ([]*Report, error) {
	studies := make([]*Study, len(solvers))
	for i, name := range solvers {
		s, err := reg.Build(cfg, name, logger)
		if err != nil {
			return nil, err
		}
		studies[i] = s
	}

	reports := make([]*Report, 0, len(studies))
	for _, s := range studies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.Run(ctx)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
