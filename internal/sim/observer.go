package sim

import (
	"log/slog"

	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/logging"
)

// TraceObserver logs every recorded sample at trace level.
type TraceObserver struct {
	logger *slog.Logger
	count  int
}

func NewTraceObserver(logger *slog.Logger) *TraceObserver {
	return &TraceObserver{logger: logger}
}

func (o *TraceObserver) OnStep(y dynamo.State, x float64) {
	o.count++
	logging.Trace(o.logger, "sample", "n", o.count, "x", x, "y", y.String())
}

// Samples is the number of states observed so far.
func (o *TraceObserver) Samples() int { return o.count }
