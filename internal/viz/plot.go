package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/oscillator/internal/experiment"
)

// SweepChart plots log10 of the single step error against sweep index.
func SweepChart(r *experiment.Report) string {
	if len(r.Sweep) == 0 {
		return ""
	}
	return asciigraph.Plot(SweepErrors(r),
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("log10 error vs sweep index (%s)", r.Solver)),
	)
}

// SeriesChart plots one sampled series.
func SeriesChart(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}

// ComponentCaption names column i of an oscillator state.
func ComponentCaption(system string, i int) string {
	if system == "oscillator" && i < 6 {
		axis := "xyz"[i%3]
		if i < 3 {
			return fmt.Sprintf("displacement %c", axis)
		}
		return fmt.Sprintf("velocity %c", axis)
	}
	return fmt.Sprintf("y%d vs x", i)
}
