package viz

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/oscillator/internal/experiment"
)

const reportWidth = 106

// RenderReport writes the sweep table followed by the analytic and numeric
// end states. Table rows and the comparison lines are plain text.
func RenderReport(w io.Writer, r *experiment.Report, st Styles) error {
	var b strings.Builder

	b.WriteString(st.Title.Render(fmt.Sprintf("convergence study: %s with %s", r.System, r.Solver)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render("y(x0):    "), fmt.Sprintf("y(%g) = %s", r.XStart, r.YStart))
	fmt.Fprintf(&b, "%s %s\n\n", st.Label.Render("dydx(x0): "), r.Dydx)

	b.WriteString(st.Header.Render(SweepHeader()))
	b.WriteString("\n")
	for _, row := range r.Sweep {
		b.WriteString(SweepLine(row))
		b.WriteString("\n")
	}

	if len(r.Sweep) > 1 {
		dx := make([]float64, len(r.Sweep))
		for i, row := range r.Sweep {
			dx[i] = row.DxDid
		}
		fmt.Fprintf(&b, "%s %s\n", st.Label.Render("dxDid:"), st.Value.Render(SparklineChart(dx, len(dx))))
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Analytical: y(%.1f) = %s\n", r.XEnd, r.Analytic)
	fmt.Fprintf(&b, "Numerical:  y(%.1f) = %s, dxEst = %g\n", r.XEnd, r.Numeric, r.DxEst)
	fmt.Fprintf(&b, "%s %s\n", st.Label.Render("max |error|:"), st.Value.Render(fmt.Sprintf("%.3e", r.Error)))
	b.WriteString(st.Subtle.Render(Separator(reportWidth)))
	b.WriteString("\nEnd\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func SweepHeader() string {
	return fmt.Sprintf("%10s%12s%13s%14s%13s%13s%13s%13s",
		"relTol", "dxEst", "dxDid", "dxNext", "y0", "y1", "y2", "y3")
}

func SweepLine(row experiment.SweepRow) string {
	var y [4]float64
	copy(y[:], row.Y)
	return fmt.Sprintf("%13.6e%11.6f%13.6f%13.6f%13.6f%13.6f%13.6f%13.6f",
		row.RelTol, row.DxEst, row.DxDid, row.DxNext, y[0], y[1], y[2], y[3])
}

// SweepErrors returns log10 of each row's error, clamped at the double
// precision floor.
func SweepErrors(r *experiment.Report) []float64 {
	out := make([]float64, len(r.Sweep))
	for i, row := range r.Sweep {
		out[i] = math.Log10(math.Max(row.Error, 1e-16))
	}
	return out
}
