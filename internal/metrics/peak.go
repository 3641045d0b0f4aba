package metrics

import (
	"math"

	"github.com/san-kum/oscillator/internal/dimensioned"
	"github.com/san-kum/oscillator/internal/dynamo"
)

// PeakDisplacement tracks the largest displacement magnitude, taken from
// the first three state components.
type PeakDisplacement struct {
	name string
	peak float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(y dynamo.State, x float64) {
	var x3 dimensioned.Vec3
	copy(x3[:], y)
	p.peak = math.Max(p.peak, x3.Mag())
}

func (p *PeakDisplacement) Value() float64 { return p.peak }

func (p *PeakDisplacement) Reset() { p.peak = 0 }
