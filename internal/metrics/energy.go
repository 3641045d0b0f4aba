package metrics

import (
	"math"

	"github.com/san-kum/oscillator/internal/dynamo"
)

// Energy is the mean mechanical energy over the observed states.
type Energy struct {
	name    string
	sys     dynamo.Hamiltonian
	samples int
	total   float64
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{name: "energy", sys: sys}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(y dynamo.State, x float64) {
	e.total += e.sys.Energy(y)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// Dissipation is the fraction of the initial energy lost by the last
// observed state. A driven system can report a negative value.
type Dissipation struct {
	name    string
	sys     dynamo.Hamiltonian
	initial float64
	current float64
	samples int
}

func NewDissipation(sys dynamo.Hamiltonian) *Dissipation {
	return &Dissipation{name: "dissipation", sys: sys}
}

func (d *Dissipation) Name() string { return d.name }

func (d *Dissipation) Observe(y dynamo.State, x float64) {
	energy := d.sys.Energy(y)
	if d.samples == 0 {
		d.initial = energy
	}
	d.current = energy
	d.samples++
}

func (d *Dissipation) Value() float64 {
	if d.samples == 0 || d.initial == 0 {
		return 0
	}
	return (d.initial - d.current) / math.Abs(d.initial)
}

func (d *Dissipation) Reset() {
	d.initial = 0
	d.current = 0
	d.samples = 0
}
