package experiment_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/oscillator/internal/config"
	"github.com/san-kum/oscillator/internal/dynamo"
	"github.com/san-kum/oscillator/internal/experiment"
	"github.com/san-kum/oscillator/internal/physics"
)

var _ = Describe("Study", func() {
	var (
		reg *experiment.Registry
		cfg *config.Config
	)

	BeforeEach(func() {
		reg = experiment.NewRegistry()
		cfg = config.DefaultConfig()
		cfg.System = "bessel"
	})

	Context("on the Bessel reference system", func() {
		var report *experiment.Report

		BeforeEach(func() {
			study, err := reg.Build(cfg, "RKDP45", nil)
			Expect(err).NotTo(HaveOccurred())

			report, err = study.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts from the analytic state at x = 1", func() {
			Expect(report.XStart).To(Equal(1.0))
			Expect(report.YStart).To(HaveLen(6))
			Expect(report.YStart[0]).To(BeNumerically("~", math.J0(1), 1e-15))
			Expect(report.YStart[3]).To(BeNumerically("~", math.Jn(3, 1), 1e-15))
		})

		It("sweeps fifteen tolerances from exp(-1) down", func() {
			Expect(report.Sweep).To(HaveLen(15))
			for i, row := range report.Sweep {
				Expect(row.RelTol).To(BeNumerically("~", math.Exp(-float64(i+1)), 1e-15))
				Expect(row.DxEst).To(Equal(0.6))
				Expect(row.DxDid).To(BeNumerically(">", 0))
				Expect(row.DxDid).To(BeNumerically("<=", row.DxEst))
				Expect(row.DxNext).To(BeNumerically(">", 0))
			}
		})

		It("takes smaller and more accurate steps at tighter tolerance", func() {
			first, last := report.Sweep[0], report.Sweep[len(report.Sweep)-1]
			Expect(last.DxDid).To(BeNumerically("<", first.DxDid))
			for i := 1; i < len(report.Sweep); i++ {
				prev, row := report.Sweep[i-1], report.Sweep[i]
				Expect(row.DxDid).To(BeNumerically("<=", prev.DxDid), "row %d", i)
				Expect(row.Error).To(BeNumerically("<=", prev.Error), "row %d", i)
			}
		})

		It("matches the analytic solution at x = 2", func() {
			Expect(report.XEnd).To(Equal(2.0))
			Expect(report.Numeric).To(HaveLen(6))
			Expect(report.Error).To(BeNumerically("<", 1e-3))
			Expect(report.DxEst).To(BeNumerically(">", 0))
		})
	})

	DescribeTable("extended integration accuracy",
		func(solver string, tolerance float64) {
			study, err := reg.Build(cfg, solver, nil)
			Expect(err).NotTo(HaveOccurred())

			report, err := study.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Error).To(BeNumerically("<", tolerance))
		},
		Entry("Euler", "Euler", 2e-2),
		Entry("Trapezoid", "Trapezoid", 2e-2),
		Entry("RK4", "RK4", 1e-3),
		Entry("RKF45", "RKF45", 1e-3),
		Entry("RKCK45", "RKCK45", 1e-3),
		Entry("Rosenbrock12", "Rosenbrock12", 5e-3),
	)

	Context("on the oscillator", func() {
		BeforeEach(func() {
			cfg.System = "oscillator"
			cfg.Preset = "damped"
		})

		It("shows kinematic consistency in the diagnostic derivatives", func() {
			study, err := reg.Build(cfg, "RKCK45", nil)
			Expect(err).NotTo(HaveOccurred())

			report, err := study.Run(context.Background())
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 3; i++ {
				Expect(report.Dydx[i]).To(Equal(report.YStart[3+i]))
			}
		})

		It("synchronises the model with the integrated state", func() {
			sys, err := reg.GetSystem(cfg.System, cfg)
			Expect(err).NotTo(HaveOccurred())
			solver, err := reg.GetSolver("RKDP45", sys)
			Expect(err).NotTo(HaveOccurred())

			report, err := experiment.NewStudy(cfg, sys, solver, nil).Run(context.Background())
			Expect(err).NotTo(HaveOccurred())

			o := sys.(*physics.Oscillator)
			Expect(o.StateVector()).To(Equal(report.Numeric))
			for i := 0; i < 3; i++ {
				Expect(o.Xrel().Value[i]).To(Equal(report.Numeric[i]))
				Expect(o.U().Value[i]).To(Equal(report.Numeric[3+i]))
			}
		})

		It("rejects a solver that needs a Jacobian", func() {
			_, err := reg.Build(cfg, "Rosenbrock12", nil)
			Expect(err).To(MatchError(dynamo.ErrJacobianRequired))
		})

		It("fails construction for an unknown preset", func() {
			cfg.Preset = "nope"
			_, err := reg.Build(cfg, "RKDP45", nil)
			Expect(err).To(HaveOccurred())
		})

		It("offers energy metrics", func() {
			sys, err := reg.GetSystem(cfg.System, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.DefaultMetrics(sys)).To(HaveLen(3))
			Expect(reg.DefaultMetrics(physics.NewBessel())).To(HaveLen(1))
		})
	})

	It("reports unknown solvers", func() {
		_, err := reg.Build(cfg, "Leapfrog", nil)
		Expect(err).To(MatchError(dynamo.ErrUnknownSolver))
	})

	It("reports unknown systems", func() {
		cfg.System = "pendulum"
		_, err := reg.Build(cfg, "RKDP45", nil)
		Expect(err).To(MatchError(dynamo.ErrUnknownSystem))
	})

	It("skips the sweep when the count is zero", func() {
		cfg.Sweep.Count = 0
		study, err := reg.Build(cfg, "RKF45", nil)
		Expect(err).NotTo(HaveOccurred())

		report, err := study.Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Sweep).To(BeEmpty())
		Expect(report.Numeric).To(HaveLen(6))
	})

	It("stops when the context is cancelled", func() {
		study, err := reg.Build(cfg, "RKF45", nil)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = study.Run(ctx)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("compares solvers in the requested order", func() {
		names := []string{"RKF45", "RKCK45", "RKDP45"}
		reports, err := experiment.Compare(context.Background(), reg, cfg, names, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(reports).To(HaveLen(3))
		for i, r := range reports {
			Expect(r.Solver).To(Equal(names[i]))
			Expect(r.Error).To(BeNumerically("<", 1e-3))
		}
	})
})
