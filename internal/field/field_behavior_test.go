package field

import (
	"math"

	g "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = g.Describe("Field", func() {
	var (
		surface *testSurface
		f       *Field
	)

	g.BeforeEach(func() {
		surface = &testSurface{w: 800, h: 600}
		var err error
		f, err = Attach(surface, WithSeed(42))
		Expect(err).NotTo(HaveOccurred())
	})

	g.DescribeTable("population size",
		func(w, h float64, expected int) {
			Expect(Count(w, h)).To(Equal(expected))
		},
		g.Entry("800x600", 800.0, 600.0, 32),
		g.Entry("phone portrait", 390.0, 844.0, 21),
		g.Entry("capped on 4k", 3840.0, 2160.0, 100),
		g.Entry("empty surface", 0.0, 0.0, 0),
	)

	g.It("populates an 800x600 surface with 32 particles", func() {
		Expect(f.Particles()).To(HaveLen(32))
		w, h := f.Size()
		Expect(w).To(Equal(800.0))
		Expect(h).To(Equal(600.0))
	})

	g.Context("when the pointer sits on a particle", func() {
		g.It("pushes it a finite distance of density*0.6", func() {
			p := f.Particles()[0]
			f.params.Ease = 0
			f.particles = []Particle{p}
			f.PointerMove(p.X, p.Y)

			f.Update()

			moved := f.Particles()[0]
			Expect(moved.Finite()).To(BeTrue())
			Expect(math.Hypot(moved.X-p.X, moved.Y-p.Y)).To(BeNumerically("~", p.Density*0.6, 1e-9))
		})
	})

	g.Context("after the pointer leaves", func() {
		g.It("moves particles only by easing and drift", func() {
			p := Particle{X: 300, Y: 300, BaseX: 310, BaseY: 290, SpeedX: 0.1, SpeedY: -0.1, Size: 2, Density: 25}
			f.particles = []Particle{p}
			f.PointerMove(301, 300)
			f.PointerLeave()

			st := f.Step(RenderConfig{})

			Expect(st.Repelled).To(BeZero())
			got := f.Particles()[0]
			Expect(got.X).To(BeNumerically("~", 300.5, 1e-9))
			Expect(got.Y).To(BeNumerically("~", 299.5, 1e-9))
		})
	})

	g.Context("resizing twice to the same size", func() {
		g.It("keeps the count but re-randomizes positions", func() {
			f.Resize()
			first := f.Particles()
			f.Resize()
			second := f.Particles()

			Expect(second).To(HaveLen(len(first)))
			Expect(second).NotTo(Equal(first))
		})
	})

	g.Context("drawing a frame", func() {
		g.It("links exactly the pairs closer than the link distance", func() {
			f.Step(RenderConfig{Mode: Dark})

			ps := f.Particles()
			expected := 0
			for i := range ps {
				for j := i + 1; j < len(ps); j++ {
					if math.Hypot(ps[i].X-ps[j].X, ps[i].Y-ps[j].Y) < DefaultLinkDistance {
						expected++
					}
				}
			}
			Expect(surface.lines).To(HaveLen(expected))
			Expect(surface.circles).To(Equal(len(ps)))
		})
	})
})
