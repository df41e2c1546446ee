package automation

import (
	"context"
	"strings"

	"github.com/san-kum/driftfield/internal/field"
	"github.com/san-kum/driftfield/internal/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const hoverScenario = `
name: hover
description: pointer parks on the centre, then leaves
width: 800
height: 600
seed: 7
mode: dark
frames: 40
events:
  - frame: 5
    type: move
    x: 400
    y: 300
  - frame: 20
    type: leave
  - frame: 30
    type: resize
    width: 390
    height: 844
  - frame: 35
    type: mode
    mode: light
`

type modeRecorder struct {
	modes  []field.Mode
	active []bool
}

func (m *modeRecorder) OnFrame(fr sim.Frame) {
	m.modes = append(m.modes, fr.Mode)
	m.active = append(m.active, fr.Pointer.Active)
}

var _ = Describe("Scenario", func() {
	var scenario *Scenario

	BeforeEach(func() {
		var err error
		scenario, err = ParseScenario([]byte(hoverScenario))
		Expect(err).NotTo(HaveOccurred())
	})

	It("parses the header and events", func() {
		Expect(scenario.Name).To(Equal("hover"))
		Expect(scenario.Mode).To(Equal(field.Dark))
		Expect(scenario.Events).To(HaveLen(4))
		Expect(scenario.Events[2].Width).To(Equal(390))
	})

	It("replays events at their frames", func() {
		rec := &modeRecorder{}
		run, err := RunScenario(context.Background(), scenario, rec)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Result.FramesRun).To(Equal(40))

		Expect(rec.active[4]).To(BeFalse())
		Expect(rec.active[5]).To(BeTrue())
		Expect(rec.active[20]).To(BeFalse())
		Expect(rec.modes[34]).To(Equal(field.Dark))
		Expect(rec.modes[35]).To(Equal(field.Light))

		Expect(run.Result.Frames[29].Particles).To(Equal(32))
		Expect(run.Result.Frames[30].Particles).To(Equal(21))
		Expect(run.Tape.Width).To(Equal(390))
	})

	It("is deterministic for a fixed seed", func() {
		a, err := RunScenario(context.Background(), scenario)
		Expect(err).NotTo(HaveOccurred())
		b, err := RunScenario(context.Background(), scenario)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Result.Frames).To(Equal(b.Result.Frames))
		Expect(a.Field.Particles()).To(Equal(b.Field.Particles()))
	})

	It("records the last frame on its tape", func() {
		run, err := RunScenario(context.Background(), scenario)
		Expect(err).NotTo(HaveOccurred())

		last := run.Result.Frames[len(run.Result.Frames)-1]
		Expect(run.Tape.Circles()).To(HaveLen(last.Particles))
		Expect(run.Tape.Lines()).To(HaveLen(last.Links))

		doc := string(run.Tape.SVG(field.LightPalette.Background))
		Expect(doc).To(ContainSubstring(`<svg width="390" height="844"`))
		Expect(strings.Count(doc, "<circle")).To(Equal(last.Particles))
	})

	It("reports metrics for every run", func() {
		run, err := RunScenario(context.Background(), scenario)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Result.Metrics).To(HaveKeyWithValue("finite", 1.0))
		Expect(run.Result.Metrics).To(HaveKey("link_density"))
	})
})

var _ = Describe("Sweep", func() {
	It("traces a circle and then leaves", func() {
		events := Sweep(400, 300, 100, 10, 4, 5)
		Expect(events).To(HaveLen(5))

		Expect(events[0].X).To(BeNumerically("~", 500, 1e-9))
		Expect(events[0].Y).To(BeNumerically("~", 300, 1e-9))
		Expect(events[1].X).To(BeNumerically("~", 400, 1e-9))
		Expect(events[1].Y).To(BeNumerically("~", 400, 1e-9))
		Expect(events[1].Frame).To(Equal(15))

		Expect(events[4].Type).To(Equal(EventLeave))
		Expect(events[4].Frame).To(Equal(30))
	})

	It("runs as a scenario", func() {
		s := &Scenario{Name: "sweep", Width: 800, Height: 600, Seed: 1, Frames: 60, Events: Sweep(400, 300, 150, 0, 24, 2)}
		run, err := RunScenario(context.Background(), s)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Field.Pointer().Active).To(BeFalse())
	})
})
