package transition

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mosaicfx/internal/dynamo"
)

const frame = 1.0 / 60

var _ = Describe("Controller", func() {
	var (
		ctrl      *Controller
		covered   []uint64
		completed []uint64
	)

	tickFor := func(seconds float64) {
		for t := 0.0; t < seconds; t += frame {
			ctrl.Tick(frame)
		}
	}

	BeforeEach(func() {
		var err error
		ctrl, err = NewController(DefaultPhases(), Timing{
			AppearDuration:    1.0,
			HoldDuration:      0.5,
			DisappearDuration: 1.0,
			Grace:             0.1,
			Seed:              42,
		}, 4)
		Expect(err).NotTo(HaveOccurred())
		covered, completed = nil, nil
		ctrl.OnCovered(func(run uint64) { covered = append(covered, run) })
		ctrl.OnComplete(func(run uint64) { completed = append(completed, run) })
	})

	It("starts idle and ignores the initial trigger value", func() {
		Expect(ctrl.State().Phase).To(Equal(Idle))
		Expect(ctrl.Trigger(0)).To(BeFalse())
		ctrl.Tick(1)
		Expect(ctrl.State().Active).To(BeFalse())
		Expect(covered).To(BeEmpty())
	})

	It("rejects degenerate timing", func() {
		_, err := NewController(DefaultPhases(), Timing{AppearDuration: 0, HoldDuration: 1, DisappearDuration: 1}, 1)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		_, err = NewController(DefaultPhases(), DefaultTiming(), 0)
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	Context("after a trigger", func() {
		BeforeEach(func() {
			Expect(ctrl.Trigger(1)).To(BeTrue())
		})

		It("enters Appearing with fresh seeds at progress 0", func() {
			s := ctrl.State()
			Expect(s.Phase).To(Equal(Appearing))
			Expect(s.Progress).To(BeZero())
			Expect(s.Active).To(BeTrue())
			Expect(s.Run).To(Equal(uint64(1)))
			Expect(s.Palette).To(Equal(0))
			Expect(s.AppearSeed).NotTo(Equal(s.DisappearSeed))
		})

		It("ignores a repeated counter value", func() {
			tickFor(0.3)
			before := ctrl.State()
			Expect(ctrl.Trigger(1)).To(BeFalse())
			Expect(ctrl.State()).To(Equal(before))
		})

		It("accelerates through the appear phase", func() {
			ctrl.Tick(0.5)
			Expect(ctrl.State().Progress).To(BeNumerically("<", DefaultPhases().T1/2))
			Expect(ctrl.State().Progress).To(BeNumerically(">", 0))
		})

		It("advances progress monotonically through the whole run", func() {
			prev := 0.0
			for i := 0; i < 170; i++ {
				ctrl.Tick(frame)
				p := ctrl.State().Progress
				if ctrl.State().Phase == Idle {
					break
				}
				Expect(p).To(BeNumerically(">=", prev))
				prev = p
			}
			Expect(prev).To(BeNumerically("~", 1, 1e-9))
		})

		It("fires covered exactly once at T1 and enters Held", func() {
			tickFor(1.05)
			s := ctrl.State()
			Expect(s.Phase).To(Equal(Held))
			Expect(s.Progress).To(BeNumerically(">=", DefaultPhases().T1))
			Expect(covered).To(Equal([]uint64{1}))

			tickFor(0.3)
			Expect(covered).To(HaveLen(1))
		})

		It("holds at 1 through the grace delay, then resets to Idle", func() {
			tickFor(2.52)
			Expect(ctrl.State().Phase).To(Equal(Disappearing))
			Expect(ctrl.State().Progress).To(Equal(1.0))
			Expect(completed).To(BeEmpty())

			tickFor(0.2)
			s := ctrl.State()
			Expect(s.Phase).To(Equal(Idle))
			Expect(s.Progress).To(BeZero())
			Expect(s.Active).To(BeFalse())
			Expect(completed).To(Equal([]uint64{1}))
			Expect(covered).To(Equal([]uint64{1}))
		})

		It("carries a long tick across every phase boundary", func() {
			ctrl.Tick(10)
			Expect(ctrl.State().Phase).To(Equal(Idle))
			Expect(covered).To(Equal([]uint64{1}))
			Expect(completed).To(Equal([]uint64{1}))
		})

		It("cancels a run in flight and starts over with new seeds", func() {
			tickFor(0.6)
			old := ctrl.State()
			Expect(old.Progress).To(BeNumerically(">", 0))

			Expect(ctrl.Trigger(2)).To(BeTrue())
			s := ctrl.State()
			Expect(s.Phase).To(Equal(Appearing))
			Expect(s.Progress).To(BeZero())
			Expect(s.Elapsed).To(BeZero())
			Expect(s.Run).To(Equal(uint64(2)))
			Expect(s.AppearSeed).NotTo(Equal(old.AppearSeed))
			Expect(s.DisappearSeed).NotTo(Equal(old.DisappearSeed))

			ctrl.Tick(10)
			Expect(covered).To(Equal([]uint64{2}))
			Expect(completed).To(Equal([]uint64{2}))
		})

		It("never completes a run cancelled after it was covered", func() {
			tickFor(1.2)
			Expect(covered).To(Equal([]uint64{1}))
			ctrl.Trigger(2)
			tickFor(0.5)
			ctrl.Trigger(3)
			ctrl.Tick(10)
			Expect(covered).To(Equal([]uint64{1, 3}))
			Expect(completed).To(Equal([]uint64{3}))
		})

		It("drops the run without callbacks on Cancel", func() {
			tickFor(0.4)
			ctrl.Cancel()
			Expect(ctrl.State().Phase).To(Equal(Idle))
			Expect(ctrl.State().Progress).To(BeZero())
			ctrl.Tick(10)
			Expect(covered).To(BeEmpty())
			Expect(completed).To(BeEmpty())
		})
	})

	It("rotates palettes round-robin per trigger", func() {
		var got []int
		for i := uint64(1); i <= 5; i++ {
			ctrl.Trigger(i)
			got = append(got, ctrl.State().Palette)
		}
		Expect(got).To(Equal([]int{0, 1, 2, 3, 0}))
	})

	It("keeps seeds fixed for the whole run", func() {
		ctrl.Trigger(1)
		s := ctrl.State()
		for i := 0; i < 100; i++ {
			ctrl.Tick(frame)
			Expect(ctrl.State().AppearSeed).To(Equal(s.AppearSeed))
			Expect(ctrl.State().DisappearSeed).To(Equal(s.DisappearSeed))
		}
	})

	It("draws the same seed sequence for the same timing seed", func() {
		other, err := NewController(DefaultPhases(), Timing{
			AppearDuration: 1, HoldDuration: 0.5, DisappearDuration: 1, Seed: 42,
		}, 4)
		Expect(err).NotTo(HaveOccurred())
		ctrl.Trigger(7)
		other.Trigger(9)
		Expect(other.State().AppearSeed).To(Equal(ctrl.State().AppearSeed))
		Expect(other.State().DisappearSeed).To(Equal(ctrl.State().DisappearSeed))
	})

	It("lets a completion handler chain the next run", func() {
		ctrl.OnComplete(func(run uint64) {
			if run == 1 {
				ctrl.Trigger(100)
			}
		})
		ctrl.Trigger(1)
		ctrl.Tick(2.7)
		Expect(completed).To(Equal([]uint64{1}))
		Expect(ctrl.State().Run).To(Equal(uint64(2)))
		Expect(ctrl.State().Active).To(BeTrue())
	})
})
