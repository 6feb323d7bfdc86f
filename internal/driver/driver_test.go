package driver_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/randplay/internal/driver"
	"github.com/san-kum/randplay/internal/gym"
)

var _ = Describe("PlayRandom", func() {
	var (
		ctx context.Context
		env *recordingEnv
	)

	BeforeEach(func() {
		ctx = context.Background()
		env = &recordingEnv{}
	})

	Context("with a zero step budget", func() {
		It("resets once and closes once without stepping", func() {
			Expect(driver.PlayRandom(ctx, env, 0, nil)).To(Succeed())
			Expect(env.calls).To(Equal([]string{"reset", "close"}))
		})
	})

	Context("when episodes never end", func() {
		It("takes N sample+step pairs after a single reset", func() {
			Expect(driver.PlayRandom(ctx, env, 5, nil)).To(Succeed())

			Expect(env.count("reset")).To(Equal(1))
			Expect(env.count("sample")).To(Equal(5))
			Expect(env.count("step")).To(Equal(5))
			Expect(env.count("render")).To(Equal(5))
			Expect(env.count("close")).To(Equal(1))
			Expect(env.calls[len(env.calls)-1]).To(Equal("close"))
		})

		It("samples before every step and renders after it", func() {
			Expect(driver.PlayRandom(ctx, env, 2, nil)).To(Succeed())
			Expect(env.calls).To(Equal([]string{
				"reset",
				"sample", "step", "render",
				"sample", "step", "render",
				"close",
			}))
		})
	})

	Context("when every step terminates the episode", func() {
		BeforeEach(func() {
			env.terminal = func(int) bool { return true }
		})

		It("resets before each following step", func() {
			Expect(driver.PlayRandom(ctx, env, 3, nil)).To(Succeed())
			Expect(env.controlCalls()).To(Equal([]string{
				"reset", "sample", "step",
				"reset", "sample", "step",
				"reset", "sample", "step",
				"close",
			}))
			Expect(env.count("reset")).To(Equal(3))
		})

		It("does not reset after the final step", func() {
			Expect(driver.PlayRandom(ctx, env, 1, nil)).To(Succeed())
			Expect(env.controlCalls()).To(Equal([]string{"reset", "sample", "step", "close"}))
		})
	})

	Context("when episodes end by truncation", func() {
		It("resets the same way as for termination", func() {
			trunc := &truncatingEnv{}
			Expect(driver.PlayRandom(ctx, trunc, 3, nil)).To(Succeed())
			Expect(trunc.count("reset")).To(Equal(3))
			Expect(trunc.count("step")).To(Equal(3))
		})
	})

	Context("when episodes end every other step", func() {
		It("resets only after the terminal steps", func() {
			env.terminal = func(step int) bool { return step%2 == 0 }
			Expect(driver.PlayRandom(ctx, env, 5, nil)).To(Succeed())
			Expect(env.controlCalls()).To(Equal([]string{
				"reset",
				"sample", "step",
				"sample", "step",
				"reset", "sample", "step",
				"sample", "step",
				"reset", "sample", "step",
				"close",
			}))
		})
	})

	Context("seeding", func() {
		It("forwards the seed to the first reset only", func() {
			env.terminal = func(int) bool { return true }
			seed := int64(42)

			Expect(driver.PlayRandom(ctx, env, 3, &seed)).To(Succeed())

			Expect(env.seeds).To(HaveLen(3))
			Expect(env.seeds[0]).NotTo(BeNil())
			Expect(*env.seeds[0]).To(Equal(int64(42)))
			Expect(env.seeds[1]).To(BeNil())
			Expect(env.seeds[2]).To(BeNil())
		})

		It("passes a nil seed through unchanged", func() {
			Expect(driver.PlayRandom(ctx, env, 1, nil)).To(Succeed())
			Expect(env.seeds).To(Equal([]*int64{nil}))
		})
	})

	Context("when interrupted", func() {
		DescribeTable("stops after k steps without error",
			func(k, steps int) {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				env.onStep = func(step int) {
					if step == k {
						cancel()
					}
				}

				Expect(driver.PlayRandom(ctx, env, steps, nil)).To(Succeed())
				Expect(env.count("step")).To(Equal(k))
				Expect(env.count("close")).To(Equal(1))
			},
			Entry("after the first step", 1, 10),
			Entry("midway", 4, 10),
			Entry("on the last step", 10, 10),
		)

		It("still resets and closes when cancelled up front", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			Expect(driver.PlayRandom(ctx, env, 10, nil)).To(Succeed())
			Expect(env.calls).To(Equal([]string{"reset", "close"}))
		})

		It("leaves interrupt reporting to the caller at info level", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			d := driver.New(env, driver.WithLogger(logger))

			Expect(d.Run(ctx, 5, nil)).To(Succeed())
			Expect(buf.String()).To(BeEmpty())
		})

		It("treats a deadline as an interrupt", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 0)
			defer cancel()
			<-ctx.Done()

			Expect(driver.PlayRandom(ctx, env, 3, nil)).To(Succeed())
			Expect(env.count("step")).To(BeZero())
			Expect(env.count("close")).To(Equal(1))
		})
	})

	Context("when the environment fails", func() {
		errBoom := errors.New("boom")

		It("returns a reset error unchanged and closes", func() {
			env.resetErr = errBoom
			err := driver.PlayRandom(ctx, env, 3, nil)
			Expect(err).To(BeIdenticalTo(errBoom))
			Expect(env.calls).To(Equal([]string{"reset", "close"}))
		})

		It("returns a sample error unchanged and closes", func() {
			env.sampleErr = gym.ErrEmptySpace
			err := driver.PlayRandom(ctx, env, 3, nil)
			Expect(err).To(MatchError(gym.ErrEmptySpace))
			Expect(env.count("step")).To(BeZero())
			Expect(env.count("close")).To(Equal(1))
		})

		It("returns a step error unchanged and stops stepping", func() {
			env.stepErr = errBoom
			env.failAt = 2
			err := driver.PlayRandom(ctx, env, 5, nil)
			Expect(err).To(BeIdenticalTo(errBoom))
			Expect(env.count("step")).To(Equal(2))
			Expect(env.count("render")).To(Equal(1))
			Expect(env.count("close")).To(Equal(1))
		})

		It("returns a render error unchanged", func() {
			env.renderErr = errBoom
			err := driver.PlayRandom(ctx, env, 5, nil)
			Expect(err).To(BeIdenticalTo(errBoom))
			Expect(env.count("step")).To(Equal(1))
			Expect(env.count("close")).To(Equal(1))
		})

		It("returns a close error after a clean run", func() {
			env.closeErr = errBoom
			err := driver.PlayRandom(ctx, env, 2, nil)
			Expect(err).To(BeIdenticalTo(errBoom))
		})

		It("reports a close error after an interrupt", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			env.closeErr = errBoom
			Expect(driver.PlayRandom(ctx, env, 2, nil)).To(MatchError(errBoom))
		})

		It("joins a close error with the loop error", func() {
			errClose := errors.New("close failed")
			env.stepErr = errBoom
			env.failAt = 1
			env.closeErr = errClose

			err := driver.PlayRandom(ctx, env, 3, nil)
			Expect(errors.Is(err, errBoom)).To(BeTrue())
			Expect(errors.Is(err, errClose)).To(BeTrue())
			Expect(env.count("close")).To(Equal(1))
		})
	})

	Context("with a negative step budget", func() {
		It("fails without resetting and still closes", func() {
			err := driver.PlayRandom(ctx, env, -1, nil)
			Expect(err).To(MatchError(driver.ErrNegativeSteps))
			Expect(env.calls).To(Equal([]string{"close"}))
		})
	})

	Context("observers", func() {
		It("see the index, reward and info of every step", func() {
			var steps []int
			var rewards []float64
			var infos []gym.Info
			obs := driver.ObserverFunc(func(i int, tr gym.Transition) {
				steps = append(steps, i)
				rewards = append(rewards, tr.Reward)
				infos = append(infos, tr.Info)
			})

			Expect(driver.PlayRandom(ctx, env, 3, nil, obs)).To(Succeed())
			Expect(steps).To(Equal([]int{0, 1, 2}))
			Expect(rewards).To(Equal([]float64{1, 2, 3}))
			Expect(infos).To(HaveLen(3))
			Expect(infos[2]).To(HaveKeyWithValue("step", 3))
		})

		It("do not change the control call sequence", func() {
			env.terminal = func(step int) bool { return step%3 == 0 }
			Expect(driver.PlayRandom(ctx, env, 7, nil)).To(Succeed())
			plain := env.controlCalls()

			observed := &recordingEnv{terminal: env.terminal}
			d := driver.New(observed, driver.WithObserver(driver.ObserverFunc(func(int, gym.Transition) {})))
			d.AddObserver(driver.ObserverFunc(func(int, gym.Transition) {}))
			Expect(d.Run(ctx, 7, nil)).To(Succeed())

			Expect(observed.controlCalls()).To(Equal(plain))
		})

		It("are notified before render", func() {
			var order []string
			env.onStep = func(int) {}
			obs := driver.ObserverFunc(func(int, gym.Transition) {
				order = append(order, env.calls[len(env.calls)-1])
			})

			Expect(driver.PlayRandom(ctx, env, 2, nil, obs)).To(Succeed())
			Expect(order).To(Equal([]string{"step", "step"}))
		})
	})
})
