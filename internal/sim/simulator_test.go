package sim_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ecasim/internal/automaton"
	"github.com/san-kum/ecasim/internal/metrics"
	"github.com/san-kum/ecasim/internal/rule"
	"github.com/san-kum/ecasim/internal/sim"
)

type recorder struct {
	mu   sync.Mutex
	rows []string
	fail error
	seen chan struct{}
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan struct{}, 1024)}
}

func (r *recorder) Render(row automaton.Row) error {
	r.mu.Lock()
	r.rows = append(r.rows, row.String())
	r.mu.Unlock()
	r.seen <- struct{}{}
	return r.fail
}

func (r *recorder) Rows() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.rows...)
}

func newSimulator(width, ruleNumber int, boundary automaton.Boundary) *sim.Simulator {
	buf, err := automaton.NewBuffer(width, automaton.CenterSeed{}, boundary)
	Expect(err).NotTo(HaveOccurred())
	return sim.New(rule.MustNew(ruleNumber), buf)
}

var _ = Describe("Simulator", func() {
	Describe("RunBatch", func() {
		It("renders nothing for zero iterations", func() {
			s := newSimulator(5, 90, automaton.FixedBoundary(0))
			rec := newRecorder()

			res, err := s.RunBatch(0, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Rows()).To(BeEmpty())
			Expect(res.Generations).To(Equal(0))
			Expect(res.Outcome).To(Equal(sim.Completed))
			Expect(s.Buffer().Generation()).To(Equal(0))
		})

		It("renders nothing for negative iterations", func() {
			s := newSimulator(5, 90, automaton.FixedBoundary(0))
			rec := newRecorder()

			res, err := s.RunBatch(-3, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Rows()).To(BeEmpty())
			Expect(res.Rows).To(BeEmpty())
		})

		It("counts the seed row as the first generation", func() {
			s := newSimulator(7, 90, automaton.FixedBoundary(0))
			rec := newRecorder()

			res, err := s.RunBatch(4, rec)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.Rows()).To(Equal([]string{
				"0001000",
				"0010100",
				"0100010",
				"1010101",
			}))
			Expect(res.Generations).To(Equal(4))
			Expect(res.Rows).To(HaveLen(4))
			Expect(res.Rows[3].String()).To(Equal("1010101"))
		})

		It("materialises independent copies of every row", func() {
			s := newSimulator(5, 254, automaton.FixedBoundary(0))

			res, err := s.RunBatch(3, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Rows[0].String()).To(Equal("00100"))
			Expect(res.Rows[1].String()).To(Equal("01110"))
			Expect(res.Rows[2].String()).To(Equal("11111"))
			Expect(res.Final.String()).To(Equal("11111"))
		})

		It("stops on a renderer error", func() {
			s := newSimulator(5, 30, automaton.FixedBoundary(0))
			rec := newRecorder()
			rec.fail = errors.New("broken pipe")

			_, err := s.RunBatch(10, rec)
			Expect(err).To(MatchError("broken pipe"))
			Expect(rec.Rows()).To(HaveLen(1))
		})

		It("reports metrics", func() {
			s := newSimulator(4, 0, automaton.FixedBoundary(0))
			s.AddMetric(metrics.NewDensity())
			s.AddMetric(metrics.NewSurvival())

			res, err := s.RunBatch(2, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKeyWithValue("density", BeNumerically("~", 0.125)))
			Expect(res.Metrics).To(HaveKeyWithValue("survival", BeNumerically("~", 0.5)))
		})
	})

	Describe("RunLive", func() {
		It("completes every generation", func() {
			s := newSimulator(9, 30, automaton.ToroidalBoundary())
			rec := newRecorder()

			res, err := s.RunLive(context.Background(), 5, rec, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Completed))
			Expect(res.Generations).To(Equal(5))
			Expect(res.Rows).To(BeNil())
			Expect(rec.Rows()).To(HaveLen(5))
		})

		It("matches the batch sequence", func() {
			batch := newRecorder()
			_, err := newSimulator(11, 110, automaton.ToroidalBoundary()).RunBatch(8, batch)
			Expect(err).NotTo(HaveOccurred())

			live := newRecorder()
			_, err = newSimulator(11, 110, automaton.ToroidalBoundary()).RunLive(context.Background(), 8, live, time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(live.Rows()).To(Equal(batch.Rows()))
		})

		It("renders at most one row when cancelled before the first suspension", func() {
			s := newSimulator(5, 30, automaton.FixedBoundary(0))
			rec := newRecorder()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.RunLive(ctx, 10, rec, time.Hour)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Cancelled))
			Expect(len(rec.Rows())).To(BeNumerically("<=", 1))
		})

		It("paces generations", func() {
			s := newSimulator(5, 30, automaton.FixedBoundary(0))
			start := time.Now()

			_, err := s.RunLive(context.Background(), 3, nil, 20*time.Millisecond)
			Expect(err).NotTo(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically(">=", 40*time.Millisecond))
		})

		It("stops a background run on Cancel and leaves a whole generation", func() {
			s := newSimulator(15, 30, automaton.FixedBoundary(0))
			rec := newRecorder()

			h := s.Go(context.Background(), 100, rec, time.Hour)
			Eventually(rec.seen).Should(Receive())
			h.Cancel()

			Eventually(h.Done()).Should(BeClosed())
			res, err := h.Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Cancelled))
			Expect(res.Generations).To(Equal(1))
			Expect(s.Buffer().Generation()).To(Equal(1))
			Expect(res.Final).To(HaveLen(15))
		})

		It("finishes a background run on its own", func() {
			s := newSimulator(15, 90, automaton.FixedBoundary(0))

			res, err := s.Go(context.Background(), 6, nil, 0).Wait()
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Completed))
			Expect(res.Generations).To(Equal(6))
		})
	})

	Describe("Sweep", func() {
		factory := func(n int) (*sim.Simulator, error) {
			t, err := rule.New(n)
			if err != nil {
				return nil, err
			}
			buf, err := automaton.NewBuffer(21, automaton.CenterSeed{}, automaton.ToroidalBoundary())
			if err != nil {
				return nil, err
			}
			s := sim.New(t, buf)
			s.AddMetric(metrics.NewDensity())
			return s, nil
		}

		It("returns results in rule order", func() {
			rules := []int{0, 30, 90, 110, 255}
			results, err := sim.Sweep(context.Background(), rules, factory, 10, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(len(rules)))
			for i, r := range results {
				Expect(r.Rule).To(Equal(rules[i]))
				Expect(r.Result.Generations).To(Equal(10))
			}
			Expect(results[4].Result.Final.Count()).To(Equal(21))
		})

		It("matches a sequential run", func() {
			results, err := sim.Sweep(context.Background(), []int{30}, factory, 12, 0)
			Expect(err).NotTo(HaveOccurred())

			s, err := factory(30)
			Expect(err).NotTo(HaveOccurred())
			want, err := s.RunBatch(12, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[0].Result.Final).To(Equal(want.Final))
			Expect(results[0].Result.Metrics).To(Equal(want.Metrics))
		})

		It("fails on an invalid rule", func() {
			_, err := sim.Sweep(context.Background(), []int{30, 300}, factory, 5, 0)
			Expect(err).To(MatchError(rule.ErrInvalidRule))
		})
	})
})

var _ = Describe("Outcome", func() {
	DescribeTable("String",
		func(o sim.Outcome, want string) {
			Expect(o.String()).To(Equal(want))
		},
		Entry("completed", sim.Completed, "completed"),
		Entry("cancelled", sim.Cancelled, "cancelled"),
		Entry("unknown", sim.Outcome(7), "outcome(7)"),
	)
})
