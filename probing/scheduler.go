package probing

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jordansissel/fastest-sites/common"
)

// LatencyTable accumulates measured connect latency per URL. Each URL is
// probed once per run, so the accumulated value equals the single
// measurement.
type LatencyTable map[string]time.Duration

// SchedulerConfig carries the wait tunables for one measurement run. Zero
// values are not defaulted here; the config package owns the defaults.
type SchedulerConfig struct {
	// PollTimeout bounds how long a single poll round blocks waiting for
	// the next completion.
	PollTimeout time.Duration
	// IdleWait is the secondary wait entered when the primary rounds end
	// with no data at all, to give slow networks one more chance.
	IdleWait time.Duration
	// MaxPollRounds caps the number of poll rounds when more targets than
	// that are in flight. It limits waiting, not results: every completion
	// already pending is collected within a round.
	MaxPollRounds int
	// MaxWorkers bounds the probe fan-out pool.
	MaxWorkers int
}

// Scheduler drives many probes concurrently and decides when to stop
// waiting for stragglers.
type Scheduler struct {
	cfg    SchedulerConfig
	prober *Prober
}

func NewScheduler(cfg SchedulerConfig, prober *Prober) *Scheduler {
	return &Scheduler{cfg: cfg, prober: prober}
}

// RunAll probes every target concurrently and returns the latency table of
// completed probes. Targets still pending when the wait phases end are
// abandoned: their sockets die with the run and they get no table entry,
// since a value racing the deadline is information we don't trust. The
// group name is only used for diagnostics.
func (s *Scheduler) RunAll(group string, targets []Target) LatencyTable {
	table := make(LatencyTable, len(targets))
	if len(targets) == 0 {
		return table
	}

	pool, err := common.NewPool(common.PoolConfig{MaxWorkers: s.cfg.MaxWorkers})
	if err != nil {
		log.Errorf("failed to create probe pool: %v", err)
		return table
	}
	defer pool.Release()

	// Buffered to the fan-out size so abandoned probes can still finish
	// their send and exit after RunAll returns.
	results := make(chan Result, len(targets))

	for _, target := range targets {
		t := target
		if err := pool.Submit(func() {
			results <- s.prober.Probe(t)
		}); err != nil {
			log.Warnf("failed to submit probe for %s: %v", t.URL, err)
			results <- Result{URL: t.URL, Status: StatusFailed}
		}
	}

	pending := len(targets)

	record := func(res Result) {
		pending--
		if res.Status != StatusCompleted {
			return
		}
		table[res.URL] += res.Elapsed
	}

	// Collect whatever has already finished without blocking.
	drain := func() {
		for pending > 0 {
			select {
			case res := <-results:
				record(res)
			default:
				return
			}
		}
	}

	// We probably don't need more than MaxPollRounds results, so with a
	// large target set we stop polling once that many rounds have passed.
	rounds := len(targets)
	if rounds > s.cfg.MaxPollRounds {
		rounds = s.cfg.MaxPollRounds
	}

	for i := 0; i < rounds && pending > 0; i++ {
		timeout := time.NewTimer(s.cfg.PollTimeout)
		select {
		case res := <-results:
			record(res)
		case <-timeout.C:
		}
		timeout.Stop()
		drain()
	}

	if len(table) == 0 && pending > 0 {
		// No data has come back yet, let's wait.
		log.Warnf("still waiting on data for %s", group)
		deadline := time.NewTimer(s.cfg.IdleWait)
	idle:
		for pending > 0 {
			select {
			case res := <-results:
				record(res)
			case <-deadline.C:
				break idle
			}
		}
		deadline.Stop()
	}

	if pending > 0 {
		log.Debugf("abandoning %d unfinished probes for %s", pending, group)
	}
	return table
}
