package ranking

import (
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jordansissel/fastest-sites/probing"
)

// Ranker orders one named group of candidate mirror URLs from fastest to
// slowest measured connect latency.
type Ranker struct {
	scheduler *probing.Scheduler
}

func NewRanker(scheduler *probing.Scheduler) *Ranker {
	return &Ranker{scheduler: scheduler}
}

// Rank deduplicates the group's URLs, probes them all concurrently and
// returns the URLs sorted by ascending latency. A malformed URL aborts the
// group before any probing. An empty group returns an empty ranking without
// touching the network.
func (r *Ranker) Rank(group string, urls []string) ([]string, error) {
	unique := dedupe(urls)
	if len(unique) == 0 {
		return nil, nil
	}

	targets := make([]probing.Target, 0, len(unique))
	for _, u := range unique {
		target, err := probing.ParseTarget(u)
		if err != nil {
			return nil, fmt.Errorf("bad url in group %s: %w", group, err)
		}
		targets = append(targets, target)
	}

	log.Infof("checking servers for %s (%d servers)", group, len(targets))

	table := r.scheduler.RunAll(group, targets)
	return orderByLatency(table), nil
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}
	return unique
}

// orderByLatency sorts table entries ascending by (elapsed, url). The
// lexical tie-break keeps re-runs deterministic when latencies collide,
// which always happens for sentinel entries.
func orderByLatency(table probing.LatencyTable) []string {
	type entry struct {
		url     string
		elapsed time.Duration
	}
	entries := make([]entry, 0, len(table))
	for url, elapsed := range table {
		entries = append(entries, entry{url: url, elapsed: elapsed})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].elapsed != entries[j].elapsed {
			return entries[i].elapsed < entries[j].elapsed
		}
		return entries[i].url < entries[j].url
	})

	ranked := make([]string, 0, len(entries))
	for _, e := range entries {
		ranked = append(ranked, e.url)
	}
	return ranked
}
