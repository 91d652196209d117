package probing

import (
	"errors"
	"net"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultSentinelLatency is recorded for hosts that fail DNS resolution. It
// is far larger than any real connect round-trip, so unresolvable sites stay
// in the ranking but sort behind every site that answered.
const DefaultSentinelLatency = 1000 * time.Second

// Status classifies the outcome of one probe.
type Status int

const (
	// StatusCompleted means the probe produced a latency measurement,
	// either a real handshake time or the resolution-failure sentinel.
	StatusCompleted Status = iota
	// StatusFailed means the connect was refused or otherwise errored
	// before completing; the probe contributes nothing to the ranking.
	StatusFailed
)

// Result is the outcome of a single connection probe.
type Result struct {
	URL     string
	Elapsed time.Duration
	Status  Status
}

// DialFunc is the dialer used for probes. Tests substitute their own.
type DialFunc func(network, addr string, timeout time.Duration) (net.Conn, error)

// Prober times TCP connection establishment against one target. Only the
// handshake is measured; no payload bytes are ever exchanged.
type Prober struct {
	ConnectTimeout  time.Duration
	SentinelLatency time.Duration
	Dial            DialFunc
}

// NewProber returns a prober using the real network with the given
// per-connect timeout ceiling.
func NewProber(connectTimeout time.Duration) *Prober {
	return &Prober{
		ConnectTimeout:  connectTimeout,
		SentinelLatency: DefaultSentinelLatency,
		Dial:            net.DialTimeout,
	}
}

// Probe attempts one TCP connect to the target and reports the elapsed time.
// A host that cannot be resolved is reported as completed with the sentinel
// latency so it still participates in the ranking; any other connect failure
// is reported as failed and is dropped by the scheduler.
func (p *Prober) Probe(target Target) Result {
	start := time.Now()

	conn, err := p.Dial("tcp", target.Addr(), p.ConnectTimeout)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			log.Debugf("resolution failed for %s: %v", target.URL, err)
			return Result{URL: target.URL, Elapsed: p.SentinelLatency, Status: StatusCompleted}
		}
		log.Debugf("connect failed for %s: %v", target.URL, err)
		return Result{URL: target.URL, Status: StatusFailed}
	}
	elapsed := time.Since(start)
	conn.Close()

	log.Debugf("connect succeeded for %s in %s", target.URL, elapsed)
	return Result{URL: target.URL, Elapsed: elapsed, Status: StatusCompleted}
}
