package probing

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
)

// schemePorts maps the supported download schemes to the port probed for
// connection latency.
var schemePorts = map[string]uint16{
	"http":  80,
	"ftp":   21,
	"https": 443,
}

// Target is the parsed form of one candidate mirror URL. Only the pieces
// needed to time a TCP connect are kept.
type Target struct {
	URL    string
	Scheme string
	Host   string
	Port   uint16
}

// ParseTarget derives a probe target from a raw URL string. An unknown scheme
// or a missing host is a configuration problem upstream, so it is a hard
// error rather than something to probe around.
func ParseTarget(rawURL string) (Target, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("failed to parse url %q: %w", rawURL, err)
	}

	port, ok := schemePorts[u.Scheme]
	if !ok {
		return Target{}, fmt.Errorf("unknown scheme %q in url %q", u.Scheme, rawURL)
	}

	host := u.Hostname()
	if host == "" {
		return Target{}, fmt.Errorf("missing host in url %q", rawURL)
	}

	// An explicit port in the URL wins over the scheme default.
	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return Target{}, fmt.Errorf("bad port in url %q: %w", rawURL, err)
		}
		port = uint16(n)
	}

	return Target{
		URL:    rawURL,
		Scheme: u.Scheme,
		Host:   host,
		Port:   port,
	}, nil
}

// Addr returns the host:port dial address for the target.
func (t Target) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(int(t.Port)))
}
