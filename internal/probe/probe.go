package probe

import (
	"net/http"
	"time"
)

// Outcome reports whether the sample's server ever answered and how long
// the prober waited.
type Outcome struct {
	Ready   bool
	Elapsed time.Duration
	LastErr error
}

// Prober polls a fixed local endpoint until any response is observed.
type Prober struct {
	url      string
	client   *http.Client
	interval time.Duration
}

func New(baseURL string, attemptTimeout, interval time.Duration) *Prober {
	return &Prober{
		url:      baseURL,
		client:   &http.Client{Timeout: attemptTimeout},
		interval: interval,
	}
}

// WaitReady polls with short-timeout GETs until the overall timeout
// elapses. Any HTTP response, including an error status such as 404,
// proves the process is accepting connections; the probe deliberately
// does not check for any particular route.
func (p *Prober) WaitReady(timeout time.Duration) Outcome {
	start := time.Now()
	var lastErr error

	for time.Since(start) < timeout {
		resp, err := p.client.Get(p.url)
		if err == nil {
			resp.Body.Close()
			return Outcome{Ready: true, Elapsed: time.Since(start)}
		}
		lastErr = err
		time.Sleep(p.interval)
	}

	return Outcome{Ready: false, Elapsed: time.Since(start), LastErr: lastErr}
}
