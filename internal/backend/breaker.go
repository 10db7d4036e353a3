package backend

import (
	"errors"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

// errServerStatus marks a 5xx response inside the breaker so it counts as
// a failure without swallowing the response.
var errServerStatus = errors.New("server status")

// BreakerTransport wraps an http.RoundTripper in a circuit breaker so a
// flapping backend fails fast instead of queuing doomed requests.
// Application-level failures (4xx) do not trip the breaker; transport
// errors and 5xx responses do.
type BreakerTransport struct {
	next    http.RoundTripper
	breaker *gobreaker.CircuitBreaker[*http.Response]
}

// NewBreakerTransport creates a BreakerTransport around next (or
// http.DefaultTransport when nil).
func NewBreakerTransport(name string, next http.RoundTripper) *BreakerTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	}
	return &BreakerTransport{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](st),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *BreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.breaker.Execute(func() (*http.Response, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})
	if errors.Is(err, errServerStatus) && resp != nil {
		// The breaker has counted the failure; hand the response back so
		// the caller can still read the error envelope.
		return resp, nil
	}
	return resp, err
}
