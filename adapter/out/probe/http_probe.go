// Package probe implements the optional live reachability check. It is an
// external collaborator of the pipeline: every failure mode collapses to
// "unreachable", nothing propagates as an error.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"detection_server/pkg/httputil"
	"detection_server/pkg/logger"
)

// HTTPProbe issues a single GET against the user-supplied URL and treats
// anything but a 200 within the timeout as unreachable. A circuit breaker
// stops the service from hammering dead networks when probes keep failing.
type HTTPProbe struct {
	client  *http.Client
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// New creates a reachability probe with the given per-request timeout.
func New(timeout time.Duration) *HTTPProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	cbSettings := gobreaker.Settings{
		Name:        "reachability-probe",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &HTTPProbe{
		client:  httputil.NewClient(httputil.ProbeClientConfig(timeout)),
		timeout: timeout,
		cb:      gobreaker.NewCircuitBreaker(cbSettings),
	}
}

// Reachable reports whether the URL answers with HTTP 200 within the
// timeout. Timeouts, connection errors, non-200 statuses, and an open
// breaker all read as unreachable.
func (p *HTTPProbe) Reachable(ctx context.Context, rawURL string) bool {
	_, err := p.cb.Execute(func() (interface{}, error) {
		reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil, nil
	})

	if err != nil {
		logger.WithError(err).Debug("Reachability probe failed for %s", rawURL)
		return false
	}
	return true
}
