// Package api provides the resilient HTTP client shared by every upstream
// source: the Pushshift search endpoints, the Yahoo quote endpoint, the CBOE
// statistics page and the fear & greed page.
//
// Retry policy:
//   - Retried statuses: 429, 502, 503, 504 (configurable)
//   - Connection-level failures are retried the same way
//   - Wait before retry n is backoffFactor * 2^(n-1), or Retry-After when sent
//   - A URL that keeps failing is attempted maxRetries+1 times
//
// Any other status is returned to the caller after a single attempt.
package api
