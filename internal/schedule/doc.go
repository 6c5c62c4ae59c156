// Package schedule runs a single job on a cron spec.
//
// Each firing is one run: the job is attempted, and on failure retried
// immediately up to a fixed number of times with a delay between attempts.
// Overlapping firings are skipped. The last run result is exposed for the
// /health endpoint.
package schedule
