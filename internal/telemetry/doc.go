// Package telemetry holds the Prometheus metrics of a run.
//
// A Metrics value owns its own registry, so several runs (and tests) never
// collide on collector names. Every method is safe on a nil *Metrics, which
// lets library packages record unconditionally.
package telemetry
