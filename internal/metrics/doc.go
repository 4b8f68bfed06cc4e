// Package metrics defines the Prometheus instruments exported on /metrics.
//
// Instruments are registered with the default registry at init through
// promauto. Recording helpers keep label sets consistent across callers.
package metrics
