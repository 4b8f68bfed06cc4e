// Package metadata turns OMDb lookups into display records.
//
// FetchInfo is total: every failure (transport, bad status, undecodable body,
// open circuit breaker, cancelled context) yields the fallback Record and is
// reported to the log, the metrics registry and an optional hook. FetchAll
// runs lookups on a bounded worker pool and returns records in input order.
package metadata
