// Package services defines shared utilities consumed by the recommender, the
// metadata fetcher and the presentation surfaces.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and requested titles
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper so not-found, transport
//     and data-integrity failures can be told apart with errors.Is.
//
// Use these helpers when wiring new components so operational behaviour
// (error classification, observability) stays uniform across the service.
package services
