// Package config loads, normalizes, and validates moviebuddy configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY. The Config type centralizes every knob the server and CLI
// need: where the precomputed artifacts live, how the OMDb client behaves,
// how many recommendations to return and how logs are written.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
