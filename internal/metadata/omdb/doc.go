// Package omdb implements a minimal client for the OMDb title lookup endpoint.
//
// The client performs a single GET per lookup and reports failures as errors
// tagged with the services markers: transport problems and non-2xx statuses
// carry ErrTransport, undecodable payloads carry ErrService. Fallback handling
// lives in the metadata package.
package omdb
