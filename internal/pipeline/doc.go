// Package pipeline composes the scheduled export-and-publish run: execute the
// scan step, publish the resulting artifact when credentials are configured,
// and deliver best-effort notifications. Only the scan step is fatal.
package pipeline
