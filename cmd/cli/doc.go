// Package cli wires the screener-publisher command hierarchy: configuration
// loading, logger construction, and the run, publish, and serve commands.
package cli
