// Package scan invokes the external market-screener executable that produces
// the CSV artifact consumed by the publish sequence. The screener itself is an
// opaque collaborator; this package only manages its invocation contract.
package scan
