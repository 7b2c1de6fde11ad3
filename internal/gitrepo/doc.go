// Package gitrepo contains helpers for describing Git remote targets.
//
// It validates owner/repository identifiers and formats the authenticated
// HTTPS remote URLs used by the publish sequence.
package gitrepo
