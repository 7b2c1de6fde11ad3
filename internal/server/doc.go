// Package server exposes the export-and-publish run behind a small HTTP
// trigger: a health banner at the root path and an on-demand run endpoint
// returning a JSON status document.
package server
