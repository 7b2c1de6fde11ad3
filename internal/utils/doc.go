// Package utils hosts shared infrastructure for the CLI: the viper-backed
// configuration loader, the zap logger factory, and small I/O helpers.
package utils
