// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions used throughout
// screener-publisher to run git, the scanner executable, and curl in a
// testable manner.
package execshell
