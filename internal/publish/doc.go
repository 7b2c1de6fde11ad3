// Package publish implements the best-effort git publish sequence for the
// scan artifact: configure commit identity, point the remote at an
// authenticated URL, stage, commit, and push.
//
// Every sub-step failure is recorded as a soft failure and never propagated;
// "nothing changed since the last run" is an expected outcome for a scheduled
// job and must not fail it.
package publish
