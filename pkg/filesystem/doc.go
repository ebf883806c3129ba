// Package filesystem provides implementations of the types.FS interface.
//
// Two implementations are available: an OS-backed one used in production and
// an afero-backed one so executor and marker tests can run against an
// in-memory filesystem.
package filesystem
