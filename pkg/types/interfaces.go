package types

import (
	"io"
	"io/fs"
	"time"
)

// FS is the filesystem interface required for executor and marker operations.
// Production code uses the OS implementation; tests use an in-memory one.
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Create(name string) (io.WriteCloser, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.FileInfo, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldname, newname string) error
	Chtimes(name string, atime, mtime time.Time) error
}
