// Package storage abstracts where uploaded vehicle images live.
//
// Two drivers:
//   - "local" — local filesystem under STORAGE_LOCAL_ROOT (default)
//   - "s3"    — S3-compatible object storage (AWS S3, MinIO, R2)
package storage

import (
	"fmt"
	"io"
)

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// GetStream returns a ReadCloser for the file. Caller must close it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(path string) error

	// AllFiles lists every file under directory, recursively, as
	// slash-separated paths relative to the disk root.
	AllFiles(directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}

// New builds the disk named by driver.
func New(driver string) (Disk, error) {
	switch driver {
	case "local":
		return newLocalDisk(), nil
	case "s3":
		return newS3Disk()
	default:
		return nil, fmt.Errorf("storage: unknown driver %q (supported: local, s3)", driver)
	}
}
