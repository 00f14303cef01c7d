package filesystem

import (
	"io"
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// File is an entry visited during a walk.
type File interface {
	// Path returns the absolute path to the entry
	Path() string

	// RelativePath returns the path relative to the walked root
	RelativePath() string

	// Info returns file metadata
	Info() FileInfo
}

// Directory represents a directory that can be traversed to discover files
type Directory interface {
	// Path returns the absolute path to the directory
	Path() string

	// Walk visits the directory itself and then every entry below it,
	// children of a directory in lexical order by name. A non-nil error
	// returned by fn stops the walk and is returned from Walk.
	Walk(fn func(File, error) error) error
}

// FileSystemProvider opens directories for walking and files for reading.
type FileSystemProvider interface {
	// Open opens a directory at the specified path.
	// A missing path yields an error matching fs.ErrNotExist.
	Open(path string) (Directory, error)

	// OpenFile opens a regular file for streaming reads.
	// The caller must close the returned reader.
	OpenFile(path string) (io.ReadCloser, error)

	// Stat returns file information for the given path
	Stat(path string) (FileInfo, error)
}
