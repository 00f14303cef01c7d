package sparkify

// FileScanner discovers the source files of one directory tree.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileScanner interface {
	// ScanDirectory recursively walks root and returns the absolute paths of all
	// files whose name matches SourceFilePattern, in walk order.
	// A root that does not exist yields no files and no error.
	ScanDirectory(root string) ([]string, error)
}
