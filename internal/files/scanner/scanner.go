package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Scanner discovers source files in a directory tree.
// Scanner is safe for concurrent use as long as its fsProvider is.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
	pattern    string
}

// NewScanner creates a scanner over the OS filesystem.
func NewScanner() *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a scanner with a custom filesystem provider.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{
		fsProvider: fsProvider,
		pattern:    sparkify.SourceFilePattern,
	}
}

// ScanDirectory recursively scans root and returns the absolute paths of
// matching files. Directories are visited top-down in lexical order and the
// files of a directory come before those of its subdirectories. Symlinks are
// followed when they resolve to a regular file.
func (s *Scanner) ScanDirectory(root string) ([]string, error) {
	dir, err := s.fsProvider.Open(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	type match struct {
		dirIndex int
		path     string
	}
	dirIndex := map[string]int{}
	var matches []match

	err = dir.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() {
			dirIndex[file.Path()] = len(dirIndex)
			return nil
		}

		matched, err := filepath.Match(s.pattern, filepath.Base(file.Path()))
		if err != nil {
			return fmt.Errorf("invalid pattern %q: %w", s.pattern, err)
		}
		if !matched || !s.isRegularFile(file) {
			return nil
		}
		matches = append(matches, match{dirIndex: dirIndex[filepath.Dir(file.Path())], path: file.Path()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The walk yields names lexically, so a stable sort by directory keeps
	// that order within each directory.
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].dirIndex < matches[j].dirIndex })

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, m.path)
	}
	return files, nil
}

// isRegularFile reports whether file is a regular file or a symlink to one.
// Dangling links are skipped.
func (s *Scanner) isRegularFile(file filesystem.File) bool {
	mode := file.Info().Mode()
	if mode.IsRegular() {
		return true
	}
	if mode&fs.ModeSymlink == 0 {
		return false
	}
	target, err := s.fsProvider.Stat(file.Path())
	return err == nil && target.Mode().IsRegular()
}

// Verify Scanner implements the interface at compile time
var _ sparkify.FileScanner = (*Scanner)(nil)
