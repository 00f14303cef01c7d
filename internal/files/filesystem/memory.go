package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.mode.IsDir() }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	absPath string
	content []byte
	info    *memoryFileInfo
}

type memoryFile struct {
	entry   *memoryEntry
	relPath string
}

func (f *memoryFile) Path() string         { return f.entry.absPath }
func (f *memoryFile) RelativePath() string { return f.relPath }
func (f *memoryFile) Info() FileInfo       { return f.entry.info }

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(fn func(File, error) error) error {
	return d.walk(d.absPath, fn)
}

// walk visits dir and then its children by name, descending depth-first,
// which is the order filepath.Walk produces.
func (d *memoryDirectory) walk(dir string, fn func(File, error) error) error {
	if err := d.visit(d.fs.entries[dir], fn); err != nil {
		return err
	}
	for _, child := range d.fs.children(dir) {
		if child.info.IsDir() {
			if err := d.walk(child.absPath, fn); err != nil {
				return err
			}
			continue
		}
		if err := d.visit(child, fn); err != nil {
			return err
		}
	}
	return nil
}

func (d *memoryDirectory) visit(e *memoryEntry, fn func(File, error) error) (callbackErr error) {
	defer func() {
		if r := recover(); r != nil {
			callbackErr = fmt.Errorf("walk callback panicked at %s: %v", e.absPath, r)
		}
	}()

	rel := "."
	if e.absPath != d.absPath {
		rel = strings.TrimPrefix(e.absPath, strings.TrimSuffix(d.absPath, "/")+"/")
	}
	return fn(&memoryFile{entry: e, relPath: rel}, nil)
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Paths use forward slashes; relative paths are resolved against root.
// Not safe for concurrent mutation.
type MemoryFileSystem struct {
	entries map[string]*memoryEntry
	root    string
}

var _ FileSystemProvider = (*MemoryFileSystem)(nil)

// NewMemoryFileSystem creates a new in-memory filesystem with an empty root directory.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    root,
	}
	mfs.addDir(root)
	return mfs
}

// Root returns the absolute root of the virtual tree.
func (mfs *MemoryFileSystem) Root() string { return mfs.root }

// AddFile adds a file, creating its parent directories.
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	abs := mfs.abs(filePath)
	mfs.ensureDirectoriesExist(path.Dir(abs))
	mfs.entries[abs] = &memoryEntry{
		absPath: abs,
		content: []byte(content),
		info: &memoryFileInfo{
			name:    path.Base(abs),
			size:    int64(len(content)),
			mode:    0644,
			modTime: time.Now(),
		},
	}
}

// AddDir adds an empty directory, creating its parents.
func (mfs *MemoryFileSystem) AddDir(dirPath string) {
	mfs.ensureDirectoriesExist(mfs.abs(dirPath))
}

func (mfs *MemoryFileSystem) ensureDirectoriesExist(dir string) {
	if _, exists := mfs.entries[dir]; exists {
		return
	}
	if parent := path.Dir(dir); parent != dir {
		mfs.ensureDirectoriesExist(parent)
	}
	mfs.addDir(dir)
}

func (mfs *MemoryFileSystem) addDir(dir string) {
	mfs.entries[dir] = &memoryEntry{
		absPath: dir,
		info: &memoryFileInfo{
			name:    path.Base(dir),
			mode:    0755 | fs.ModeDir,
			modTime: time.Now(),
		},
	}
}

func (mfs *MemoryFileSystem) abs(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// children returns the direct children of dir sorted by name.
func (mfs *MemoryFileSystem) children(dir string) []*memoryEntry {
	var out []*memoryEntry
	for p, e := range mfs.entries {
		if p != dir && path.Dir(p) == dir {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].info.name < out[j].info.name
	})
	return out
}

func (mfs *MemoryFileSystem) lookup(p string) (*memoryEntry, error) {
	abs := mfs.abs(p)
	e, ok := mfs.entries[abs]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: abs, Err: fs.ErrNotExist}
	}
	return e, nil
}

func (mfs *MemoryFileSystem) Open(openPath string) (Directory, error) {
	e, err := mfs.lookup(openPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !e.info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", openPath)
	}
	return &memoryDirectory{absPath: e.absPath, fs: mfs}, nil
}

func (mfs *MemoryFileSystem) OpenFile(filePath string) (io.ReadCloser, error) {
	e, err := mfs.lookup(filePath)
	if err != nil {
		return nil, err
	}
	if e.info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
	}
	return io.NopCloser(bytes.NewReader(e.content)), nil
}

func (mfs *MemoryFileSystem) Stat(statPath string) (FileInfo, error) {
	e, err := mfs.lookup(statPath)
	if err != nil {
		return nil, err
	}
	return e.info, nil
}
