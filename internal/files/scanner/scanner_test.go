package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
)

func newTestScanner() (*Scanner, *filesystem.MemoryFileSystem) {
	fs := filesystem.NewMemoryFileSystem("/data")
	return NewScannerWithFS(fs), fs
}

func TestNewScannerWithFS_NilFilesystem(t *testing.T) {
	assert.Panics(t, func() { NewScannerWithFS(nil) })
}

func TestScanDirectory_NestedJSONOnly(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("song_data/A/B/a.json", "{}")
	fs.AddFile("song_data/A/b.json", "{}")
	fs.AddFile("song_data/data.csv", "x,y")

	files, err := s.ScanDirectory("/data/song_data")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"/data/song_data/A/B/a.json",
		"/data/song_data/A/b.json",
	}, files)
}

func TestScanDirectory_WalkOrder(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("log_data/2018/11/2018-11-02-events.json", "{}")
	fs.AddFile("log_data/2018/11/2018-11-01-events.json", "{}")
	fs.AddFile("log_data/2018/10/2018-10-31-events.json", "{}")

	files, err := s.ScanDirectory("/data/log_data")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/log_data/2018/10/2018-10-31-events.json",
		"/data/log_data/2018/11/2018-11-01-events.json",
		"/data/log_data/2018/11/2018-11-02-events.json",
	}, files)
}

func TestScanDirectory_MissingRootIsEmpty(t *testing.T) {
	s, _ := newTestScanner()

	files, err := s.ScanDirectory("/data/missing")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestScanDirectory_EmptyRoot(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddDir("empty")

	files, err := s.ScanDirectory("/data/empty")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestScanDirectory_PatternIsCaseSensitiveOnBaseName(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("x.json.bak", "{}")
	fs.AddFile("upper.JSON", "{}")
	fs.AddFile("json/plain.txt", "{}")
	fs.AddFile("ok.json", "{}")

	files, err := s.ScanDirectory("/data")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/ok.json"}, files)
}

func TestScanDirectory_RootIsFile(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("a.json", "{}")

	_, err := s.ScanDirectory("/data/a.json")
	assert.Error(t, err)
}

func TestScanDirectory_OSFilesystemReturnsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "A"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "A", "song.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("#"), 0644))

	files, err := NewScanner().ScanDirectory(root)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, filepath.IsAbs(files[0]))
	assert.Equal(t, "song.json", filepath.Base(files[0]))
}

func TestScanDirectory_FilesBeforeSubdirectories(t *testing.T) {
	s, fs := newTestScanner()
	fs.AddFile("song_data/b.json", "{}")
	fs.AddFile("song_data/a/x.json", "{}")
	fs.AddFile("song_data/a/z/deep.json", "{}")
	fs.AddFile("song_data/a/y.json", "{}")
	fs.AddFile("song_data/c.json", "{}")

	files, err := s.ScanDirectory("/data/song_data")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/data/song_data/b.json",
		"/data/song_data/c.json",
		"/data/song_data/a/x.json",
		"/data/song_data/a/y.json",
		"/data/song_data/a/z/deep.json",
	}, files)
}

func TestScanDirectory_FollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	elsewhere := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.json"), []byte("{}"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "x.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(elsewhere, "shared.json"), []byte("{}"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(elsewhere, "dir.json"), 0755))

	links := map[string]string{
		"c.json":        filepath.Join(root, "b.json"),
		"d.json":        filepath.Join(elsewhere, "shared.json"),
		"dangling.json": filepath.Join(elsewhere, "missing.json"),
		"e.json":        filepath.Join(elsewhere, "dir.json"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(root, name)); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	files, err := NewScanner().ScanDirectory(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "b.json"),
		filepath.Join(root, "c.json"),
		filepath.Join(root, "d.json"),
		filepath.Join(root, "a", "x.json"),
	}, files)
}
