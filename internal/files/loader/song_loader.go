package loader

import (
	"context"
	"fmt"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// SongLoader loads song-metadata files into songs and artists.
type SongLoader struct {
	fsProvider filesystem.FileSystemProvider
	logger     sparkify.Logger
}

var _ sparkify.FileLoader = (*SongLoader)(nil)

// NewSongLoader creates a SongLoader. Panics if any argument is nil.
func NewSongLoader(fsProvider filesystem.FileSystemProvider, logger sparkify.Logger) *SongLoader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &SongLoader{fsProvider: fsProvider, logger: logger}
}

// Load inserts one song and one artist per record of path.
func (l *SongLoader) Load(ctx context.Context, q sparkify.Querier, path string) error {
	records, err := decodeFile[SongRecord](l.fsProvider, path)
	if err != nil {
		return err
	}

	for i, rec := range records {
		song, artist := rec.Rows()

		if _, err := q.Exec(ctx, schema.InsertSong,
			song.SongID, song.Title, song.ArtistID, song.Year, song.Duration); err != nil {
			return loadError(path, i+1, "insert song", err)
		}
		if _, err := q.Exec(ctx, schema.InsertArtist,
			artist.ArtistID, artist.Name, artist.Location, artist.Latitude, artist.Longitude); err != nil {
			return loadError(path, i+1, "insert artist", err)
		}
	}

	l.logger.Verbose("%s: %d song records", path, len(records))
	return nil
}

func loadError(path string, record int, op string, err error) error {
	return fmt.Errorf("%w: %s record %d: %s: %w", sparkify.ErrLoadFailed, path, record, op, err)
}
