package loader

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// LogLoader loads activity-log files into time, users and songplays.
type LogLoader struct {
	fsProvider filesystem.FileSystemProvider
	logger     sparkify.Logger
}

var _ sparkify.FileLoader = (*LogLoader)(nil)

// NewLogLoader creates a LogLoader. Panics if any argument is nil.
func NewLogLoader(fsProvider filesystem.FileSystemProvider, logger sparkify.Logger) *LogLoader {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &LogLoader{fsProvider: fsProvider, logger: logger}
}

// songPlay pairs a NextSong event with its record number in the file.
type songPlay struct {
	n   int
	rec LogRecord
}

// Load inserts the time rows, then the user rows, then one songplay per
// NextSong event of path. Other events are skipped entirely.
func (l *LogLoader) Load(ctx context.Context, q sparkify.Querier, path string) error {
	records, err := decodeFile[LogRecord](l.fsProvider, path)
	if err != nil {
		return err
	}

	var plays []songPlay
	for i, rec := range records {
		if rec.IsSongPlay() {
			plays = append(plays, songPlay{n: i + 1, rec: rec})
		}
	}

	var timeRows, userRows, resolved int
	for _, p := range plays {
		tr, ok := p.rec.TimeRow()
		if !ok {
			continue
		}
		if _, err := q.Exec(ctx, schema.InsertTime,
			tr.StartTime, tr.Hour, tr.Day, tr.Week, tr.Month, tr.Year, tr.Weekday); err != nil {
			return loadError(path, p.n, "insert time", err)
		}
		timeRows++
	}

	for _, p := range plays {
		u, ok := p.rec.UserRow()
		if !ok {
			continue
		}
		if _, err := q.Exec(ctx, schema.InsertUser,
			u.UserID, u.FirstName, u.LastName, u.Gender, u.Level); err != nil {
			return loadError(path, p.n, "insert user", err)
		}
		userRows++
	}

	for _, p := range plays {
		songID, artistID, err := lookupSongArtist(ctx, q, p.rec)
		if err != nil {
			return loadError(path, p.n, "lookup song", err)
		}
		if songID.Valid {
			resolved++
		}

		sp := p.rec.SongplayRow(songID, artistID)
		if _, err := q.Exec(ctx, schema.InsertSongplay,
			sp.StartTime, sp.UserID, sp.Level, sp.SongID, sp.ArtistID,
			sp.SessionID, sp.Location, sp.UserAgent); err != nil {
			return loadError(path, p.n, "insert songplay", err)
		}
	}

	l.logger.Verbose("%s: %d events, %d song plays (%d resolved), %d time rows, %d user rows",
		path, len(records), len(plays), resolved, timeRows, userRows)
	return nil
}

// lookupSongArtist resolves the song and artist ids of an event. A missing
// key or no matching row yields two null ids.
func lookupSongArtist(ctx context.Context, q sparkify.Querier, rec LogRecord) (songID, artistID pgtype.Text, err error) {
	title, artist, duration, ok := rec.LookupKey()
	if !ok {
		return pgtype.Text{}, pgtype.Text{}, nil
	}

	err = q.QueryRow(ctx, schema.SelectSongArtist, title, artist, duration).Scan(&songID, &artistID)
	if errors.Is(err, pgx.ErrNoRows) {
		return pgtype.Text{}, pgtype.Text{}, nil
	}
	if err != nil {
		return pgtype.Text{}, pgtype.Text{}, err
	}
	return songID, artistID, nil
}
