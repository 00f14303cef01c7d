package loader

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// SongRow holds the songs columns derived from one record.
type SongRow struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int64
	Duration int64
}

// ArtistRow holds the artists columns derived from one record.
// Latitude and longitude are truncated to whole degrees; a null coordinate is 0.
type ArtistRow struct {
	ArtistID  string
	Name      string
	Location  string
	Latitude  int64
	Longitude int64
}

// Rows splits a song record into its song and artist rows.
func (r SongRecord) Rows() (SongRow, ArtistRow) {
	song := SongRow{
		SongID:   r.SongID,
		Title:    r.Title,
		ArtistID: r.ArtistID,
		Year:     r.Year.Truncated(),
		Duration: r.Duration.Truncated(),
	}
	artist := ArtistRow{
		ArtistID:  r.ArtistID,
		Name:      r.ArtistName,
		Location:  r.ArtistLocation.String,
		Latitude:  r.ArtistLatitude.Truncated(),
		Longitude: r.ArtistLongitude.Truncated(),
	}
	return song, artist
}

// TimeRow is the calendar breakdown of one event timestamp, in UTC.
// Week is the ISO 8601 week and Weekday counts from Monday = 0.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int
	Month     int
	Year      int
	Weekday   int
}

// NewTimeRow derives a TimeRow from milliseconds since the Unix epoch.
func NewTimeRow(epochMillis int64) TimeRow {
	t := time.UnixMilli(epochMillis).UTC()
	_, week := t.ISOWeek()
	return TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}

// UserRow is one snapshot of a user's profile.
type UserRow struct {
	UserID    string
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// SongplayRow is the fact row for one NextSong event. Every column is nullable.
type SongplayRow struct {
	StartTime pgtype.Timestamp
	UserID    pgtype.Text
	Level     pgtype.Text
	SongID    pgtype.Text
	ArtistID  pgtype.Text
	SessionID pgtype.Int8
	Location  pgtype.Text
	UserAgent pgtype.Text
}

// IsSongPlay reports whether the event is a song play.
func (r LogRecord) IsSongPlay() bool {
	return r.Page == sparkify.NextSongPage
}

// TimeRow returns the time row of the event, or false when ts is null.
func (r LogRecord) TimeRow() (TimeRow, bool) {
	if !r.Ts.Valid {
		return TimeRow{}, false
	}
	return NewTimeRow(r.Ts.Int64), true
}

// UserRow returns the user row of the event, or false when any of its
// fields is absent, null or blank.
func (r LogRecord) UserRow() (UserRow, bool) {
	for _, f := range []NullableText{r.UserID, r.FirstName, r.LastName, r.Gender, r.Level} {
		if f.Blank() {
			return UserRow{}, false
		}
	}
	return UserRow{
		UserID:    r.UserID.String,
		FirstName: r.FirstName.String,
		LastName:  r.LastName.String,
		Gender:    r.Gender.String,
		Level:     r.Level.String,
	}, true
}

// LookupKey returns the (title, artist name, whole-second duration) key used
// to resolve the song and artist ids, or false when any part is missing.
func (r LogRecord) LookupKey() (title, artist string, duration int64, ok bool) {
	if r.Song.Blank() || r.Artist.Blank() || !r.Length.Valid {
		return "", "", 0, false
	}
	return r.Song.String, r.Artist.String, int64(r.Length.Float64), true
}

// SongplayRow builds the fact row with the resolved ids.
func (r LogRecord) SongplayRow(songID, artistID pgtype.Text) SongplayRow {
	row := SongplayRow{
		UserID:    r.UserID.OrNull(),
		Level:     r.Level.OrNull(),
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: r.SessionID.Int8,
		Location:  r.Location.OrNull(),
		UserAgent: r.UserAgent.OrNull(),
	}
	if tr, ok := r.TimeRow(); ok {
		row.StartTime = pgtype.Timestamp{Time: tr.StartTime, Valid: true}
	}
	return row
}
