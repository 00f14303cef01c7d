package fixtures

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
)

// Song is one object of a song-metadata file. Nil pointers encode as JSON null.
type Song struct {
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
	NumSongs        int      `json:"num_songs"`
}

// Event is one line of an activity-log file.
type Event struct {
	Artist    *string  `json:"artist"`
	Auth      string   `json:"auth"`
	FirstName string   `json:"firstName"`
	Gender    string   `json:"gender"`
	LastName  string   `json:"lastName"`
	Length    *float64 `json:"length"`
	Level     string   `json:"level"`
	Location  string   `json:"location"`
	Method    string   `json:"method"`
	Page      string   `json:"page"`
	SessionID int      `json:"sessionId"`
	Song      *string  `json:"song"`
	Status    int      `json:"status"`
	Ts        int64    `json:"ts"`
	UserAgent string   `json:"userAgent"`
	UserID    string   `json:"userId"`
}

// DataFixtureBuilder accumulates song and log files and builds an in-memory
// filesystem laid out like the real data directory:
//
//	fixture := NewDataFixtureBuilder().
//	    AddSong("A/A/A", Song{SongID: "SOA", ...}).
//	    AddLog("2018/11", "2018-11-01-events.json", Event{...}).
//	    Build()
type DataFixtureBuilder struct {
	songDir string
	logDir  string
	files   map[string]string
}

// NewDataFixtureBuilder creates a builder rooted at data/song_data and data/log_data.
func NewDataFixtureBuilder() *DataFixtureBuilder {
	return &DataFixtureBuilder{
		songDir: "data/song_data",
		logDir:  "data/log_data",
		files:   make(map[string]string),
	}
}

// AddFile adds an arbitrary file at the specified path.
func (b *DataFixtureBuilder) AddFile(p, content string) *DataFixtureBuilder {
	b.files[p] = content
	return b
}

// AddSong writes song as its own file under the song directory, named after
// its song ID like the real dataset.
func (b *DataFixtureBuilder) AddSong(subdir string, song Song) *DataFixtureBuilder {
	if song.NumSongs == 0 {
		song.NumSongs = 1
	}
	name := fmt.Sprintf("TR%s.json", song.SongID)
	b.files[path.Join(b.songDir, subdir, name)] = mustLine(song)
	return b
}

// AddLog writes events as one line-delimited file under the log directory.
func (b *DataFixtureBuilder) AddLog(subdir, name string, events ...Event) *DataFixtureBuilder {
	lines := make([]string, len(events))
	for i, e := range events {
		if e.Method == "" {
			e.Method = "PUT"
		}
		if e.Status == 0 {
			e.Status = 200
		}
		if e.Auth == "" {
			e.Auth = "Logged In"
		}
		lines[i] = mustLine(e)
	}
	b.files[path.Join(b.logDir, subdir, name)] = strings.Join(lines, "\n") + "\n"
	return b
}

// Build generates the filesystem.FileSystemProvider from the accumulated files.
func (b *DataFixtureBuilder) Build() *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem("/")
	for p, content := range b.files {
		fs.AddFile(p, content)
	}
	return fs
}

func mustLine(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fixture does not encode: %v", err))
	}
	return string(data)
}

// Str returns a pointer to s, for the nullable fixture fields.
func Str(s string) *string { return &s }

// Float returns a pointer to f, for the nullable fixture fields.
func Float(f float64) *float64 { return &f }

// ============================================================================
// Pre-built Fixtures
// ============================================================================

// SampleDataset has two songs by two artists and one log file with a
// matching play, a non-matching play and a navigation event:
//   - songs: 2, artists: 2
//   - users: 2 (Ryan paid, Kaylee free)
//   - time: 2 rows (navigation events are skipped)
//   - songplays: 2, one resolved to SOZCTXZ12AB0182364 / AR5KOSW1187FB35FF4
func SampleDataset() *DataFixtureBuilder {
	return NewDataFixtureBuilder().
		AddSong("A/A/A", Song{
			SongID:          "SOZCTXZ12AB0182364",
			Title:           "Sehr kosmisch",
			ArtistID:        "AR5KOSW1187FB35FF4",
			ArtistName:      "Harmonia",
			ArtistLocation:  Str("Forst, Germany"),
			ArtistLatitude:  Float(51.73),
			ArtistLongitude: Float(14.63),
			Year:            1974,
			Duration:        655.77751,
		}).
		AddSong("A/B/C", Song{
			SongID:     "SOUPIRU12A6D4FA1E1",
			Title:      "Der Kleine Dompfaff",
			ArtistID:   "ARJIE2Y1187B994AB7",
			ArtistName: "Line Renaud",
			Duration:   152.92036,
		}).
		AddLog("2018/11", "2018-11-01-events.json",
			Event{
				Page: "Home", Ts: 1541105830000, UserID: "26", FirstName: "Ryan", LastName: "Smith",
				Gender: "M", Level: "paid", SessionID: 583, Location: "San Jose-Sunnyvale-Santa Clara, CA", UserAgent: "X11",
			},
			Event{
				Page: "NextSong", Ts: 1541105830796, UserID: "26", FirstName: "Ryan", LastName: "Smith",
				Gender: "M", Level: "paid", SessionID: 583, Location: "San Jose-Sunnyvale-Santa Clara, CA", UserAgent: "X11",
				Song: Str("Sehr kosmisch"), Artist: Str("Harmonia"), Length: Float(655.77751),
			},
			Event{
				Page: "NextSong", Ts: 1541207073796, UserID: "8", FirstName: "Kaylee", LastName: "Summers",
				Gender: "F", Level: "free", SessionID: 139, Location: "Phoenix-Mesa-Scottsdale, AZ", UserAgent: "Mozilla",
				Song: Str("Unknown"), Artist: Str("Unknown"), Length: Float(200.0),
			},
		)
}

// EmptyDataset has the data directories but no files.
func EmptyDataset() *filesystem.MemoryFileSystem {
	fs := NewDataFixtureBuilder().Build()
	fs.AddDir("data/song_data")
	fs.AddDir("data/log_data")
	return fs
}
