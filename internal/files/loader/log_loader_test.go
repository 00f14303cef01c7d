package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/sparkify/internal/logging"
	"github.com/vvka-141/sparkify/internal/schema"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

const kayleeEvent = `{"page":"NextSong","ts":1541207073796,"userId":"8","firstName":"Kaylee","lastName":"Summers","gender":"F","level":"free","song":"Unknown","artist":"Unknown","length":200.0,"sessionId":139,"location":"Phoenix-Mesa-Scottsdale, AZ","userAgent":"Mozilla"}`

func loadLog(t *testing.T, q *fakeQuerier, content string) error {
	t.Helper()
	fs := newTestFS(map[string]string{"log_data/events.json": content})
	return NewLogLoader(fs, nullLogger()).Load(context.Background(), q, "/data/log_data/events.json")
}

func TestNewLogLoader_NilArgs(t *testing.T) {
	fs := newTestFS(nil)
	assert.Panics(t, func() { NewLogLoader(nil, nullLogger()) })
	assert.Panics(t, func() { NewLogLoader(fs, nil) })
}

func TestLogLoader_UnmatchedSongplayHasNullIDs(t *testing.T) {
	q := newFakeQuerier()
	require.NoError(t, loadLog(t, q, kayleeEvent+"\n"))

	plays := q.execsOf(schema.InsertSongplay)
	require.Len(t, plays, 1)

	args := plays[0].args
	require.Len(t, args, 8)
	assert.Equal(t, pgtype.Timestamp{Time: time.UnixMilli(1541207073796).UTC(), Valid: true}, args[0])
	assert.Equal(t, pgtype.Text{String: "8", Valid: true}, args[1])
	assert.Equal(t, pgtype.Text{String: "free", Valid: true}, args[2])
	assert.Equal(t, pgtype.Text{}, args[3], "song id")
	assert.Equal(t, pgtype.Text{}, args[4], "artist id")
	assert.Equal(t, pgtype.Int8{Int64: 139, Valid: true}, args[5])
	assert.Equal(t, pgtype.Text{String: "Phoenix-Mesa-Scottsdale, AZ", Valid: true}, args[6])
	assert.Equal(t, pgtype.Text{String: "Mozilla", Valid: true}, args[7])

	assert.Equal(t, []lookupKey{{title: "Unknown", artist: "Unknown", duration: 200}}, q.lookups)
}

func TestLogLoader_ResolvesSongAndArtist(t *testing.T) {
	q := newFakeQuerier()
	q.catalog[lookupKey{"Unknown", "Unknown", 200}] = [2]string{"SOXYZ", "ARXYZ"}

	require.NoError(t, loadLog(t, q, kayleeEvent))

	plays := q.execsOf(schema.InsertSongplay)
	require.Len(t, plays, 1)
	assert.Equal(t, pgtype.Text{String: "SOXYZ", Valid: true}, plays[0].args[3])
	assert.Equal(t, pgtype.Text{String: "ARXYZ", Valid: true}, plays[0].args[4])
}

func TestLogLoader_SkipsOtherPages(t *testing.T) {
	q := newFakeQuerier()
	content := `{"page":"Home","ts":1541207073796,"userId":"8","firstName":"Kaylee","lastName":"Summers","gender":"F","level":"free","sessionId":139}
{"page":"Logout","ts":1541207073797,"userId":"8","firstName":"Kaylee","lastName":"Summers","gender":"F","level":"free","sessionId":139}
`
	require.NoError(t, loadLog(t, q, content))

	assert.Empty(t, q.execs, "no time, user or songplay rows for non-NextSong events")
	assert.Empty(t, q.lookups)
}

func TestLogLoader_MissingUserStillRecordsSongplay(t *testing.T) {
	q := newFakeQuerier()
	event := `{"page":"NextSong","ts":1541207073796,"level":"free","song":"Unknown","artist":"Unknown","length":200.0,"sessionId":139,"location":"Phoenix","userAgent":"Mozilla"}`
	require.NoError(t, loadLog(t, q, event))

	assert.Empty(t, q.execsOf(schema.InsertUser))
	assert.Len(t, q.execsOf(schema.InsertTime), 1)

	plays := q.execsOf(schema.InsertSongplay)
	require.Len(t, plays, 1)
	assert.Equal(t, pgtype.Text{}, plays[0].args[1], "user id is null")
}

func TestLogLoader_MissingTimestampDropsTimeRowOnly(t *testing.T) {
	q := newFakeQuerier()
	event := `{"page":"NextSong","userId":"8","firstName":"Kaylee","lastName":"Summers","gender":"F","level":"free","sessionId":139}`
	require.NoError(t, loadLog(t, q, event))

	assert.Empty(t, q.execsOf(schema.InsertTime))
	assert.Len(t, q.execsOf(schema.InsertUser), 1)
	plays := q.execsOf(schema.InsertSongplay)
	require.Len(t, plays, 1)
	assert.Equal(t, pgtype.Timestamp{}, plays[0].args[0])
	assert.Empty(t, q.lookups, "lookup skipped when song, artist or length is missing")
}

func TestLogLoader_TimeThenUsersThenSongplays(t *testing.T) {
	q := newFakeQuerier()
	second := `{"page":"NextSong","ts":1541105830796,"userId":"26","firstName":"Ryan","lastName":"Smith","gender":"M","level":"paid","song":"Sehr kosmisch","artist":"Harmonia","length":655.77751,"sessionId":583,"location":"San Jose","userAgent":"X11"}`
	require.NoError(t, loadLog(t, q, kayleeEvent+"\n"+second+"\n"))

	var order []string
	for _, c := range q.execs {
		switch c.sql {
		case schema.InsertTime:
			order = append(order, "time")
		case schema.InsertUser:
			order = append(order, "user")
		case schema.InsertSongplay:
			order = append(order, "songplay")
		}
	}
	assert.Equal(t, []string{"time", "time", "user", "user", "songplay", "songplay"}, order)

	times := q.execsOf(schema.InsertTime)
	assert.Equal(t, []any{time.UnixMilli(1541207073796).UTC(), 1, 3, 44, 11, 2018, 5}, times[0].args)
	users := q.execsOf(schema.InsertUser)
	assert.Equal(t, []any{"26", "Ryan", "Smith", "M", "paid"}, users[1].args)
}

func TestLogLoader_DatabaseErrorIsLoadFailure(t *testing.T) {
	q := newFakeQuerier()
	q.failOn = "INSERT INTO users"

	err := loadLog(t, q, kayleeEvent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sparkify.ErrLoadFailed))
	assert.Empty(t, q.execsOf(schema.InsertSongplay))
}

func TestLogLoader_MalformedFileIsParseFailure(t *testing.T) {
	q := newFakeQuerier()

	err := loadLog(t, q, kayleeEvent+"\n{\"page\":")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sparkify.ErrParseFailed))
	assert.Empty(t, q.execs)
}

func TestLogLoader_LogsSummaryWhenVerbose(t *testing.T) {
	fs := newTestFS(map[string]string{"e.json": kayleeEvent})
	logger := logging.NewMemoryLogger()

	err := NewLogLoader(fs, logger).Load(context.Background(), newFakeQuerier(), "/data/e.json")
	require.NoError(t, err)
	assert.True(t, logger.Contains(logging.LevelVerbose, "1 song plays (0 resolved)"))
}
