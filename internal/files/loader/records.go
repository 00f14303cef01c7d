package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/sparkify/internal/files/filesystem"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// SongRecord is one object of a song-metadata file.
type SongRecord struct {
	SongID          string        `json:"song_id"`
	Title           string        `json:"title"`
	ArtistID        string        `json:"artist_id"`
	ArtistName      string        `json:"artist_name"`
	ArtistLocation  NullableText  `json:"artist_location"`
	ArtistLatitude  NullableFloat `json:"artist_latitude"`
	ArtistLongitude NullableFloat `json:"artist_longitude"`
	Year            NullableFloat `json:"year"`
	Duration        NullableFloat `json:"duration"`
}

// LogRecord is one event of an activity-log file. Fields the loader does not
// use (auth, method, status, ...) are ignored.
type LogRecord struct {
	Page      string        `json:"page"`
	Ts        NullableInt   `json:"ts"`
	UserID    NullableText  `json:"userId"`
	FirstName NullableText  `json:"firstName"`
	LastName  NullableText  `json:"lastName"`
	Gender    NullableText  `json:"gender"`
	Level     NullableText  `json:"level"`
	Song      NullableText  `json:"song"`
	Artist    NullableText  `json:"artist"`
	Length    NullableFloat `json:"length"`
	SessionID NullableInt   `json:"sessionId"`
	Location  NullableText  `json:"location"`
	UserAgent NullableText  `json:"userAgent"`
}

var jsonNull = []byte("null")

// NullableText is a nullable string field. JSON numbers are accepted and kept
// in their literal form, so "userId": 8 and "userId": "8" decode alike.
type NullableText struct {
	pgtype.Text
}

func (t *NullableText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*t = NullableText{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = NullableText{pgtype.Text{String: s, Valid: true}}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*t = NullableText{pgtype.Text{String: n.String(), Valid: true}}
	return nil
}

// Blank reports whether the field is absent, null, or only whitespace.
func (t NullableText) Blank() bool {
	return !t.Valid || strings.TrimSpace(t.String) == ""
}

// OrNull returns the value for a nullable column; blank values become NULL.
func (t NullableText) OrNull() pgtype.Text {
	if t.Blank() {
		return pgtype.Text{}
	}
	return t.Text
}

// NullableInt is a nullable integer field. Numeric strings are accepted and
// fractional numbers are truncated toward zero. An empty string is null.
type NullableInt struct {
	pgtype.Int8
}

func (i *NullableInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*i = NullableInt{}
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*i = NullableInt{}
			return nil
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected integer, got %s", b)
		}
		raw = n.String()
	}

	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*i = NullableInt{pgtype.Int8{Int64: v, Valid: true}}
		return nil
	}
	f, err := parseTruncatable(raw)
	if err != nil {
		return fmt.Errorf("expected integer: %w", err)
	}
	*i = NullableInt{pgtype.Int8{Int64: int64(f), Valid: true}}
	return nil
}

// NullableFloat is a nullable number field. Numeric strings are accepted.
type NullableFloat struct {
	pgtype.Float8
}

func (f *NullableFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, jsonNull) {
		*f = NullableFloat{}
		return nil
	}

	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = NullableFloat{}
			return nil
		}
	} else {
		raw = string(b)
	}

	v, err := parseTruncatable(raw)
	if err != nil {
		return fmt.Errorf("expected number: %w", err)
	}
	*f = NullableFloat{pgtype.Float8{Float64: v, Valid: true}}
	return nil
}

// parseTruncatable parses a finite number whose integer part fits in int64.
// ParseFloat alone would let "NaN", "Inf" and 1e300 through.
func parseTruncatable(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("got %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
		return 0, fmt.Errorf("%q is out of range", raw)
	}
	return v, nil
}

// Truncated returns the value truncated toward zero, or 0 when null.
func (f NullableFloat) Truncated() int64 {
	if !f.Valid {
		return 0
	}
	return int64(f.Float64)
}

// decodeFile reads every JSON object of path. Objects may span lines or share
// one; in practice each line holds one object.
func decodeFile[T any](fsys filesystem.FileSystemProvider, path string) ([]T, error) {
	r, err := fsys.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %w", sparkify.ErrParseFailed, path, err)
	}
	defer r.Close()

	dec := json.NewDecoder(bufio.NewReader(r))
	var records []T
	for n := 1; ; n++ {
		var rec T
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("%w: %s record %d: %w", sparkify.ErrParseFailed, path, n, err)
		}
		records = append(records, rec)
	}
}
