package schema

// Statement texts used by the loaders. Placeholders follow the column order
// in the comment above each statement.
const (
	// song_id, title, artist_id, year, duration
	InsertSong = `INSERT INTO songs (song_id, title, artist_id, year, duration)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (song_id) DO NOTHING`

	// artist_id, name, location, latitude, longitude
	InsertArtist = `INSERT INTO artists (artist_id, name, location, latitude, longitude)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (artist_id) DO NOTHING`

	// start_time, hour, day, week, month, year, weekday
	InsertTime = `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (start_time) DO NOTHING`

	// user_id, first_name, last_name, gender, level
	InsertUser = `INSERT INTO users (user_id, first_name, last_name, gender, level)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET level = EXCLUDED.level`

	// start_time, user_id, level, song_id, artist_id, session_id, location, user_agent
	InsertSongplay = `INSERT INTO songplays (start_time, user_id, level, song_id, artist_id, session_id, location, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	// title, artist name, duration; returns song_id, artist_id
	SelectSongArtist = `SELECT s.song_id, a.artist_id
FROM songs s
JOIN artists a ON a.artist_id = s.artist_id
WHERE s.title = $1 AND a.name = $2 AND s.duration = $3
LIMIT 1`
)
