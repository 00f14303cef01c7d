// Package loader turns song-metadata and activity-log files into star-schema rows.
//
// Both loaders decode a whole file of newline-delimited JSON before issuing any
// statement, then write through the sparkify.Querier they are handed. They never
// commit: the caller wraps each file in one transaction.
//
//   - SongLoader: one songs row and one artists row per record
//   - LogLoader: NextSong events only; time rows, then user rows, then one
//     songplays row per event with song and artist ids resolved by lookup
package loader
