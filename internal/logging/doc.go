// Package logging provides concrete implementations of the sparkify.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: prefixed lines on stderr (or any io.Writer), serialized by a mutex
//   - MemoryLogger: keeps every entry in memory so tests can assert on diagnostics
//   - NullLogger: discards all messages
//
// Progress lines ("N files found in DIR", "i/N files processed.") are not log
// output; the load service writes them to its own writer.
package logging
