// Package scanner enumerates the source files of a load.
//
// ScanDirectory walks a directory tree through a filesystem.FileSystemProvider
// and returns the absolute paths of the regular files whose base name matches
// sparkify.SourceFilePattern, in walk order. A root that does not exist yields
// no files rather than an error.
package scanner
