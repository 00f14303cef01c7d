// Package filesystem abstracts the directory walks and file reads the loader
// performs, so scanning and decoding can be tested against an in-memory tree.
//
// Key interfaces:
//   - FileSystemProvider: opens directories for walking and files for reading
//   - Directory: a directory tree that can be walked in lexical order
//   - File: one walked entry with its absolute and root-relative path
//
// Implementations:
//   - OSFileSystem: the real filesystem
//   - MemoryFileSystem: in-memory tree for tests
//
// Both implementations report missing paths with errors matching fs.ErrNotExist.
package filesystem
