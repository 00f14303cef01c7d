// Package files groups the input-side sub-packages:
//   - filesystem: filesystem abstraction (OS and in-memory)
//   - scanner: discovery of *.json files under a data root
//   - loader: decoding of song and log files and the inserts they produce
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/sparkify/internal/files/filesystem"
//	    "github.com/vvka-141/sparkify/internal/files/loader"
//	    "github.com/vvka-141/sparkify/internal/files/scanner"
//	)
//
//	fsProvider := filesystem.NewOSFileSystem()
//	files, err := scanner.NewScannerWithFS(fsProvider).ScanDirectory("data/song_data")
//
//	songs := loader.NewSongLoader(fsProvider, logger)
//	err = songs.Load(ctx, tx, files[0])
package files
