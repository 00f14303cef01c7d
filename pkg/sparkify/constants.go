package sparkify

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied overwrite approval
	ExitLoadFailed      = 13 // A statement failed while loading a file
	ExitParseFailed     = 14 // An input file is not valid line-delimited JSON
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before force approval proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultManagementDB is the default database to connect to for management operations.
	DefaultManagementDB = "postgres"

	// DefaultHost, DefaultDatabase, DefaultUsername and DefaultPassword are the
	// connection parameters used when nothing else is configured.
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 5432
	DefaultDatabase = "sparkifydb"
	DefaultUsername = "student"
	DefaultPassword = "student"

	// DefaultSongDataDir and DefaultLogDataDir are the source roots loaded when
	// no sources are configured.
	DefaultSongDataDir = "data/song_data"
	DefaultLogDataDir  = "data/log_data"

	// SourceFilePattern is the base-name glob a file must match to be loaded.
	SourceFilePattern = "*.json"

	// NextSongPage is the page value of a log event that represents a song play.
	NextSongPage = "NextSong"
)
