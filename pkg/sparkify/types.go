package sparkify

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SourceKind selects which loader processes the files of a source directory.
type SourceKind int

const (
	SourceKindSong SourceKind = iota // song metadata: songs and artists
	SourceKindLog                    // activity logs: time, users and songplays
)

// String returns the name used in configuration files and flags.
func (k SourceKind) String() string {
	switch k {
	case SourceKindSong:
		return "song"
	case SourceKindLog:
		return "log"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// IsValid returns true if the SourceKind is a defined value.
func (k SourceKind) IsValid() bool {
	return k == SourceKindSong || k == SourceKindLog
}

// ParseSourceKind converts "song" or "log" (case-insensitive) to a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "song":
		return SourceKindSong, nil
	case "log":
		return SourceKindLog, nil
	default:
		return 0, fmt.Errorf("unknown source kind %q (expected song or log): %w", s, ErrInvalidConfig)
	}
}

// Source is one directory tree together with the loader that reads its files.
type Source struct {
	Dir  string
	Kind SourceKind
}

// DefaultSources returns the song then log sources under the default data directory.
// Song data goes first so that songplay lookups can resolve against it.
func DefaultSources() []Source {
	return []Source{
		{Dir: DefaultSongDataDir, Kind: SourceKindSong},
		{Dir: DefaultLogDataDir, Kind: SourceKindLog},
	}
}

// TargetConfig holds the parameters shared by every command that touches the
// target database.
type TargetConfig struct {
	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	// for the target database.
	ConnectionString string

	// DatabaseName is the target database name
	DatabaseName string

	// MaintenanceDatabase is the database to connect to for server-level operations
	// (CREATE DATABASE, DROP DATABASE). Typically "postgres".
	MaintenanceDatabase string

	// Overwrite drops and recreates the target database before running
	Overwrite bool

	// Force bypasses interactive approval when used with Overwrite
	Force bool

	// Timeout bounds the whole run; zero means no limit
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Cloud authentication parameters, used only by the matching AuthMethod.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
	AWSRegion         string
	GoogleInstance    string
}

func (c *TargetConfig) validate() []error {
	var errs []error

	if c.DatabaseName == "" {
		errs = append(errs, fmt.Errorf("DatabaseName is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	// Force requires Overwrite to be set
	if c.Force && !c.Overwrite {
		errs = append(errs, fmt.Errorf("force flag requires overwrite to be enabled: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %s: %w", c.AuthMethod, ErrInvalidConfig))
	}

	return errs
}

// LoadConfig contains all parameters needed for a load run.
type LoadConfig struct {
	TargetConfig

	// Sources are processed in order; each file of a source is one transaction.
	Sources []Source

	// SkipSchema disables the CREATE TABLE IF NOT EXISTS step before loading
	SkipSchema bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	errs := c.TargetConfig.validate()

	if len(c.Sources) == 0 {
		errs = append(errs, fmt.Errorf("at least one source is required: %w", ErrInvalidConfig))
	}
	for i, src := range c.Sources {
		if src.Dir == "" {
			errs = append(errs, fmt.Errorf("source %d: directory is required: %w", i, ErrInvalidConfig))
		}
		if !src.Kind.IsValid() {
			errs = append(errs, fmt.Errorf("source %d: kind %s: %w", i, src.Kind, ErrInvalidConfig))
		}
	}

	return errors.Join(errs...)
}

// SchemaAction is the operation performed by a schema run.
type SchemaAction int

const (
	SchemaCreate SchemaAction = iota // CREATE TABLE IF NOT EXISTS for all tables
	SchemaDrop                       // DROP TABLE IF EXISTS for all tables
	SchemaReset                      // drop then create
)

// String returns the subcommand name of the action.
func (a SchemaAction) String() string {
	switch a {
	case SchemaCreate:
		return "create"
	case SchemaDrop:
		return "drop"
	case SchemaReset:
		return "reset"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// SchemaConfig contains all parameters needed for a schema run.
type SchemaConfig struct {
	TargetConfig
	Action SchemaAction
}

// Validate checks if the SchemaConfig has all required fields and valid values.
func (c *SchemaConfig) Validate() error {
	errs := c.TargetConfig.validate()
	if c.Action < SchemaCreate || c.Action > SchemaReset {
		errs = append(errs, fmt.Errorf("schema action %s: %w", c.Action, ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name (project:region:instance)
	// required for AuthMethodGoogleIAM.
	GoogleInstance string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// IsTemplateDatabase reports whether name is one of PostgreSQL's template databases,
// which can never be dropped.
func IsTemplateDatabase(name string) bool {
	lower := strings.ToLower(name)
	return lower == "template0" || lower == "template1"
}
