package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vvka-141/sparkify/internal/config"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Password is not a flag; use $PGPASSWORD or a connection string.
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided by the user.
// Database is excluded: it may override the database of a connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags selects and parameterizes cloud IAM authentication.
// Flags override the matching environment variables and sparkify.yaml keys.
type CloudFlags struct {
	AuthMethod     string // standard, aws, google or azure
	AWSRegion      string // Overrides AWS_REGION
	GoogleInstance string // project:region:instance
	AzureTenantID  string // Overrides AZURE_TENANT_ID
	AzureClientID  string // Overrides AZURE_CLIENT_ID
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)

	AWS_REGION string

	// Azure SDK standard names
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ParseAuthMethod converts a flag or yaml value to an AuthMethod.
// An empty string means standard authentication.
func ParseAuthMethod(s string) (sparkify.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return sparkify.AuthMethodStandard, nil
	case "aws", "aws-iam":
		return sparkify.AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return sparkify.AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return sparkify.AuthMethodAzureEntraID, nil
	default:
		return 0, fmt.Errorf("unknown auth method %q (expected standard, aws, google or azure): %w", s, sparkify.ErrInvalidConfig)
	}
}

// ResolveConnectionParams resolves connection parameters with this precedence:
//
//  1. --connection flag, parsed as a URI or ADO.NET string
//  2. granular flags (-h, -p, -U, --sslmode), each falling back to PG* env,
//     then sparkify.yaml, then the built-in defaults
//  3. DATABASE_URL, used only when no granular flag is set
//  4. PG* env, sparkify.yaml and defaults as in 2
//
// The returned config's Database is the target database; -d always overrides
// it. The second result is the maintenance database used for CREATE DATABASE.
//
// Combining --connection with granular flags is an error.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*sparkify.ConnectionConfig, string, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, "", fmt.Errorf(
			"cannot specify both --connection and granular flags (-h, -p, -U, --sslmode)\n"+
				"Choose one approach:\n"+
				"  1. Connection string: --connection \"postgresql://student@localhost:5432/sparkifydb\"\n"+
				"  2. Granular flags: -h localhost -p 5432 -U student -d sparkifydb\n"+
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=student: %w",
			sparkify.ErrInvalidConfig,
		)
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	var cfg *sparkify.ConnectionConfig
	var err error
	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, pc)
	}
	if err != nil {
		return nil, "", err
	}

	if granularFlags.Database != "" {
		cfg.Database = granularFlags.Database
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, pc); err != nil {
		return nil, "", err
	}

	maintenanceDB := pc.ManagementDatabase
	if maintenanceDB == "" {
		maintenanceDB = sparkify.DefaultManagementDB
	}

	return cfg, maintenanceDB, nil
}

// applyCloudAuth picks the auth method (flag > sparkify.yaml > implied by
// Azure settings) and attaches the matching credentials.
func applyCloudAuth(cfg *sparkify.ConnectionConfig, flags *CloudFlags, env *EnvVars, pc config.ConnectionConfig) error {
	method := firstNonEmpty(flags.AuthMethod, pc.AuthMethod)
	authMethod, err := ParseAuthMethod(method)
	if err != nil {
		return err
	}

	tenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	clientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)
	if method == "" && (tenantID != "" || clientID != "") {
		authMethod = sparkify.AuthMethodAzureEntraID
	}

	cfg.AuthMethod = authMethod
	switch authMethod {
	case sparkify.AuthMethodAzureEntraID:
		cfg.AzureTenantID = tenantID
		cfg.AzureClientID = clientID
		// Client secret only comes from the environment.
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	case sparkify.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	case sparkify.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	}
	if authMethod != sparkify.AuthMethodStandard && cfg.Password == sparkify.DefaultPassword {
		cfg.Password = ""
	}
	return nil
}

// resolveFromConnectionString parses a connection string. Environment
// variables fill in parameters the string leaves out, as libpq does.
func resolveFromConnectionString(connStr string, envVars *EnvVars) (*sparkify.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	if !hasSSLMode(connStr) && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.Password == "" {
		cfg.Password = envVars.PGPASSWORD
	}
	if cfg.Username == "" {
		cfg.Username = firstNonEmpty(envVars.PGUSER, sparkify.DefaultUsername)
	}
	applyDefaultPassword(cfg)

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig parameter by parameter:
// flag, then environment variable, then sparkify.yaml, then default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	pc config.ConnectionConfig,
) (*sparkify.ConnectionConfig, error) {
	cfg := &sparkify.ConnectionConfig{
		AuthMethod:       sparkify.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, sparkify.DefaultHost)

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer: %w", envVars.PGPORT, sparkify.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = sparkify.DefaultPort
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username, sparkify.DefaultUsername)
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database, sparkify.DefaultDatabase)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, DefaultSSLMode)
	applyDefaultPassword(cfg)

	return cfg, nil
}

// applyDefaultPassword supplies the default password only to the default user.
func applyDefaultPassword(cfg *sparkify.ConnectionConfig) {
	if cfg.Password == "" && cfg.Username == sparkify.DefaultUsername {
		cfg.Password = sparkify.DefaultPassword
	}
}

// hasSSLMode reports whether connStr names an SSL mode in either format.
func hasSSLMode(connStr string) bool {
	lower := strings.ToLower(connStr)
	return strings.Contains(lower, "sslmode=") || strings.Contains(lower, "ssl mode=")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
