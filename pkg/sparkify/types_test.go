package sparkify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

func validTarget() sparkify.TargetConfig {
	return sparkify.TargetConfig{
		DatabaseName:     "sparkifydb",
		ConnectionString: "postgresql://student@127.0.0.1:5432/sparkifydb",
	}
}

func TestLoadConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *sparkify.LoadConfig)
		wantError bool
	}{
		{
			name:   "valid config",
			mutate: func(c *sparkify.LoadConfig) {},
		},
		{
			name: "valid config with overwrite and force",
			mutate: func(c *sparkify.LoadConfig) {
				c.Overwrite = true
				c.Force = true
			},
		},
		{
			name:      "missing database name",
			mutate:    func(c *sparkify.LoadConfig) { c.DatabaseName = "" },
			wantError: true,
		},
		{
			name:      "missing connection string",
			mutate:    func(c *sparkify.LoadConfig) { c.ConnectionString = "" },
			wantError: true,
		},
		{
			name:      "force without overwrite",
			mutate:    func(c *sparkify.LoadConfig) { c.Force = true },
			wantError: true,
		},
		{
			name:      "negative timeout",
			mutate:    func(c *sparkify.LoadConfig) { c.Timeout = -time.Second },
			wantError: true,
		},
		{
			name:      "no sources",
			mutate:    func(c *sparkify.LoadConfig) { c.Sources = nil },
			wantError: true,
		},
		{
			name:      "source without directory",
			mutate:    func(c *sparkify.LoadConfig) { c.Sources = []sparkify.Source{{Kind: sparkify.SourceKindLog}} },
			wantError: true,
		},
		{
			name:      "source with unknown kind",
			mutate:    func(c *sparkify.LoadConfig) { c.Sources = []sparkify.Source{{Dir: "x", Kind: 9}} },
			wantError: true,
		},
		{
			name:      "unknown auth method",
			mutate:    func(c *sparkify.LoadConfig) { c.AuthMethod = 42 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sparkify.LoadConfig{TargetConfig: validTarget(), Sources: sparkify.DefaultSources()}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				if !errors.Is(err, sparkify.ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got: %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfig_Validate_ReportsAllProblems(t *testing.T) {
	cfg := sparkify.LoadConfig{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for empty config")
	}

	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		t.Fatalf("Expected joined error, got %T", err)
	}
	if got := len(joined.Unwrap()); got != 3 {
		t.Errorf("Expected 3 errors (database, connection, sources), got %d: %v", got, err)
	}
}

func TestSchemaConfig_Validate(t *testing.T) {
	cfg := sparkify.SchemaConfig{TargetConfig: validTarget(), Action: sparkify.SchemaReset}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	cfg.Action = sparkify.SchemaAction(7)
	if err := cfg.Validate(); !errors.Is(err, sparkify.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for unknown action, got: %v", err)
	}
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    sparkify.SourceKind
		wantErr bool
	}{
		{"song", sparkify.SourceKindSong, false},
		{"LOG", sparkify.SourceKindLog, false},
		{" log ", sparkify.SourceKindLog, false},
		{"csv", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := sparkify.ParseSourceKind(tt.in)
			if tt.wantErr {
				if !errors.Is(err, sparkify.ErrInvalidConfig) {
					t.Errorf("Expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseSourceKind(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultSources_SongBeforeLog(t *testing.T) {
	sources := sparkify.DefaultSources()
	if len(sources) != 2 {
		t.Fatalf("Expected 2 default sources, got %d", len(sources))
	}
	if sources[0].Kind != sparkify.SourceKindSong || sources[0].Dir != sparkify.DefaultSongDataDir {
		t.Errorf("First source = %+v, want song data", sources[0])
	}
	if sources[1].Kind != sparkify.SourceKindLog || sources[1].Dir != sparkify.DefaultLogDataDir {
		t.Errorf("Second source = %+v, want log data", sources[1])
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method sparkify.AuthMethod
		want   string
	}{
		{sparkify.AuthMethodStandard, "Standard"},
		{sparkify.AuthMethodAWSIAM, "AWS IAM"},
		{sparkify.AuthMethodGoogleIAM, "Google IAM"},
		{sparkify.AuthMethodAzureEntraID, "Azure Entra ID"},
		{sparkify.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestIsTemplateDatabase(t *testing.T) {
	for _, name := range []string{"template0", "Template1"} {
		if !sparkify.IsTemplateDatabase(name) {
			t.Errorf("IsTemplateDatabase(%q) = false, want true", name)
		}
	}
	if sparkify.IsTemplateDatabase("sparkifydb") {
		t.Error("IsTemplateDatabase(sparkifydb) = true, want false")
	}
}
