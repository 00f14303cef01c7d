package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

var connectionEnvVars = []string{
	"PGHOST", "PGPORT", "PGUSER", "PGPASSWORD", "PGDATABASE", "PGSSLMODE", "DATABASE_URL",
	"AWS_REGION", "AZURE_TENANT_ID", "AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET",
}

// isolateEnv unsets every variable the resolver reads; the previous values
// come back when the test ends.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, name := range connectionEnvVars {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

// useConfigDir points --config at a fresh directory for the test.
func useConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := configDir
	configDir = dir
	t.Cleanup(func() { configDir = orig })
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// parsedLoadFlags binds the load flags to a fresh command and parses args.
func parsedLoadFlags(t *testing.T, args ...string) (*cobra.Command, loadFlagValues) {
	t.Helper()
	cmd := &cobra.Command{Use: "load"}
	var f loadFlagValues
	bindLoadFlags(cmd, &f)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}
