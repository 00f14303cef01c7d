package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// sslModes contains valid PostgreSQL SSL modes for shell completion.
var sslModes = []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}

// authMethods contains the --auth-method values for shell completion.
var authMethods = []string{"standard", "aws", "google", "azure"}

func completeFromList(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeSSLModes provides shell completion for SSL mode flag values.
func completeSSLModes(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFromList(sslModes)(cmd, args, toComplete)
}

// completeAuthMethods provides shell completion for --auth-method.
func completeAuthMethods(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return completeFromList(authMethods)(cmd, args, toComplete)
}

// completeDirectories provides shell completion for directory paths.
func completeDirectories(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return nil, cobra.ShellCompDirectiveFilterDirs
}
