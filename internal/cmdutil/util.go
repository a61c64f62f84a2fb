// Package cmdutil reads command settings from flags with environment
// variable fallback.
package cmdutil

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// GetUserSetOptionalVarFromString returns the flag value if it was set on the
// command line, otherwise the value of envKey. Both may be unset, in which
// case the result is "".
func GetUserSetOptionalVarFromString(cmd *cobra.Command, flagName, envKey string) string {
	if cmd.Flags().Changed(flagName) {
		if value, err := cmd.Flags().GetString(flagName); err == nil {
			return value
		}
	}

	return os.Getenv(envKey)
}

// ParseKeyValues turns repeated "key=value" flags into a map. Values are kept
// as strings.
func ParseKeyValues(pairs []string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}
		out[key] = value
	}

	return out, nil
}
