package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const (
	flagName = "config-file"
	envKey   = "CMDUTIL_TEST_CONFIG_FILE"
)

func newCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String(flagName, "", "")
	return cmd
}

func TestGetUserSetOptionalVarFromString(t *testing.T) {
	t.Run("flag wins over env", func(t *testing.T) {
		t.Setenv(envKey, "/etc/env.toml")

		cmd := newCmd()
		require.NoError(t, cmd.Flags().Set(flagName, "/etc/flag.toml"))

		require.Equal(t, "/etc/flag.toml", GetUserSetOptionalVarFromString(cmd, flagName, envKey))
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(envKey, "/etc/env.toml")

		require.Equal(t, "/etc/env.toml", GetUserSetOptionalVarFromString(newCmd(), flagName, envKey))
	})

	t.Run("unset", func(t *testing.T) {
		require.Empty(t, GetUserSetOptionalVarFromString(newCmd(), flagName, envKey))
	})

	t.Run("unknown flag falls back to env", func(t *testing.T) {
		t.Setenv(envKey, "/etc/env.toml")

		require.Equal(t, "/etc/env.toml", GetUserSetOptionalVarFromString(newCmd(), "missing", envKey))
	})
}

func TestParseKeyValues(t *testing.T) {
	claims, err := ParseKeyValues([]string{"name=Alice", "role=Engineer", "note=a=b"})
	require.NoError(t, err)
	require.Equal(t, map[string]interface{}{"name": "Alice", "role": "Engineer", "note": "a=b"}, claims)

	_, err = ParseKeyValues([]string{"name"})
	require.Error(t, err)

	_, err = ParseKeyValues([]string{"=Alice"})
	require.Error(t, err)
}
