package commands

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jss-tech/pencil-design-system/internal/errors"
	"github.com/jss-tech/pencil-design-system/internal/logging"
)

func resetLogFlags(t *testing.T) {
	t.Helper()
	v, q, f, lf := verbosity, quiet, logFormat, logFile
	t.Cleanup(func() { verbosity, quiet, logFormat, logFile = v, q, f, lf })
	verbosity, quiet, logFormat, logFile = 0, false, "text", ""
}

func TestSetupLogging_Verbosity(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default", 0, slog.LevelWarn},
		{"-v", 1, slog.LevelInfo},
		{"-vv", 2, slog.LevelDebug},
		{"-vvv", 3, logging.LevelTrace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetLogFlags(t)
			t.Setenv(envDebug, "")
			verbosity = tt.verbosity
			require.NoError(t, setupLogging(rootCmd))

			logger := slog.Default()
			assert.True(t, logger.Enabled(t.Context(), tt.wantLevel))
			if tt.wantLevel > logging.LevelTrace {
				assert.False(t, logger.Enabled(t.Context(), tt.wantLevel-4))
			}
		})
	}
}

func TestSetupLogging_EnvDebug(t *testing.T) {
	resetLogFlags(t)
	t.Setenv(envDebug, "2")
	require.NoError(t, setupLogging(rootCmd))
	assert.True(t, slog.Default().Enabled(t.Context(), logging.LevelTrace))
}

func TestSetupLogging_Conflicts(t *testing.T) {
	resetLogFlags(t)
	quiet, verbosity = true, 1
	err := setupLogging(rootCmd)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUser, errors.ExitCode(err))

	resetLogFlags(t)
	logFormat = "xml"
	require.Error(t, setupLogging(rootCmd))
}

func TestVersionCommand(t *testing.T) {
	resetLogFlags(t)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "pds version "))
	assert.Contains(t, out, "skill:  0.3.0")
}

func TestCommandTree(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"install", "doctor", "backup", "version"} {
		assert.True(t, names[want], "missing %s", want)
	}
	assert.NotNil(t, rootCmd.Flags().Lookup("agent"))
	assert.NotNil(t, installCmd.Flags().Lookup("no-mcp"))
}
