package interpreter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealCommandRunner(t *testing.T) {
	runner := RealCommandRunner{}

	t.Run("NoCommand", func(t *testing.T) {
		_, _, _, err := runner.RunCommand(context.Background(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command provided")
	})

	t.Run("CommandNotFound", func(t *testing.T) {
		_, _, _, err := runner.RunCommand(context.Background(), []string{"nonexistent-python-xyz-12345", "--version"})
		require.Error(t, err)
	})

	t.Run("CapturesStdout", func(t *testing.T) {
		t.Setenv(helperEnv, "version")

		stdout, stderr, exitCode, err := runner.RunCommand(context.Background(), []string{os.Args[0], "--version"})
		require.NoError(t, err)
		assert.Equal(t, 0, exitCode)
		assert.Equal(t, "Python 3.12.1\n", stdout)
		assert.Empty(t, stderr)
	})

	t.Run("NonZeroExitIsNotAnError", func(t *testing.T) {
		t.Setenv(helperEnv, "fail")

		_, stderr, exitCode, err := runner.RunCommand(context.Background(), []string{os.Args[0]})
		require.NoError(t, err)
		assert.Equal(t, 3, exitCode)
		assert.Contains(t, stderr, "broken interpreter")
	})

	t.Run("LookPathNotFound", func(t *testing.T) {
		_, err := runner.LookPath("nonexistent-python-xyz-12345")
		assert.Error(t, err)
	})
}
