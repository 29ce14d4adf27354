package action

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

func TestOutputWriter_WriteAll(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output")
	writer := NewOutputWriter(path, zerolog.Nop())

	err := writer.WriteAll(Outputs{
		URLs: []TargetOutput{
			{URL: "https://web-abc.vercel.app", Name: "web"},
			{URL: "https://docs-abc.vercel.app", Name: "docs"},
		},
		VercelJWT: "token-value",
	})
	require.NoError(t, err)

	contents, err := os.ReadFile(path) //nolint:gosec // Reading a file this test created
	require.NoError(t, err)

	want := `urls=[{"url":"https://web-abc.vercel.app","name":"web"},{"url":"https://docs-abc.vercel.app","name":"docs"}]` + "\n" +
		"vercel_jwt=token-value\n"
	assert.Equal(t, want, string(contents))
}

func TestOutputWriter_WriteAll_AppendsToExisting(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "output")
	require.NoError(t, os.WriteFile(path, []byte("earlier_step=kept\n"), 0o600))

	writer := NewOutputWriter(path, zerolog.Nop())
	err := writer.WriteAll(Outputs{
		URLs: []TargetOutput{{URL: "https://web-abc.vercel.app", Name: "web"}},
	})
	require.NoError(t, err)

	contents, err := os.ReadFile(path) //nolint:gosec // Reading a file this test created
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(contents), "earlier_step=kept\n"),
		"existing outputs must survive")
	assert.Contains(t, string(contents), `urls=[{"url":"https://web-abc.vercel.app","name":"web"}]`)
	assert.Contains(t, string(contents), "vercel_jwt=\n", "empty token still publishes the output")
}

func TestOutputWriter_WriteAll_NoFileConfigured(t *testing.T) {
	t.Parallel()

	writer := NewOutputWriter("", zerolog.Nop())

	err := writer.WriteAll(Outputs{
		URLs:      []TargetOutput{{URL: "https://web-abc.vercel.app", Name: "web"}},
		VercelJWT: "token-value",
	})
	require.NoError(t, err, "local runs log outputs instead of writing them")
}

func TestOutputWriter_WriteAll_OpenFailure(t *testing.T) {
	t.Parallel()

	// A directory cannot be opened for appending.
	writer := NewOutputWriter(t.TempDir(), zerolog.Nop())

	err := writer.WriteAll(Outputs{})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrOutputWrite)
}

func TestFormatOutputLine(t *testing.T) {
	t.Parallel()

	t.Run("single line", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "urls=[]\n", formatOutputLine("urls", "[]"))
	})

	t.Run("empty value", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "vercel_jwt=\n", formatOutputLine("vercel_jwt", ""))
	})

	t.Run("multiline value uses heredoc", func(t *testing.T) {
		t.Parallel()

		line := formatOutputLine("notes", "first\nsecond")

		require.True(t, strings.HasPrefix(line, "notes<<ghadelimiter_"), "got %q", line)

		// The delimiter on the opening line must close the block.
		head, rest, found := strings.Cut(line, "\n")
		require.True(t, found)
		delimiter := strings.TrimPrefix(head, "notes<<")
		assert.Equal(t, "first\nsecond\n"+delimiter+"\n", rest)
	})
}
