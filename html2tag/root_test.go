package main

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/tagtool/internal/config"
)

const sample = "<table>\n<tr><td>NN</td><td>cat</td></tr>\n<tr><td>X</td></tr>\n</table>\n"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HTML2TAG_LOG_LEVEL", "")
	t.Setenv("HTML2TAG_LOG_FILE", "")
	t.Setenv("HTML2TAG_FORMAT", "")
	t.Setenv("HTML2TAG_CHARSET", "")

	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecute_FileToStdout(t *testing.T) {
	in := writeInput(t, sample)

	code, stdout, stderr := runCLI(t, "", "-i", in)

	assert.Equal(t, 0, code)
	assert.Equal(t, "cat\tNN\n\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecute_FileToFile(t *testing.T) {
	in := writeInput(t, sample)
	out := filepath.Join(t.TempDir(), "tagged.txt")

	code, stdout, _ := runCLI(t, "", "--in", in, "--out", out)

	require.Equal(t, 0, code)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "cat\tNN\n\n", string(data))
}

func TestExecute_Stdin(t *testing.T) {
	code, stdout, _ := runCLI(t, "<tr><td>A</td><td>B</td></tr>", "-i", "-")

	assert.Equal(t, 0, code)
	assert.Equal(t, "B\tA\n", stdout)
}

func TestExecute_TableFormat(t *testing.T) {
	in := writeInput(t, sample)

	code, stdout, _ := runCLI(t, "", "-i", in, "-f", "table")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "| value | key |")
	assert.Contains(t, stdout, "| cat   | NN  |")
}

func TestExecute_FormatFromEnvironment(t *testing.T) {
	in := writeInput(t, sample)

	t.Chdir(t.TempDir())
	t.Setenv("HTML2TAG_FORMAT", "table")

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-i", in}, strings.NewReader(""), &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "| value | key |")
}

func TestExecute_Help(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "-i, --in")
	assert.Contains(t, stdout, "-o, --out")
	assert.Contains(t, stdout, "display this help and exit")
	assert.Empty(t, stderr)
}

func TestExecute_HelpBypassesErrors(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-h", "-o", "/nonexistent/dir/out.txt")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage:")
}

func TestExecute_HelpWinsOverArgumentErrors(t *testing.T) {
	tests := [][]string{
		{"-h", "--bogus"},
		{"--bogus", "-h"},
		{"-h", "-f"},
		{"--help", "extra"},
		{"-i", "x.html", "--format", "csv", "--help"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", args...)

			assert.Equal(t, 0, code)
			assert.Contains(t, stdout, "Usage:")
			assert.Contains(t, stdout, "-i, --in")
			assert.Empty(t, stderr)
		})
	}
}

func TestExecute_HelpAfterTerminatorIgnored(t *testing.T) {
	code, stdout, stderr := runCLI(t, "", "-i", "x.html", "--", "-h")

	assert.Equal(t, 1, code)
	assert.NotContains(t, stdout, "Usage:")
	assert.Contains(t, stderr, "Try 'html2tag --help'")
}

func TestOpenInput_CloseFailureUsesLogger(t *testing.T) {
	path := writeInput(t, sample)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	in, closeIn, err := openInput(newRootCmd(&config.Config{}), path, logger)
	require.NoError(t, err)

	file, ok := in.(*os.File)
	require.True(t, ok)
	require.NoError(t, file.Close())
	closeIn()

	assert.Contains(t, logs.String(), "failed to close input")
	assert.Contains(t, logs.String(), "path="+path)
}

func TestOpenInput_ErrorIsLowercase(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.html")

	_, _, err := openInput(newRootCmd(&config.Config{}), missing, slog.Default())
	require.Error(t, err)

	var oe *openError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, missing, oe.path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, strings.HasPrefix(err.Error(), "cannot open "))
}

func TestExecute_MissingInput(t *testing.T) {
	code, stdout, stderr := runCLI(t, "")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `"in"`)
	assert.Contains(t, stderr, "Try 'html2tag --help' for more information.")
}

func TestExecute_UnknownFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-i", "x.html", "--bogus")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown flag: --bogus")
	assert.Contains(t, stderr, "Try 'html2tag --help'")
}

func TestExecute_UnknownFormat(t *testing.T) {
	in := writeInput(t, sample)

	code, stdout, stderr := runCLI(t, "", "-i", in, "--format", "csv")

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown output format")
	assert.Contains(t, stderr, "Try 'html2tag --help'")
}

func TestExecute_UnknownCharset(t *testing.T) {
	in := writeInput(t, sample)

	code, _, stderr := runCLI(t, "", "-i", in, "--charset", "klingon-8")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown charset")
}

func TestExecute_CannotOpenInput(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.html")

	code, stdout, stderr := runCLI(t, "", "-i", missing)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Cannot open "+missing)
	assert.NotContains(t, stderr, "--help")
}

func TestExecute_CannotOpenOutput(t *testing.T) {
	in := writeInput(t, sample)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "out.txt")

	code, _, stderr := runCLI(t, "", "-i", in, "-o", out)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Cannot open "+out)
}

func TestExecute_VerboseLogsRows(t *testing.T) {
	in := writeInput(t, "<tr><td>a</td><td>b</td><td>c</td></tr>")

	code, stdout, stderr := runCLI(t, "", "-i", in, "-v")

	assert.Equal(t, 0, code)
	assert.Equal(t, "b\tc\n", stdout)
	assert.Contains(t, stderr, "scanned row")
	assert.Contains(t, stderr, "row has more than two cells")
}

func TestExecute_WarnsOnExtraCellsByDefault(t *testing.T) {
	in := writeInput(t, "<tr><td>a</td><td>b</td><td>c</td><td>d</td></tr>")

	code, stdout, stderr := runCLI(t, "", "-i", in)

	assert.Equal(t, 0, code)
	assert.Equal(t, "d\tc\n", stdout)
	assert.Contains(t, stderr, "row has more than two cells")
	assert.NotContains(t, stderr, "scanned row")
}

func TestExecute_PositionalArgumentRejected(t *testing.T) {
	in := writeInput(t, sample)

	code, _, stderr := runCLI(t, "", "-i", in, "extra")

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Try 'html2tag --help'")
}
