package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validQCM = `{"qcm": [
  {"question": "2 + 2?", "choices": ["3", "4"], "answer": [1]},
  {"question": "Primes?", "choices": ["2", "4", "5"], "answer": [0, 2]}
]}`

// execute runs the root command with args against an isolated question
// directory and database.
func execute(t *testing.T, dir, db string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--dir", dir,
		"--db", db,
		"--log-file", filepath.Join(t.TempDir(), "qcm.log"),
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, base...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDB(t *testing.T) string {
	return filepath.Join(t.TempDir(), "qcm.db")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestValidateCommand(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "math.json", validQCM)

		out, err := execute(t, dir, tempDB(t), "validate")
		require.NoError(t, err)
		assert.Contains(t, out, "2 valid question(s)")
		assert.Contains(t, out, "0 problem(s)")
	})

	t.Run("reports every problem", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "math.json", validQCM)
		writeFile(t, dir, "broken.json", `{"qcm": [`)
		writeFile(t, dir, "bad.json", `{"qcm": [{"question": "x", "choices": ["a", "b"], "answer": [5]}]}`)

		out, err := execute(t, dir, tempDB(t), "validate")
		require.Error(t, err)
		assert.Contains(t, out, "broken.json")
		assert.Contains(t, out, "bad.json")
		assert.Contains(t, out, "2 problem(s)")
	})
}

func TestResetCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(t.TempDir(), "qcm.db")
	writeFile(t, filepath.Dir(db), "qcm.db", "")

	_, err := execute(t, dir, db, "reset", "--yes=false")
	require.Error(t, err)
	assert.FileExists(t, db)

	out, err := execute(t, dir, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")
	assert.NoFileExists(t, db)

	out, err = execute(t, dir, db, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to reset")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), tempDB(t), "version")
	require.NoError(t, err)
	assert.Equal(t, "qcm "+version+"\n", out)
}
