package tendem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveArtifact(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := saveArtifact("~/out/report.pdf", []byte("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "out", "report.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), fi.Mode().Perm())

	// parent is a file
	_, err = saveArtifact(filepath.Join(path, "child.txt"), []byte("x"))
	assert.Error(t, err)

	// target is a folder
	_, err = saveArtifact(filepath.Join(home, "out"), []byte("x"))
	assert.Error(t, err)
	entries, err := os.ReadDir(home)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be removed on failure")
}
