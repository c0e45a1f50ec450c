package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_Creates(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data", "nested", "app.db")

	require.NoError(t, EnsureParentDir(path))

	info, err := os.Stat(filepath.Join(root, "data", "nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestEnsureParentDir_Existing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, EnsureParentDir(filepath.Join(root, "app.db")))
	require.NoError(t, EnsureParentDir(filepath.Join(root, "app.db")))
}

func TestEnsureParentDir_SkipsMemoryAndBareNames(t *testing.T) {
	for _, p := range []string{"", ":memory:", "file:x?mode=memory&cache=shared", "app.db"} {
		assert.NoError(t, EnsureParentDir(p), p)
	}
}

func TestEnsureParentDir_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := EnsureParentDir(filepath.Join(blocker, "app.db"))
	require.Error(t, err)
}
