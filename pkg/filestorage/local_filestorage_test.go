package filestorage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorage_SaveOpenDelete(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	path, err := storage.Save(strings.NewReader("zip-bytes"), "Docs.ZIP", "doc", "P123/ John Doe")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "doc/"))
	assert.Equal(t, ".zip", filepath.Ext(path))
	assert.Contains(t, filepath.Base(path), "P123_John_Doe_")

	f, err := storage.Open(path)
	require.NoError(t, err)
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "zip-bytes", string(content))

	require.NoError(t, storage.Delete("/uploads/"+path))
	_, err = storage.Open(path)
	assert.Error(t, err)

	assert.NoError(t, storage.Delete(path), "deleting a missing file is not an error")
}

func TestLocalFileStorage_RejectsTraversal(t *testing.T) {
	storage, err := NewLocalFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.Open("../../etc/passwd")
	assert.Error(t, err)
}
