package utils

import (
	"archive/zip"
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zipBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("passport.pdf")
	require.NoError(t, err)
	_, err = w.Write([]byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestValidateFile_EmployeeDocument(t *testing.T) {
	archive := zipBytes(t)

	t.Run("zip accepted", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "docs.zip", Size: int64(len(archive))}
		assert.NoError(t, ValidateFile(fh, bytes.NewReader(archive), "employee_document"))
	})

	t.Run("wrong extension", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "docs.rar", Size: int64(len(archive))}
		assert.Error(t, ValidateFile(fh, bytes.NewReader(archive), "employee_document"))
	})

	t.Run("not a zip", func(t *testing.T) {
		data := []byte("plain text pretending")
		fh := &multipart.FileHeader{Filename: "docs.zip", Size: int64(len(data))}
		assert.Error(t, ValidateFile(fh, bytes.NewReader(data), "employee_document"))
	})

	t.Run("too large", func(t *testing.T) {
		fh := &multipart.FileHeader{Filename: "docs.zip", Size: 11 << 20}
		assert.Error(t, ValidateFile(fh, bytes.NewReader(archive), "employee_document"))
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "s3cret"))
	assert.Error(t, ComparePasswords(hash, "wrong"))
}
