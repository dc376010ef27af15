package utils

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"erp-system/config"
)

var zipMagic = []byte("PK\x03\x04")

// ValidateFile проверяет размер, расширение и content type по правилам contextName.
func ValidateFile(fileHeader *multipart.FileHeader, file io.ReadSeeker, contextName string) error {
	rules, ok := config.UploadContexts[contextName]
	if !ok {
		return fmt.Errorf("unknown upload context: %s", contextName)
	}

	if rules.MaxSizeMB > 0 {
		maxSizeBytes := rules.MaxSizeMB * 1024 * 1024
		if fileHeader.Size > maxSizeBytes {
			return fmt.Errorf("file size (%d KB) exceeds the %d MB limit", fileHeader.Size/1024, rules.MaxSizeMB)
		}
	}

	if len(rules.AllowedExtensions) > 0 {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !slices.Contains(rules.AllowedExtensions, ext) {
			return fmt.Errorf("file extension '%s' is not allowed", ext)
		}
	}

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("could not read file to detect its type")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("could not rewind file")
	}
	buffer = buffer[:n]

	mimeType := http.DetectContentType(buffer)
	if bytes.HasPrefix(buffer, zipMagic) {
		mimeType = "application/zip"
	}

	if !slices.Contains(rules.AllowedMimeTypes, mimeType) {
		return fmt.Errorf("file type %s is not allowed", mimeType)
	}
	return nil
}
