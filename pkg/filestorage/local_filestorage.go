package filestorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileStorageInterface interface {
	// Save кладёт файл в <prefix>/<yyyy>/<mm>/<dd>/ и возвращает путь от корня хранилища.
	// label, если задан, очищается и ставится перед сгенерированным именем.
	Save(file io.Reader, originalFileName string, prefix string, label string) (filePath string, err error)
	Open(filePath string) (*os.File, error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage directory: %w", err)
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, prefix string, label string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	uniqueFileName := uuid.New().String() + ext
	if label = strings.Trim(unsafeNameChars.ReplaceAllString(label, "_"), "_"); label != "" {
		uniqueFileName = label + "_" + uniqueFileName
	}

	datePath := time.Now().Format("2006/01/02")
	fullDirPath := filepath.Join(s.basePath, prefix, datePath)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return "", err
	}

	return filepath.ToSlash(filepath.Join(prefix, datePath, uniqueFileName)), nil
}

func (s *LocalFileStorage) resolve(filePath string) (string, error) {
	relativePath := filepath.Clean("/" + strings.TrimPrefix(filePath, "/uploads/"))
	fullPath := filepath.Join(s.basePath, relativePath)
	if !strings.HasPrefix(fullPath, filepath.Clean(s.basePath)+string(os.PathSeparator)) {
		return "", fmt.Errorf("path %q escapes storage root", filePath)
	}
	return fullPath, nil
}

func (s *LocalFileStorage) Open(filePath string) (*os.File, error) {
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return nil, err
	}
	return os.Open(fullPath)
}

// Delete считает отсутствующий файл уже удалённым.
func (s *LocalFileStorage) Delete(filePath string) error {
	fullPath, err := s.resolve(filePath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(fullPath)
}
