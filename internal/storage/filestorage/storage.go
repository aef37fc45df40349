package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileStorage интерфейс для работы с файловым хранилищем
type FileStorage interface {
	// Upload writes content under path and returns the public URL.
	// Uploading to an existing path overwrites the previous object.
	Upload(ctx context.Context, content io.Reader, mediaType, path string) (string, error)
	// Delete removes the object. A missing object is treated as success.
	Delete(ctx context.Context, path string) error
	// Exists reports whether an object is present under path. The check
	// lists the parent prefix and matches the leaf name, since not every
	// backend offers a stat primitive.
	Exists(ctx context.Context, path string) (bool, error)
	BaseURL() string
}

// LocalFileStorage реализация для локальной файловой системы
type LocalFileStorage struct {
	baseDir string // Базовый каталог для хранения (например: "./uploads")
	baseURL string // Базовый URL для доступа к файлам (например: "http://localhost:8080/uploads")
}

func NewLocalFileStorage(baseDir, baseURL string) (*LocalFileStorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *LocalFileStorage) Upload(ctx context.Context, content io.Reader, mediaType, objectPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(objectPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	done := make(chan struct{})
	var copyErr error

	go func() {
		_, copyErr = io.Copy(dst, content)
		close(done)
	}()

	select {
	case <-done:
		if copyErr != nil {
			_ = os.Remove(fullPath)
			return "", fmt.Errorf("failed to copy file: %w", copyErr)
		}
	case <-ctx.Done():
		_ = os.Remove(fullPath)
		return "", ctx.Err()
	}

	return s.baseURL + "/" + path.Clean(objectPath), nil
}

// Delete удаляет файл из хранилища
func (s *LocalFileStorage) Delete(ctx context.Context, objectPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fullPath := filepath.Join(s.baseDir, filepath.FromSlash(objectPath))
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func (s *LocalFileStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	dir, leaf := path.Split(path.Clean(objectPath))

	entries, err := os.ReadDir(filepath.Join(s.baseDir, filepath.FromSlash(dir)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && entry.Name() == leaf {
			return true, nil
		}
	}

	return false, nil
}

// BaseURL возвращает базовый URL для доступа к файлам
func (s *LocalFileStorage) BaseURL() string {
	return s.baseURL
}

// GetBaseDir возвращает каталог, который отдается статикой
func (s *LocalFileStorage) GetBaseDir() string {
	return s.baseDir
}
