package services

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadStore keeps uploaded CVs on disk only while they are being read.
type UploadStore interface {
	EnsureUploadDir() error
	Save(file *multipart.FileHeader) (string, error)
	Remove(path string)
}

type diskUploadStore struct {
	uploadPath  string
	maxFileSize int64
}

func NewUploadStore(uploadPath string, maxFileSize int64) UploadStore {
	return &diskUploadStore{
		uploadPath:  uploadPath,
		maxFileSize: maxFileSize,
	}
}

func (s *diskUploadStore) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

// Save writes the upload under a unique name and returns its path.
func (s *diskUploadStore) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", invalidRequest("only PDF files are accepted, got %q", ext)
	}
	if s.maxFileSize > 0 && file.Size > s.maxFileSize {
		return "", invalidRequest("file exceeds the %d byte limit", s.maxFileSize)
	}

	filePath := filepath.Join(s.uploadPath, fmt.Sprintf("cv_%s%s", uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *diskUploadStore) Remove(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Failed to remove upload %s: %v\n", path, err)
	}
}
