package services

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// PictureStorage keeps uploaded pictures (deck art, user photos) on disk
// under uuid filenames; rows store only the filename.
type PictureStorage struct {
	storageDir string
}

func NewPictureStorage() *PictureStorage {
	storageDir := os.Getenv("PICTURES_DIR")
	if storageDir == "" {
		storageDir = "./data/pictures"
	}

	if err := os.MkdirAll(storageDir, 0755); err != nil {
		// Writes will fail later with a clearer error.
		fmt.Printf("Warning: could not create pictures directory: %v\n", err)
	}

	return &PictureStorage{
		storageDir: storageDir,
	}
}

// Save writes picture data to disk and returns the generated filename.
func (s *PictureStorage) Save(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty picture data")
	}

	filename := uuid.New().String() + ".jpg"
	path := filepath.Join(s.storageDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save picture: %w", err)
	}

	return filename, nil
}

// LoadBase64 reads a stored picture and returns it base64 encoded, as the
// API serves pictures inline. An empty filename yields an empty string.
func (s *PictureStorage) LoadBase64(filename string) (string, error) {
	if filename == "" {
		return "", nil
	}

	data, err := os.ReadFile(filepath.Join(s.storageDir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to read picture: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Delete removes a stored picture. Missing files are not an error; the
// row is the authority on whether a picture exists.
func (s *PictureStorage) Delete(filename string) error {
	if filename == "" {
		return nil
	}

	err := os.Remove(filepath.Join(s.storageDir, filename))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
