package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/miroshnikov-aleks/TG02/pkg/utils"
)

// ImageStore archives inbound photos under a single directory, one file
// per transport file ID. Saves are write-once fire-and-forget: the same ID
// always lands on the same path, and nothing here reads the files back.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create image directory %q: %w", dir, err)
	}
	return &ImageStore{dir: dir}, nil
}

// Path returns the deterministic location for a file ID.
func (s *ImageStore) Path(fileID string) string {
	return filepath.Join(s.dir, utils.SanitizeFilename(fileID)+".jpg")
}

// Save streams r into the store. Saving an ID twice overwrites the same
// path; distinct IDs never collide. A partial write is removed.
func (s *ImageStore) Save(fileID string, r io.Reader) (string, error) {
	dest := s.Path(fileID)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close image file: %w", err)
	}
	return dest, nil
}
