// Package storage keeps uploaded images on local disk under a single root.
package storage

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Kind selects the directory and encoding of a stored image.
type Kind struct {
	Dir      string
	MaxWidth int
	Format   imaging.Format
}

var (
	// Logos are re-encoded as PNG so transparency survives into the PDF header.
	Logo    = Kind{Dir: "logos", MaxWidth: 600, Format: imaging.PNG}
	Receipt = Kind{Dir: "receipts", MaxWidth: 1600, Format: imaging.JPEG}
)

// MaxUploadBytes bounds every upload body.
const MaxUploadBytes int64 = 10 << 20

var ErrNotImage = errors.New("file is not a supported image")

type Store struct {
	root string
}

// NewStore creates root if needed.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{root: root}, nil
}

// SaveImage decodes r, shrinks it to kind.MaxWidth and writes it under a fresh name.
// The returned path is relative to the store root and uses forward slashes.
func (s *Store) SaveImage(kind Kind, userID int, r io.Reader) (string, error) {
	img, err := imaging.Decode(io.LimitReader(r, MaxUploadBytes), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	img = fit(img, kind.MaxWidth)

	ext := ".png"
	if kind.Format == imaging.JPEG {
		ext = ".jpg"
	}
	rel := path.Join(kind.Dir, strconv.Itoa(userID), uuid.New().String()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	if err := imaging.Encode(f, img, kind.Format, imaging.JPEGQuality(85)); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}
	return rel, nil
}

func fit(img image.Image, maxWidth int) image.Image {
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	return img
}

// Path resolves a stored relative path to a file on disk. Paths escaping the root
// are rejected.
func (s *Store) Path(rel string) (string, error) {
	if rel == "" {
		return "", os.ErrNotExist
	}
	clean := path.Clean("/" + rel)
	if strings.Contains(rel, "..") || clean == "/" {
		return "", fmt.Errorf("invalid upload path %q", rel)
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Remove deletes a stored file. Missing files are ignored.
func (s *Store) Remove(rel string) error {
	full, err := s.Path(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
