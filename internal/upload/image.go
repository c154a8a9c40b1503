package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const (
	defaultMaxDimension = 1200
	jpegQuality         = 85
	maxUploadBytes      = 10 << 20
)

// ImageStore resizes uploaded product images and writes them as JPEG under
// dir, served back under urlPrefix.
type ImageStore struct {
	dir       string
	urlPrefix string
	maxDim    int
	log       *logrus.Logger
}

func NewImageStore(dir, urlPrefix string, maxDim int, logger *logrus.Logger) (*ImageStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if maxDim <= 0 {
		maxDim = defaultMaxDimension
	}
	return &ImageStore{dir: dir, urlPrefix: urlPrefix, maxDim: maxDim, log: logger}, nil
}

func (s *ImageStore) Dir() string { return s.dir }

// Save returns the public URL of the stored image.
func (s *ImageStore) Save(r io.Reader) (string, error) {
	img, err := imaging.Decode(io.LimitReader(r, maxUploadBytes), imaging.AutoOrientation(true))
	if err != nil {
		s.log.Warnf("Upload: Rejected file that is not a supported image: %v", err)
		return "", domain.NewValidationError("image", "not a supported image")
	}

	bounds := img.Bounds()
	if bounds.Dx() > s.maxDim || bounds.Dy() > s.maxDim {
		img = imaging.Fit(img, s.maxDim, s.maxDim, imaging.Lanczos)
		s.log.Infof("Upload: Resized image %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(s.dir, name), imaging.JPEGQuality(jpegQuality)); err != nil {
		s.log.Errorf("Upload: Failed to write image %s: %v", name, err)
		return "", fmt.Errorf("could not store image: %w", err)
	}

	s.log.Infof("Upload: Stored image %s", name)
	return path.Join(s.urlPrefix, name), nil
}
