// Package media stores uploaded images.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/labstack/gommon/log"

	"github.com/mytheresa/content-portal/models"
)

// Store uploads and removes images.
type Store interface {
	Upload(ctx context.Context, folder, filename string, r io.Reader) (models.Image, error)
	Destroy(ctx context.Context, img models.Image) error
}

// New returns a Cloudinary store when cloudinaryURL is set and a DevStore otherwise.
func New(cloudinaryURL string, l *log.Logger) (Store, error) {
	if cloudinaryURL == "" {
		l.Warn("CLOUDINARY_URL is not set: uploads get placeholder images")
		return DevStore{}, nil
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, log: l}, nil
}

type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
	log *log.Logger
}

func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (models.Image, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:   folder,
		PublicID: publicID(filename),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if res.Error.Message != "" {
		return models.Image{}, fmt.Errorf("upload %s: %s", filename, res.Error.Message)
	}
	s.log.Infof("uploaded %s as %s", filename, res.PublicID)
	return models.Image{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, img models.Image) error {
	if img.PublicID == "" {
		return nil
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: img.PublicID})
	if err != nil {
		return fmt.Errorf("destroy %s: %w", img.PublicID, err)
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	s.log.Infof("deleted image %s", img.PublicID)
	return nil
}

// DevStore keeps nothing and hands out a placeholder image for every upload.
type DevStore struct{}

const (
	PlaceholderWidth  = 800
	PlaceholderHeight = 600
)

func (DevStore) Upload(_ context.Context, folder, filename string, r io.Reader) (models.Image, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return models.Image{}, err
	}
	return models.Image{
		URL:      fmt.Sprintf("https://placehold.co/%dx%d?text=%s", PlaceholderWidth, PlaceholderHeight, publicID(filename)),
		PublicID: path.Join(folder, publicID(filename)),
		Width:    PlaceholderWidth,
		Height:   PlaceholderHeight,
	}, nil
}

func (DevStore) Destroy(context.Context, models.Image) error {
	return nil
}

// publicID derives an asset name from an uploaded file name.
func publicID(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, path.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}
