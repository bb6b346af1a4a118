package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/sirupsen/logrus"

	"furniture-store/config"
	"furniture-store/models"
)

var ErrUnsupportedImage = errors.New("Unsupported image format. Only PNG, JPG, JPEG, WEBP and GIF are allowed")

// ImageHost stores product images and returns their public location.
type ImageHost interface {
	Upload(ctx context.Context, filename string, data []byte) (models.ProductImage, error)
	Delete(ctx context.Context, publicID string) error
}

// NewImageHost returns the host named by IMAGE_PROVIDER.
func NewImageHost(cfg config.ImageConfig) (ImageHost, error) {
	switch cfg.Provider {
	case "cloudinary":
		cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
		if err != nil {
			return nil, fmt.Errorf("cloudinary: %w", err)
		}
		return &CloudinaryHost{cld: cld, folder: cfg.CloudinaryFolder, maxWidth: cfg.MaxWidth}, nil
	case "", "local":
		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			return nil, err
		}
		return &LocalHost{Dir: cfg.UploadDir, PublicURL: cfg.PublicURL, MaxWidth: cfg.MaxWidth}, nil
	}
	return nil, fmt.Errorf("unknown IMAGE_PROVIDER %q", cfg.Provider)
}

// PrepareImage downscales JPEG and PNG images wider than maxWidth, keeping the
// aspect ratio. WEBP and GIF pass through untouched. It returns the bytes to
// store and the file extension matching them.
func PrepareImage(data []byte, maxWidth uint) ([]byte, string, error) {
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return downscale(data, maxWidth, ".jpg", func(buf *bytes.Buffer, img image.Image) error {
			return jpeg.Encode(buf, img, &jpeg.Options{Quality: 85})
		})
	case "image/png":
		return downscale(data, maxWidth, ".png", func(buf *bytes.Buffer, img image.Image) error {
			return png.Encode(buf, img)
		})
	case "image/webp":
		return data, ".webp", nil
	case "image/gif":
		return data, ".gif", nil
	}
	return nil, "", ErrUnsupportedImage
}

func downscale(data []byte, maxWidth uint, ext string, encode func(*bytes.Buffer, image.Image) error) ([]byte, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if maxWidth == 0 || uint(img.Bounds().Dx()) <= maxWidth {
		return data, ext, nil
	}
	var buf bytes.Buffer
	if err := encode(&buf, resize.Resize(maxWidth, 0, img, resize.Lanczos3)); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), ext, nil
}

// CloudinaryHost uploads to a Cloudinary folder.
type CloudinaryHost struct {
	cld      *cloudinary.Cloudinary
	folder   string
	maxWidth uint
}

func (h *CloudinaryHost) Upload(ctx context.Context, filename string, data []byte) (models.ProductImage, error) {
	data, _, err := PrepareImage(data, h.maxWidth)
	if err != nil {
		return models.ProductImage{}, err
	}
	res, err := h.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:   h.folder,
		PublicID: strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + "-" + uuid.NewString()[:8],
	})
	if err != nil {
		return models.ProductImage{}, fmt.Errorf("image upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return models.ProductImage{}, fmt.Errorf("image upload failed: %s", res.Error.Message)
	}
	return models.ProductImage{PublicID: res.PublicID, URL: res.SecureURL}, nil
}

func (h *CloudinaryHost) Delete(ctx context.Context, publicID string) error {
	res, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}

// LocalHost writes images under Dir and serves them from PublicURL.
type LocalHost struct {
	Dir       string
	PublicURL string
	MaxWidth  uint
}

func (h *LocalHost) Upload(ctx context.Context, _ string, data []byte) (models.ProductImage, error) {
	if err := ctx.Err(); err != nil {
		return models.ProductImage{}, err
	}
	data, ext, err := PrepareImage(data, h.MaxWidth)
	if err != nil {
		return models.ProductImage{}, err
	}
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(h.Dir, name), data, 0o644); err != nil {
		return models.ProductImage{}, fmt.Errorf("error saving image file: %w", err)
	}
	return models.ProductImage{PublicID: name, URL: h.PublicURL + "/" + name}, nil
}

func (h *LocalHost) Delete(_ context.Context, publicID string) error {
	// publicID is a bare filename we generated; refuse anything else.
	if publicID == "" || publicID != filepath.Base(publicID) {
		return fmt.Errorf("invalid image id %q", publicID)
	}
	err := os.Remove(filepath.Join(h.Dir, publicID))
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithField("publicId", publicID).Warn("image already removed")
		return nil
	}
	return err
}
