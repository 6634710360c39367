package service

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"azaunur/internal/config"
	"azaunur/internal/middleware"
	"azaunur/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	PostImageMaxSize  = 1200
	AvatarMaxSize     = 400
	PostJPEGQuality   = 85
	AvatarJPEGQuality = 90
	WebPQuality       = 75
)

// ErrImageUnusable marks an upload that cannot be decoded or stored. Callers
// degrade to the image-less path instead of failing the enclosing save.
var ErrImageUnusable = errors.New("image unusable")

// ImageService normalizes uploads: decode, downscale to fit, re-encode as
// JPEG with a WebP variant alongside.
type ImageService struct {
	mediaDir string
}

func NewImageService(cfg *config.Config) *ImageService {
	return &ImageService{mediaDir: cfg.MediaDir}
}

// SavePostImage stores a post attachment scaled to fit PostImageMaxSize and
// returns the stored filename.
func (s *ImageService) SavePostImage(content []byte) (string, error) {
	return s.save(content, PostImageMaxSize, PostJPEGQuality)
}

// SaveAvatar stores a profile picture scaled to fit AvatarMaxSize.
func (s *ImageService) SaveAvatar(content []byte) (string, error) {
	return s.save(content, AvatarMaxSize, AvatarJPEGQuality)
}

// URLPath returns the public path a stored filename is served under.
func (s *ImageService) URLPath(filename string) string {
	return "/media/" + filename
}

func (s *ImageService) save(content []byte, maxSize, quality int) (string, error) {
	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		observability.MediaFailures.WithLabelValues("decode").Inc()
		return "", ErrImageUnusable
	}

	scaled := resizeToFit(flatten(decoded), maxSize, maxSize)

	name := uuid.New().String()
	jpegPath := filepath.Join(s.mediaDir, name+".jpg")
	encoded, err := encodeJPEG(scaled, quality)
	if err != nil {
		observability.MediaFailures.WithLabelValues("encode").Inc()
		return "", ErrImageUnusable
	}
	if err := writeBytesToFile(jpegPath, encoded); err != nil {
		observability.MediaFailures.WithLabelValues("write").Inc()
		return "", ErrImageUnusable
	}

	// The WebP variant is an optimization; losing it never loses the upload.
	if encodedWebP, err := encodeWebP(scaled, WebPQuality); err != nil {
		observability.MediaFailures.WithLabelValues("webp").Inc()
		middleware.Logger.Warn("failed to encode webp variant", "file", name, "error", err)
	} else if err := writeBytesToFile(filepath.Join(s.mediaDir, name+".webp"), encodedWebP); err != nil {
		observability.MediaFailures.WithLabelValues("webp").Inc()
		middleware.Logger.Warn("failed to write webp variant", "file", name, "error", err)
	}

	return name + ".jpg", nil
}

// flatten redraws the image onto an opaque RGBA canvas so transparent inputs
// survive JPEG encoding.
func flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
