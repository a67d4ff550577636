package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/lshigami/examapp/config"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/storage"
	"github.com/rs/zerolog/log"
)

const (
	QuestionImageFolder = "exam-app/questions"
	OptionImageFolder   = "exam-app/options"
)

type ImageService interface {
	// Upload validates, downsizes and stores an image, returning its URL and id.
	Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (*dto.ImageRef, error)
	Delete(ctx context.Context, id string) error
}

type imageService struct {
	store     storage.BlobStore
	maxWidth  int
	maxHeight int
	maxBytes  int64
}

func NewImageService(store storage.BlobStore, cfg *config.Config) ImageService {
	return &imageService{
		store:     store,
		maxWidth:  cfg.Image.MaxWidth,
		maxHeight: cfg.Image.MaxHeight,
		maxBytes:  cfg.Image.MaxBytes,
	}
}

func (s *imageService) Upload(ctx context.Context, folder string, fh *multipart.FileHeader) (*dto.ImageRef, error) {
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, apperror.Validation("Image %s exceeds the %d byte limit", fh.Filename, s.maxBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Validation("Cannot read image %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Validation("Cannot read image %s", fh.Filename)
	}
	encoded, ext, contentType, err := s.normalize(data, fh.Filename)
	if err != nil {
		return nil, err
	}

	key := path.Join(folder, uuid.NewString()+ext)
	url, err := s.store.Put(ctx, key, bytes.NewReader(encoded), contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to store image")
		return nil, apperror.Persistence("Failed to upload image", err)
	}
	log.Debug().Str("key", key).Int("bytes", len(encoded)).Msg("Image stored")
	return &dto.ImageRef{URL: url, ID: key}, nil
}

func (s *imageService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.store.Delete(ctx, id)
}

// normalize decodes the upload, fits it into the configured bounds and re-encodes
// JPEG as JPEG and everything else as PNG.
func (s *imageService) normalize(data []byte, filename string) ([]byte, string, string, error) {
	format, err := imageFormat(data, filename)
	if err != nil {
		return nil, "", "", apperror.Validation("Unsupported image format for %s", filename)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", "", apperror.Validation("Cannot decode image %s", filename)
	}
	if s.maxWidth > 0 && s.maxHeight > 0 {
		img = imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)
	}

	ext, contentType := ".png", "image/png"
	if format == imaging.JPEG {
		ext, contentType = ".jpg", "image/jpeg"
	} else {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", "", &apperror.Error{Kind: apperror.KindInternal, Message: "Failed to encode image", Err: err}
	}
	return buf.Bytes(), ext, contentType, nil
}

func imageFormat(data []byte, filename string) (imaging.Format, error) {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	switch http.DetectContentType(head) {
	case "image/jpeg":
		return imaging.JPEG, nil
	case "image/png":
		return imaging.PNG, nil
	case "image/gif":
		return imaging.GIF, nil
	case "image/bmp":
		return imaging.BMP, nil
	}
	return imaging.FormatFromFilename(filename)
}
