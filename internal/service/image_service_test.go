package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lshigami/examapp/config"
	"github.com/lshigami/examapp/internal/apperror"
	"github.com/lshigami/examapp/internal/storage"
)

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// formFile round-trips content through a multipart body so the header carries a real Size.
func formFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func newImageFixture(t *testing.T, maxBytes int64) (ImageService, *storage.FSStore) {
	t.Helper()
	store, err := storage.NewFSStore(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new fs store: %v", err)
	}
	cfg := &config.Config{Image: config.Image{MaxWidth: 400, MaxHeight: 400, MaxBytes: maxBytes}}
	return NewImageService(store, cfg), store
}

func storedFiles(t *testing.T, store *storage.FSStore) []string {
	t.Helper()
	var files []string
	err := filepath.WalkDir(store.Base(), func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk store: %v", err)
	}
	return files
}

func TestImageUploadRejections(t *testing.T) {
	small := encodePNG(t, solidImage(20, 20))

	tests := []struct {
		name     string
		maxBytes int64
		filename string
		content  []byte
		message  string
	}{
		{"over the byte limit", int64(len(small)) - 1, "big.png", small, "exceeds the"},
		{"text with an image name", 1 << 20, "notes.png", []byte("these are not pixels"), "Cannot decode image notes.png"},
		{"text with a text name", 1 << 20, "notes.txt", []byte("these are not pixels"), "Unsupported image format for notes.txt"},
		{"truncated png", 1 << 20, "cut.png", small[:len(small)/2], "Cannot decode image cut.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, store := newImageFixture(t, tt.maxBytes)

			ref, err := images.Upload(context.Background(), QuestionImageFolder, formFile(t, tt.filename, tt.content))
			if err == nil {
				t.Fatalf("expected rejection, got %+v", ref)
			}
			if !apperror.Is(err, apperror.KindValidation) {
				t.Fatalf("kind = %v, want validation (%v)", apperror.KindOf(err), err)
			}
			var appErr *apperror.Error
			if !errors.As(err, &appErr) || !strings.Contains(appErr.Message, tt.message) {
				t.Fatalf("message = %q, want it to contain %q", err, tt.message)
			}
			if files := storedFiles(t, store); len(files) != 0 {
				t.Fatalf("rejected upload left files behind: %v", files)
			}
		})
	}
}

func TestImageUploadFitsIntoBounds(t *testing.T) {
	tests := []struct {
		name          string
		filename      string
		content       []byte
		width, height int
		ext           string
	}{
		{"wide png is downscaled", "wide.png", encodePNG(t, solidImage(1000, 600)), 400, 240, ".png"},
		{"tall jpeg is downscaled", "tall.jpg", encodeJPEG(t, solidImage(300, 900)), 133, 400, ".jpg"},
		{"small png is kept", "small.png", encodePNG(t, solidImage(64, 32)), 64, 32, ".png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images, store := newImageFixture(t, 5<<20)

			ref, err := images.Upload(context.Background(), OptionImageFolder, formFile(t, tt.filename, tt.content))
			if err != nil {
				t.Fatalf("Upload: %v", err)
			}
			if !strings.HasPrefix(ref.ID, OptionImageFolder+"/") || !strings.HasSuffix(ref.ID, tt.ext) {
				t.Fatalf("id = %q, want %s/<uuid>%s", ref.ID, OptionImageFolder, tt.ext)
			}
			if ref.URL != "/uploads/"+ref.ID {
				t.Fatalf("url = %q", ref.URL)
			}

			stored, err := imaging.Open(filepath.Join(store.Base(), filepath.FromSlash(ref.ID)))
			if err != nil {
				t.Fatalf("open stored image: %v", err)
			}
			if b := stored.Bounds(); b.Dx() != tt.width || b.Dy() != tt.height {
				t.Fatalf("stored size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.width, tt.height)
			}
		})
	}
}

func TestImageDeleteRemovesStoredFile(t *testing.T) {
	images, store := newImageFixture(t, 5<<20)
	ref, err := images.Upload(context.Background(), QuestionImageFolder, formFile(t, "q.png", encodePNG(t, solidImage(10, 10))))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := images.Delete(context.Background(), ref.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if files := storedFiles(t, store); len(files) != 0 {
		t.Fatalf("files left after delete: %v", files)
	}
	if err := images.Delete(context.Background(), ""); err != nil {
		t.Fatalf("Delete with empty id: %v", err)
	}
}
