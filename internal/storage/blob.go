// Package storage keeps uploaded question and option images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/lshigami/examapp/config"
)

type BlobStore interface {
	// Put stores r under key and returns the URL clients can fetch it from.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

var ErrInvalidKey = errors.New("invalid blob key")

// New builds the store selected by STORAGE_DRIVER.
func New(cfg *config.Config) (BlobStore, error) {
	switch cfg.Storage.Driver {
	case "fs":
		return NewFSStore(cfg.Storage.Dir, cfg.Storage.PublicURL)
	case "oss":
		return NewOSSStore(cfg.Storage.OSS)
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
}

// cleanKey rejects empty, absolute and parent-escaping keys.
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
