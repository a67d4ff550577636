package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/lshigami/examapp/config"
)

// OSSStore keeps blobs in an Aliyun OSS bucket.
type OSSStore struct {
	bucket        *oss.Bucket
	publicBaseURL string
}

func NewOSSStore(cfg config.OSS) (*OSSStore, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("oss bucket %q: %w", cfg.Bucket, err)
	}
	base := cfg.PublicBaseURL
	if base == "" {
		base = defaultPublicBase(cfg.Endpoint, cfg.Bucket)
	}
	return &OSSStore{bucket: bucket, publicBaseURL: base}, nil
}

// defaultPublicBase is the virtual-hosted bucket URL, e.g. https://bucket.oss-cn-hangzhou.aliyuncs.com.
func defaultPublicBase(endpoint, bucket string) string {
	host := endpoint
	scheme := "https"
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		host = u.Host
		scheme = u.Scheme
	}
	return fmt.Sprintf("%s://%s.%s", scheme, bucket, strings.TrimSuffix(host, "/"))
}

func (s *OSSStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return "", fmt.Errorf("oss put %s: %w", key, err)
	}
	return joinURL(s.publicBaseURL, key), nil
}

func (s *OSSStore) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil {
		return fmt.Errorf("oss delete %s: %w", key, err)
	}
	return nil
}
