package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/princinho/storefront/config"
	"google.golang.org/api/option"
)

// ImageStore is a bucket that serves product images publicly.
type ImageStore interface {
	Put(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
	Close() error
}

// NewImageStore returns nil, nil when the provider is "none".
func NewImageStore(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "gcs":
		s, err := NewGCSStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "r2":
		s, err := NewR2Store(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

type GCSStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, cfg config.StorageConfig) (*GCSStore, error) {
	if cfg.GCSBucket == "" {
		return nil, errors.New("missing GCS_BUCKET")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithAuthCredentialsFile(option.ServiceAccount, cfg.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSStore{client: client, bucket: cfg.GCSBucket}, nil
}

func (g *GCSStore) Put(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	w := g.client.Bucket(g.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload copy: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload close: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucket, objectName), nil
}

func (g *GCSStore) Close() error { return g.client.Close() }

// R2Store talks to Cloudflare R2 through its S3 compatible API.
type R2Store struct {
	client       *s3.Client
	bucket       string
	publicDomain string
}

func NewR2Store(ctx context.Context, cfg config.StorageConfig) (*R2Store, error) {
	if cfg.R2Bucket == "" || cfg.R2AccessKey == "" || cfg.R2SecretKey == "" || cfg.R2Endpoint == "" {
		return nil, errors.New("missing R2 settings (R2_BUCKET, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_ENDPOINT)")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKey, cfg.R2SecretKey, ""),
		),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2Endpoint)
		o.UsePathStyle = true
	})
	return &R2Store{client: client, bucket: cfg.R2Bucket, publicDomain: cfg.R2PublicDomain}, nil
}

func (r *R2Store) Put(ctx context.Context, objectName, contentType string, body io.Reader) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(objectName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectName, err)
	}
	return PublicURL(r.publicDomain, r.bucket, objectName), nil
}

func (r *R2Store) Close() error { return nil }

func PublicURL(domain, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(domain, "/"), bucket, objectName)
}

// ImageObjectName is products/<slug>/<index><ext>, stable across reruns.
func ImageObjectName(productSlug string, index int, ext string) string {
	return path.Join("products", productSlug, fmt.Sprintf("%d%s", index, ext))
}

// ImageValidator accepts only image payloads below a size limit.
type ImageValidator struct {
	allowedMime map[string]bool
	maxSize     int64
}

func NewImageValidator(sizeMB int) *ImageValidator {
	return &ImageValidator{
		allowedMime: map[string]bool{
			"image/jpeg": true,
			"image/png":  true,
			"image/webp": true,
			"image/gif":  true,
		},
		maxSize: int64(sizeMB) << 20,
	}
}

// Validate returns the detected mime type and file extension.
func (v *ImageValidator) Validate(data []byte) (string, string, error) {
	if int64(len(data)) > v.maxSize {
		return "", "", fmt.Errorf("file too large (max %d MB)", v.maxSize>>20)
	}
	mt := mimetype.Detect(data)
	if !v.allowedMime[mt.String()] {
		return "", "", fmt.Errorf("invalid file type %s", mt.String())
	}
	return mt.String(), mt.Extension(), nil
}

// ReadLimited reads at most limit+1 bytes so oversized bodies fail validation.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r, limit+1)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
