package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"WorshipHub/config"
	"WorshipHub/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore writes sheets to a MinIO (or any S3 compatible) bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioStore connects to the configured endpoint and makes sure the
// bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}
	logger.Info("connecting to MinIO",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket),
		logger.Bool("ssl", cfg.MinioUseSSL))

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	s := &MinioStore{client: client, bucket: cfg.MinioBucket, region: cfg.MinioRegion}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MinioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		logger.Debug("bucket exists", logger.String("bucket", s.bucket))
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	logger.Info("created bucket", logger.String("bucket", s.bucket))
	return nil
}

func (s *MinioStore) Put(ctx context.Context, name string, body []byte) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	_, err = s.client.PutObject(ctx, s.bucket, clean, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", clean, err)
	}
	return s.bucket + "/" + clean, nil
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var out []ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		out = append(out, ObjectInfo{Key: object.Key, Size: object.Size, LastModified: object.LastModified})
	}
	return out, nil
}

// Check writes, reads back and removes a probe object.
func (s *MinioStore) Check(ctx context.Context) error {
	const probe = "probe/connection.txt"
	content := "connection check " + time.Now().UTC().Format(time.RFC3339)
	if _, err := s.client.PutObject(ctx, s.bucket, probe, strings.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain",
	}); err != nil {
		return fmt.Errorf("upload probe: %w", err)
	}
	object, err := s.client.GetObject(ctx, s.bucket, probe, minio.GetObjectOptions{})
	if err != nil {
		return fmt.Errorf("read probe: %w", err)
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return fmt.Errorf("read probe: %w", err)
	}
	if string(data) != content {
		return fmt.Errorf("probe content mismatch")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, probe, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove probe: %w", err)
	}
	return nil
}
