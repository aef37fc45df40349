package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// BucketStorage хранит файлы в S3-совместимом бакете
type BucketStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type Config struct {
	Bucket   string
	Region   string
	Endpoint string // non-empty for S3-compatible providers (MinIO, Supabase)
	BaseURL  string // public URL prefix, e.g. CDN or bucket website endpoint
}

func New(ctx context.Context, cfg Config) (*BucketStorage, error) {
	const op = "storage.s3.New"

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &BucketStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (s *BucketStorage) Upload(ctx context.Context, content io.Reader, mediaType, objectPath string) (string, error) {
	const op = "storage.s3.Upload"

	key := path.Clean(objectPath)

	// PutObject перезаписывает существующий объект (upsert)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(mediaType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *BucketStorage) Delete(ctx context.Context, objectPath string) error {
	const op = "storage.s3.Delete"

	// DeleteObject is a no-op for a missing key, which matches the
	// best-effort cleanup contract.
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path.Clean(objectPath)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *BucketStorage) Exists(ctx context.Context, objectPath string) (bool, error) {
	const op = "storage.s3.Exists"

	key := path.Clean(objectPath)
	prefix, leaf := path.Split(key)

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix + leaf),
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	for _, obj := range out.Contents {
		if aws.ToString(obj.Key) == key {
			return true, nil
		}
	}

	return false, nil
}

func (s *BucketStorage) BaseURL() string {
	return s.baseURL
}
