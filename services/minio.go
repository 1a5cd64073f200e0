package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MinIOService stores rendered certificate documents. With MINIO_DISABLED=true
// callers stream documents directly.
type MinIOService struct {
	appContext.DefaultService
	client     *minio.Client
	bucketName string
	endpoint   string
	accessKey  string
	secretKey  string
	useSSL     bool
}

const MINIO_SVC = "minio_svc"

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appContext.Context) error {
	svc.endpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	if getEnv("MINIO_DISABLED", "false") == "true" {
		svc.endpoint = ""
	}
	svc.accessKey = getEnv("MINIO_ACCESS_KEY", "admin")
	svc.secretKey = getEnv("MINIO_SECRET_KEY", "password123")
	svc.useSSL = getEnv("MINIO_USE_SSL", "false") == "true"
	svc.bucketName = getEnv("MINIO_BUCKET_NAME", "code-academy")

	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	if svc.endpoint == "" {
		log.Info("MinIO disabled, certificate documents will be streamed")
		return nil
	}

	client, err := minio.New(svc.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.accessKey, svc.secretKey, ""),
		Secure: svc.useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}
	svc.client = client

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.ensureBucket(ctx); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	log.WithField("endpoint", svc.endpoint).Info("MinIO service started")
	return nil
}

func (svc *MinIOService) Enabled() bool {
	return svc.client != nil
}

func (svc *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := svc.client.BucketExists(ctx, svc.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := svc.client.MakeBucket(ctx, svc.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		log.WithField("bucket", svc.bucketName).Info("Created MinIO bucket")
	}
	return nil
}

func (svc *MinIOService) Upload(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := svc.client.PutObject(ctx, svc.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (svc *MinIOService) Exists(ctx context.Context, key string) (bool, error) {
	_, err := svc.client.StatObject(ctx, svc.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}

func (svc *MinIOService) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	presignedURL, err := svc.client.PresignedGetObject(ctx, svc.bucketName, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedURL.String(), nil
}
