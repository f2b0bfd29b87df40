package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"primariaPortal/internal/apperr"
	"primariaPortal/internal/config"
	"primariaPortal/internal/logger"
	"primariaPortal/internal/upload"
)

// MinIOStorage keeps files in an S3-compatible bucket. Objects are still
// addressed by the same /uploads/<name> URLs and streamed back by the server.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

func NewMinIOStorage(cfg *config.Config) (*MinIOStorage, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("eroare la inițializarea MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinIO.BucketName)
	if err != nil {
		return nil, fmt.Errorf("eroare la verificarea bucketului %s: %w", cfg.MinIO.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinIO.BucketName, minio.MakeBucketOptions{Region: cfg.MinIO.Region})
		if err != nil {
			return nil, fmt.Errorf("eroare la crearea bucketului %s: %w", cfg.MinIO.BucketName, err)
		}
		logger.Infof("Bucket MinIO creat: %s", cfg.MinIO.BucketName)
	}

	return &MinIOStorage{client: client, bucket: cfg.MinIO.BucketName}, nil
}

func (m *MinIOStorage) Save(ctx context.Context, file *upload.TempFile) (string, error) {
	defer file.Discard()

	contentType := "application/octet-stream"
	if mtype, err := mimetype.DetectFile(file.Path); err == nil {
		contentType = mtype.String()
	}

	name := objectName(file)
	_, err := m.client.FPutObject(ctx, m.bucket, name, file.Path, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": file.OriginalName,
			"uploaded-at":       time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("eroare la încărcarea în MinIO: %w", err)
	}

	return publicURL(name), nil
}

func (m *MinIOStorage) Open(ctx context.Context, name string) (io.ReadCloser, string, error) {
	if err := validName(name); err != nil {
		return nil, "", err
	}

	info, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", apperr.NotFound("fișierul %q", name)
		}
		return nil, "", fmt.Errorf("eroare la citirea din MinIO: %w", err)
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("eroare la citirea din MinIO: %w", err)
	}
	return obj, info.ContentType, nil
}

func (m *MinIOStorage) Delete(ctx context.Context, fileURL string) error {
	name, err := NameFromURL(fileURL)
	if err != nil {
		return err
	}

	err = m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("eroare la ștergerea din MinIO: %w", err)
	}
	return nil
}
