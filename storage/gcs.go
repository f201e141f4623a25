package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSProvider stores blobs in a Google Cloud Storage bucket named by
// GCS_BUCKET. The remote id is the object name.
type GCSProvider struct{}

func getGoogleClient(ctx context.Context) (*gstorage.Client, error) {
	// Prefer ADC (service account / GOOGLE_APPLICATION_CREDENTIALS). Explicit
	// JSON can be supplied locally via GCS_CREDENTIALS_JSON.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return gstorage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return gstorage.NewClient(ctx)
}

func bucketName() (string, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return "", errors.New("GCS_BUCKET is required")
	}
	return bucket, nil
}

func (p *GCSProvider) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	bucket, err := bucketName()
	if err != nil {
		return "", err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if _, err := client.Bucket(bucket).Attrs(ctx); err != nil {
		return "", fmt.Errorf("gcs bucket %q not found or not accessible: %v", bucket, err)
	}

	wc := client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := wc.Write(data); err != nil {
		return "", fmt.Errorf("failed to upload bytes to Google Cloud Storage: %v", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %v", err)
	}
	return objectName, nil
}

func (p *GCSProvider) Download(ctx context.Context, remoteId string) ([]byte, error) {
	bucket, err := bucketName()
	if err != nil {
		return nil, err
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(remoteId).NewReader(ctx)
	if err != nil {
		if err == gstorage.ErrObjectNotExist {
			return nil, fmt.Errorf("object %q does not exist", remoteId)
		}
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
