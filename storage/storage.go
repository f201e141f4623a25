package storage

import (
	"context"
	"os"
	"strings"
)

// Provider is the remote blob store consumed by the backup layer. Failures
// surface as a single error; there are no partial-content errors.
type Provider interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
	Download(ctx context.Context, remoteId string) ([]byte, error)
}

const (
	ProviderGCS    = "gcs"
	ProviderMemory = "memory"
)

// FromEnv selects the configured provider. GCS is the production default;
// the memory provider exists for tests and local development.
func FromEnv() Provider {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == ProviderMemory {
		return NewMemoryProvider()
	}
	return &GCSProvider{}
}
