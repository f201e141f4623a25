package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryProvider keeps blobs in a process-local map.
type MemoryProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

func (p *MemoryProvider) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	p.objects[objectName] = buf
	return objectName, nil
}

func (p *MemoryProvider) Download(ctx context.Context, remoteId string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, ok := p.objects[remoteId]
	if !ok {
		return nil, fmt.Errorf("object %q does not exist", remoteId)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

// Len reports the number of stored objects.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.objects)
}
