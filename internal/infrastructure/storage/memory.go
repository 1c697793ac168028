package storage

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/jhoicas/onboarding-api/internal/application/ports"
)

var _ ports.ObjectStorage = (*MemoryStorage)(nil)

// MemoryStorage almacenamiento en memoria para desarrollo y tests.
// Las URLs firmadas son ficticias (memory://bucket/key) pero deterministas.
type MemoryStorage struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memoryObject
}

type memoryObject struct {
	contentType string
	body        []byte
}

func NewMemoryStorage(bucket string) *MemoryStorage {
	return &MemoryStorage{bucket: bucket, objects: make(map[string]memoryObject)}
}

func (m *MemoryStorage) url(key, method string, ttl time.Duration) string {
	q := url.Values{}
	q.Set("method", method)
	q.Set("ttl", ttl.String())
	return fmt.Sprintf("memory://%s/%s?%s", m.bucket, key, q.Encode())
}

func (m *MemoryStorage) PresignUpload(_ context.Context, key, _ string, ttl time.Duration) (string, error) {
	return m.url(key, "PUT", ttl), nil
}

func (m *MemoryStorage) PresignDownload(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.url(key, "GET", ttl), nil
}

func (m *MemoryStorage) Put(_ context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(body))
	copy(cp, body)
	m.objects[key] = memoryObject{contentType: contentType, body: cp}
	return nil
}

// Get devuelve el contenido guardado con Put.
func (m *MemoryStorage) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.body, ok
}

// Keys número de objetos guardados.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
