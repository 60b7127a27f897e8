package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ats-ng/scmc-video-upload-api/internal/media"
)

type memObject struct {
	data               []byte
	contentType        string
	contentDisposition string
	cacheControl       string
	metadata           map[string]string
	modified           time.Time
}

// MemStore is an in-memory ObjectStore for tests and local development.
type MemStore struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

var _ ObjectStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string]memObject)}
}

func (s *MemStore) Put(_ context.Context, in PutInput) error {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return fmt.Errorf("put %s: %w", in.Key, err)
	}
	meta := make(map[string]string, len(in.Metadata))
	for k, v := range in.Metadata {
		meta[k] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[in.Key] = memObject{
		data:               data,
		contentType:        in.ContentType,
		contentDisposition: in.ContentDisposition,
		cacheControl:       in.CacheControl,
		metadata:           meta,
		modified:           time.Now().UTC(),
	}
	return nil
}

func (s *MemStore) Stat(_ context.Context, key string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return ObjectInfo{}, media.ErrNotFound
	}
	return ObjectInfo{
		Key:          key,
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		Metadata:     obj.metadata,
		LastModified: obj.modified,
	}, nil
}

func (s *MemStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, media.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *MemStore) GetRange(_ context.Context, key string, start, end int64) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, media.ErrNotFound
	}
	size := int64(len(obj.data))
	if start < 0 || start > end || start >= size || end >= size {
		return nil, fmt.Errorf("get range %s: bytes=%d-%d outside object of %d bytes", key, start, end, size)
	}
	return io.NopCloser(bytes.NewReader(obj.data[start : end+1])), nil
}

func (s *MemStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *MemStore) List(_ context.Context) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		infos = append(infos, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.data)),
			ContentType:  obj.contentType,
			Metadata:     obj.metadata,
			LastModified: obj.modified,
		})
	}
	return infos, nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
