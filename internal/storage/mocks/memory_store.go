package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"astrocrm/internal/storage"
)

// MemoryStore is an in-process BlobStore for end-to-end tests.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string]*memFile
}

type memFile struct {
	info storage.FileInfo
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]*memFile)}
}

func (s *MemoryStore) Upload(_ context.Context, name string, r io.Reader, meta storage.Metadata) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	id := primitive.NewObjectID().Hex()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = &memFile{
		info: storage.FileInfo{ID: id, Name: name, Length: int64(len(data)), UploadedAt: time.Now(), Metadata: meta},
		data: data,
	}
	return id, nil
}

func (s *MemoryStore) Open(_ context.Context, id string) (io.ReadCloser, *storage.FileInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, nil, storage.ErrBlobNotFound
	}
	info := f.info
	return io.NopCloser(bytes.NewReader(f.data)), &info, nil
}

func (s *MemoryStore) Link(_ context.Context, id, consultationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return storage.ErrBlobNotFound
	}
	f.info.Metadata.ConsultationID = &consultationID
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return storage.ErrBlobNotFound
	}
	delete(s.files, id)
	return nil
}

// Has reports whether an object with id is stored.
func (s *MemoryStore) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[id]
	return ok
}

// Get returns a copy of the stored object's info.
func (s *MemoryStore) Get(id string) (storage.FileInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return storage.FileInfo{}, false
	}
	return f.info, true
}

var _ storage.BlobStore = (*MemoryStore)(nil)
var _ storage.BlobStore = (*BlobStore)(nil)
