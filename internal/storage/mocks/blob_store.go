// Package mocks provides test doubles for storage.BlobStore.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"astrocrm/internal/storage"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Upload(ctx context.Context, name string, r io.Reader, meta storage.Metadata) (string, error) {
	args := m.Called(ctx, name, r, meta)
	return args.String(0), args.Error(1)
}

func (m *BlobStore) Open(ctx context.Context, id string) (io.ReadCloser, *storage.FileInfo, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	var info *storage.FileInfo
	if v := args.Get(1); v != nil {
		info = v.(*storage.FileInfo)
	}
	return rc, info, args.Error(2)
}

func (m *BlobStore) Link(ctx context.Context, id, consultationID string) error {
	return m.Called(ctx, id, consultationID).Error(0)
}

func (m *BlobStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
