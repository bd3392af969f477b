// Package storage holds the binary-object store used for consultation PDF attachments.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrBlobNotFound  = errors.New("blob not found")
	ErrInvalidBlobID = errors.New("invalid blob id")
)

// Metadata is stored next to every uploaded object. ConsultationID is nil until the
// object has been linked to the consultation that owns it.
type Metadata struct {
	ConsultationID *string `bson:"consultationId"`
	UploadedBy     string  `bson:"uploadedBy"`
	OriginalName   string  `bson:"originalName"`
	ContentType    string  `bson:"contentType"`
}

type FileInfo struct {
	ID         string
	Name       string
	Length     int64
	UploadedAt time.Time
	Metadata   Metadata
}

// BlobStore addresses objects by an opaque id string.
type BlobStore interface {
	Upload(ctx context.Context, name string, r io.Reader, meta Metadata) (string, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *FileInfo, error)
	Link(ctx context.Context, id, consultationID string) error
	Delete(ctx context.Context, id string) error
}
