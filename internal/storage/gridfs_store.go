package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ BlobStore = (*GridFSStore)(nil)

// GridFSStore keeps objects in a GridFS bucket. The bucket is built once at start-up and shared.
type GridFSStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs: open bucket %s: %w", bucketName, err)
	}
	return &GridFSStore{bucket: bucket}, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidBlobID, id)
	}
	return oid, nil
}

func (s *GridFSStore) Upload(_ context.Context, name string, r io.Reader, meta Metadata) (string, error) {
	oid, err := s.bucket.UploadFromStream(name, r, options.GridFSUpload().SetMetadata(meta))
	if err != nil {
		return "", fmt.Errorf("gridfs: upload %s: %w", name, err)
	}
	return oid.Hex(), nil
}

func (s *GridFSStore) Open(_ context.Context, id string) (io.ReadCloser, *FileInfo, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("gridfs: open %s: %w", id, err)
	}

	file := stream.GetFile()
	info := &FileInfo{
		ID:         id,
		Name:       file.Name,
		Length:     file.Length,
		UploadedAt: file.UploadDate,
	}
	if len(file.Metadata) > 0 {
		if err := bson.Unmarshal(file.Metadata, &info.Metadata); err != nil {
			_ = stream.Close()
			return nil, nil, fmt.Errorf("gridfs: decode metadata of %s: %w", id, err)
		}
	}
	return stream, info, nil
}

// Link records the owning consultation in the object's metadata.
func (s *GridFSStore) Link(ctx context.Context, id, consultationID string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.bucket.GetFilesCollection().UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"metadata.consultationId": consultationID}},
	)
	if err != nil {
		return fmt.Errorf("gridfs: link %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func (s *GridFSStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.bucket.DeleteContext(ctx, oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("gridfs: delete %s: %w", id, err)
	}
	return nil
}
