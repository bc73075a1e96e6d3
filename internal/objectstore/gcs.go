package objectstore

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCSBucket is a Bucket backed by Google Cloud Storage.
type GCSBucket struct {
	handle *storage.BucketHandle
}

// NewGCSBucket wraps a bucket handle, e.g. one obtained from the Firebase
// storage client.
func NewGCSBucket(handle *storage.BucketHandle) *GCSBucket {
	return &GCSBucket{handle: handle}
}

func (b *GCSBucket) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	w := b.handle.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (b *GCSBucket) Delete(ctx context.Context, key string) error {
	err := b.handle.Object(key).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return ErrObjectNotFound
	}
	return err
}

func (b *GCSBucket) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	it := b.handle.Objects(ctx, &storage.Query{Prefix: prefix})
	_, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *GCSBucket) List(ctx context.Context, prefix string) ([]Object, error) {
	it := b.handle.Objects(ctx, &storage.Query{Prefix: prefix})

	var out []Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Object{Key: attrs.Name, Created: attrs.Created})
	}
	return out, nil
}
