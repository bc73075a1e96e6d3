package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// ErrObjectNotFound is returned when a delete targets a missing object.
var ErrObjectNotFound = result.NewError(http.StatusBadRequest, "Image not found")

// Object describes a stored blob.
type Object struct {
	Key     string
	Created time.Time
}

// Bucket is the driver contract a blob backend implements.
type Bucket interface {
	Put(ctx context.Context, key string, content io.Reader, contentType string) error
	// Delete removes key, returning ErrObjectNotFound when it does not exist.
	Delete(ctx context.Context, key string) error
	HasPrefix(ctx context.Context, prefix string) (bool, error)
	List(ctx context.Context, prefix string) ([]Object, error)
}

// Store writes and removes blobs under path-addressed names and builds their
// public URLs.
type Store struct {
	bucket  Bucket
	baseURL string
	newName func() string
}

// New creates a Store over bucket. publicBaseURL is the URL prefix objects are
// served from, e.g. https://storage.googleapis.com/<bucket>.
func New(bucket Bucket, publicBaseURL string) *Store {
	return &Store{
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		newName: NewName,
	}
}

// Store writes content under path/<generated name> and returns its public URL.
// Every call creates a new, distinct object.
func (s *Store) Store(ctx context.Context, path string, content io.Reader, contentType string) (string, error) {
	path = strings.Trim(path, "/")
	name := s.newName()
	key := path + "/" + name

	if err := s.bucket.Put(ctx, key, content, contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// DestroyByName deletes path/name. An empty folder means there is nothing to
// delete. The probe and the delete are separate calls, so this is best effort.
func (s *Store) DestroyByName(ctx context.Context, path, name string) error {
	path = strings.Trim(path, "/")

	exists, err := s.bucket.HasPrefix(ctx, path+"/")
	if err != nil {
		return fmt.Errorf("probe %s: %w", path, err)
	}
	if !exists {
		return nil
	}

	key := path + "/" + name
	if err := s.bucket.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// OwnsURL reports whether url points into this store.
func (s *Store) OwnsURL(url string) bool {
	return strings.HasPrefix(url, s.baseURL+"/")
}

// NameFromURL returns the trailing identifier of an object URL.
func NameFromURL(url string) string {
	url = strings.TrimRight(url, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// PurgeOlderThan deletes every object under prefix created before cutoff and
// returns how many were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, prefix string, cutoff time.Time) (int, error) {
	prefix = strings.Trim(prefix, "/") + "/"

	objects, err := s.bucket.List(ctx, prefix)
	if err != nil {
		return 0, fmt.Errorf("list %s: %w", prefix, err)
	}

	removed := 0
	for _, obj := range objects {
		if !obj.Created.Before(cutoff) {
			continue
		}
		if err := s.bucket.Delete(ctx, obj.Key); err != nil {
			if errors.Is(err, ErrObjectNotFound) {
				continue
			}
			return removed, fmt.Errorf("delete %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}
