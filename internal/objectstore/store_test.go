package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]Object
	data    map[string]string
	deletes []string
	putErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]Object{}, data: map[string]string{}}
}

func (b *fakeBucket) Put(_ context.Context, key string, content io.Reader, _ string) error {
	if b.putErr != nil {
		return b.putErr
	}
	raw, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = Object{Key: key, Created: time.Now()}
	b.data[key] = string(raw)
	return nil
}

func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, key)
	if _, ok := b.objects[key]; !ok {
		return ErrObjectNotFound
	}
	delete(b.objects, key)
	delete(b.data, key)
	return nil
}

func (b *fakeBucket) HasPrefix(_ context.Context, prefix string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (b *fakeBucket) List(_ context.Context, prefix string) ([]Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Object
	for k, o := range b.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, o)
		}
	}
	return out, nil
}

const base = "https://storage.googleapis.com/nusa-bucket"

func TestStore_WritesUniqueObjects(t *testing.T) {
	bucket := newFakeBucket()
	s := New(bucket, base+"/")

	url1, err := s.Store(context.Background(), "/user-1/", strings.NewReader("a"), "image/jpeg")
	require.NoError(t, err)
	url2, err := s.Store(context.Background(), "user-1", strings.NewReader("b"), "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, url1, url2)
	assert.True(t, strings.HasPrefix(url1, base+"/user-1/"))
	assert.Len(t, NameFromURL(url1), NameLength)
	assert.Len(t, bucket.objects, 2)
	assert.Equal(t, "a", bucket.data["user-1/"+NameFromURL(url1)])
}

func TestStore_PutFailure(t *testing.T) {
	bucket := newFakeBucket()
	bucket.putErr = errors.New("backend down")
	s := New(bucket, base)

	url, err := s.Store(context.Background(), "user-1", strings.NewReader("a"), "image/png")
	require.Error(t, err)
	assert.Empty(t, url)
}

func TestDestroyByName(t *testing.T) {
	ctx := context.Background()

	t.Run("empty folder is a no-op", func(t *testing.T) {
		bucket := newFakeBucket()
		s := New(bucket, base)

		require.NoError(t, s.DestroyByName(ctx, "user-9", "missing"))
		assert.Empty(t, bucket.deletes)
	})

	t.Run("missing object in existing folder", func(t *testing.T) {
		bucket := newFakeBucket()
		s := New(bucket, base)
		_, err := s.Store(ctx, "user-1", strings.NewReader("a"), "image/png")
		require.NoError(t, err)

		err = s.DestroyByName(ctx, "user-1", "nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("deletes existing object", func(t *testing.T) {
		bucket := newFakeBucket()
		s := New(bucket, base)
		url, err := s.Store(ctx, "user-1", strings.NewReader("a"), "image/png")
		require.NoError(t, err)

		require.NoError(t, s.DestroyByName(ctx, "user-1", NameFromURL(url)))
		assert.Empty(t, bucket.objects)
	})
}

func TestOwnsURLAndNameFromURL(t *testing.T) {
	s := New(newFakeBucket(), base)

	assert.True(t, s.OwnsURL(base+"/u/abc"))
	assert.False(t, s.OwnsURL("https://static.vecteezy.com/default.jpg"))
	assert.False(t, s.OwnsURL(base+"-other/u/abc"))

	assert.Equal(t, "abc", NameFromURL(base+"/u/abc"))
	assert.Equal(t, "abc", NameFromURL(base+"/u/abc/"))
	assert.Equal(t, "plain", NameFromURL("plain"))
}

func TestPurgeOlderThan(t *testing.T) {
	bucket := newFakeBucket()
	s := New(bucket, base)
	now := time.Now()

	bucket.objects["tmp/predict/old"] = Object{Key: "tmp/predict/old", Created: now.Add(-48 * time.Hour)}
	bucket.objects["tmp/predict/new"] = Object{Key: "tmp/predict/new", Created: now}
	bucket.objects["user-1/keep"] = Object{Key: "user-1/keep", Created: now.Add(-48 * time.Hour)}

	n, err := s.PurgeOlderThan(context.Background(), "tmp/predict", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, bucket.objects, "tmp/predict/new")
	assert.Contains(t, bucket.objects, "user-1/keep")
	assert.NotContains(t, bucket.objects, "tmp/predict/old")
}

func TestNewName(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := NewName()
		require.Len(t, n, NameLength)
		for _, r := range n {
			require.True(t, strings.ContainsRune(shortuuid.DefaultAlphabet, r), "unexpected rune %q", r)
		}
		require.False(t, seen[n])
		seen[n] = true
	}
}

func TestNewName_ZeroUUIDPadsToFixedLength(t *testing.T) {
	assert.Equal(t, strings.Repeat("2", NameLength), shortuuid.DefaultEncoder.Encode(uuid.Nil))
}
