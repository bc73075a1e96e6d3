package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	firebase "firebase.google.com/go/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
)

// fakeProvider mimics the user-management endpoints the Admin SDK talks to
// when FIREBASE_AUTH_EMULATOR_HOST is set.
type fakeProvider struct {
	mu       sync.Mutex
	created  []map[string]any
	updated  []map[string]any
	failNext string
}

func (p *fakeProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	p.mu.Lock()
	defer p.mu.Unlock()

	fail := func(status int, code string) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": status, "message": code}})
	}

	const prefix = "/identitytoolkit.googleapis.com/v1/projects/nusa-test"
	switch r.URL.Path {
	case prefix + "/accounts":
		switch body["email"] {
		case "taken@nusa.id":
			fail(http.StatusBadRequest, "EMAIL_EXISTS")
			return
		case "denied@nusa.id":
			fail(http.StatusForbidden, "INSUFFICIENT_PERMISSION")
			return
		}
		p.created = append(p.created, body)
		_ = json.NewEncoder(w).Encode(map[string]any{"localId": "uid-new"})
	case prefix + "/accounts:update":
		if body["localId"] == "ghost" {
			fail(http.StatusBadRequest, "USER_NOT_FOUND")
			return
		}
		if p.failNext != "" {
			code := p.failNext
			p.failNext = ""
			fail(http.StatusForbidden, code)
			return
		}
		p.updated = append(p.updated, body)
		_ = json.NewEncoder(w).Encode(map[string]any{"localId": body["localId"]})
	case prefix + "/accounts:lookup":
		ids, _ := body["localId"].([]any)
		uid := "uid-new"
		if len(ids) > 0 {
			uid, _ = ids[0].(string)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"users": []any{map[string]any{"localId": uid}}})
	default:
		http.NotFound(w, r)
	}
}

func newAdminAdapter(t *testing.T) (*Adapter, *fakeProvider) {
	t.Helper()

	provider := &fakeProvider{}
	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)
	t.Setenv("FIREBASE_AUTH_EMULATOR_HOST", strings.TrimPrefix(srv.URL, "http://"))

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: "nusa-test"})
	require.NoError(t, err)
	client, err := app.Auth(ctx)
	require.NoError(t, err)

	return New(client, nil), provider
}

func TestAdapter_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("creates verified account", func(t *testing.T) {
		a, provider := newAdminAdapter(t)

		uid, err := a.CreateUser(ctx, "Alice", "alice@nusa.id", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "uid-new", uid)

		require.Len(t, provider.created, 1)
		assert.Equal(t, "Alice", provider.created[0]["displayName"])
		assert.Equal(t, true, provider.created[0]["emailVerified"])
		assert.Equal(t, DefaultPhotoURL, provider.created[0]["photoUrl"])
	})

	t.Run("email taken", func(t *testing.T) {
		a, _ := newAdminAdapter(t)

		_, err := a.CreateUser(ctx, "Alice", "taken@nusa.id", "secret123")
		assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})

	t.Run("provider failure", func(t *testing.T) {
		a, _ := newAdminAdapter(t)

		_, err := a.CreateUser(ctx, "Alice", "denied@nusa.id", "secret123")
		assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	})

	t.Run("malformed input never reaches provider", func(t *testing.T) {
		a, provider := newAdminAdapter(t)

		_, err := a.CreateUser(ctx, "Alice", "not-an-email", "secret123")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = a.CreateUser(ctx, "Alice", "alice@nusa.id", "123")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		assert.Empty(t, provider.created)
	})
}

func TestAdapter_UpdateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("name only", func(t *testing.T) {
		a, provider := newAdminAdapter(t)

		require.NoError(t, a.UpdateUser(ctx, "uid-1", "Alice B", ""))
		require.Len(t, provider.updated, 1)
		assert.Equal(t, "Alice B", provider.updated[0]["displayName"])
		assert.NotContains(t, provider.updated[0], "photoUrl")
	})

	t.Run("name and photo", func(t *testing.T) {
		a, provider := newAdminAdapter(t)

		require.NoError(t, a.UpdateUser(ctx, "uid-1", "Alice", "https://storage.googleapis.com/b/uid-1/profile/x"))
		require.Len(t, provider.updated, 1)
		assert.Equal(t, "https://storage.googleapis.com/b/uid-1/profile/x", provider.updated[0]["photoUrl"])
	})

	t.Run("unknown user", func(t *testing.T) {
		a, _ := newAdminAdapter(t)

		assert.ErrorIs(t, a.UpdateUser(ctx, "ghost", "Alice", ""), domain.ErrInvalidUser)
		assert.ErrorIs(t, a.UpdateUser(ctx, "", "Alice", ""), domain.ErrInvalidUser)
	})

	t.Run("provider failure is unexpected", func(t *testing.T) {
		a, provider := newAdminAdapter(t)
		provider.failNext = "INSUFFICIENT_PERMISSION"

		err := a.UpdateUser(ctx, "uid-1", "Alice", "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidUser)
	})
}

func TestAdapter_RevokeAllTokens(t *testing.T) {
	ctx := context.Background()
	a, provider := newAdminAdapter(t)

	require.NoError(t, a.RevokeAllTokens(ctx, "uid-1"))
	require.Len(t, provider.updated, 1)
	assert.Contains(t, provider.updated[0], "validSince")

	assert.ErrorIs(t, a.RevokeAllTokens(ctx, ""), domain.ErrBadCredentials)
	assert.ErrorIs(t, a.RevokeAllTokens(ctx, "ghost"), domain.ErrBadCredentials)
}
