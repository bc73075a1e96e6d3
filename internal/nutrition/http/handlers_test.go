package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/auth"
	authdomain "github.com/NuSa-Nutrition-Scan/API-V1/internal/auth/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/docstore"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/domain"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/nutrition/service"
	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

type recordingBlobs struct {
	mu    sync.Mutex
	types []string
	paths []string
}

func (b *recordingBlobs) Store(_ context.Context, path string, content io.Reader, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.Copy(io.Discard, content)
	b.paths = append(b.paths, path)
	b.types = append(b.types, contentType)
	return fmt.Sprintf("https://storage.googleapis.com/nusa/%s/obj%d", path, len(b.paths)), nil
}

type stubPredictor struct{}

func (stubPredictor) PredictFood(context.Context, string) (*domain.Prediction, error) {
	return &domain.Prediction{Label: "Sate", OtherOptions: []string{"Soto"}}, nil
}

func fakeAuth(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		res := result.FromError(authdomain.ErrInvalidCredentials)
		c.AbortWithStatusJSON(res.Code, res)
		return
	}
	auth.SetCurrentUser(c, &authdomain.User{ID: "uid-1"})
	c.Next()
}

func setupRouter(t *testing.T) (*gin.Engine, *docstore.MemoryStore, *recordingBlobs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := docstore.NewMemoryStore(func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, domain.Zone) })
	require.NoError(t, store.PutFood(context.Background(), &domain.Food{
		ID: "FNT004", Name: "Sate", CaloriesFor2x: 1200, CaloriesFor3x: 810, CaloriesFor4x: 600,
	}))
	blobs := &recordingBlobs{}
	svc := service.NewNutritionService(store, store, blobs, stubPredictor{}, 2)

	r := gin.New()
	New(svc).Register(r.Group("/nutrition"), fakeAuth)
	return r, store, blobs
}

func multipartBody(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.WriteField("note", "lunch"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(r http.Handler, method, path string, body io.Reader, contentType string, authed bool) (*httptest.ResponseRecorder, result.Result) {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer token")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res result.Result
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestUploadPhoto(t *testing.T) {
	r, _, blobs := setupRouter(t)

	for i := 0; i < 2; i++ {
		body, ct := multipartBody(t, photoField, pngBytes)
		w, res := do(r, http.MethodPost, "/nutrition/photo", body, ct, true)
		require.Equal(t, http.StatusOK, w.Code)
		data := res.Data.(map[string]any)
		assert.Equal(t, "uid-1", data["user_id"])
		assert.Equal(t, "2024-05-01 09:00:00", data["created_at"])
	}

	body, ct := multipartBody(t, photoField, pngBytes)
	w, res := do(r, http.MethodPost, "/nutrition/photo", body, ct, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quota exceeded", res.Msg)

	assert.Equal(t, []string{"uid-1/nutrition", "uid-1/nutrition"}, blobs.paths)
	assert.Equal(t, []string{"image/png", "image/png"}, blobs.types)

	w, res = do(r, http.MethodGet, "/nutrition/photo/count", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"count": float64(2)}, res.Data)
}

func TestUploadPhoto_RejectedInput(t *testing.T) {
	r, _, blobs := setupRouter(t)

	t.Run("no token", func(t *testing.T) {
		body, ct := multipartBody(t, photoField, pngBytes)
		w, _ := do(r, http.MethodPost, "/nutrition/photo", body, ct, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		body, ct := multipartBody(t, "", nil)
		w, res := do(r, http.MethodPost, "/nutrition/photo", body, ct, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "field required", res.Errors[photoField])
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := multipartBody(t, photoField, []byte("just some text, not a picture"))
		w, res := do(r, http.MethodPost, "/nutrition/photo", body, ct, true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "file must be an image", res.Errors[photoField])
	})

	t.Run("not multipart", func(t *testing.T) {
		w, res := do(r, http.MethodPost, "/nutrition/photo", bytes.NewBufferString(`{}`), "application/json", true)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "field required", res.Errors[photoField])
	})

	assert.Empty(t, blobs.paths)
}

func TestPredictFood(t *testing.T) {
	r, store, blobs := setupRouter(t)
	_, err := store.InitUserDetail(context.Background(), "uid-1")
	require.NoError(t, err)

	body, ct := multipartBody(t, photoField, pngBytes)
	w, res := do(r, http.MethodPost, "/nutrition/photo/predict_food", body, ct, false)
	require.Equal(t, http.StatusOK, w.Code)
	data := res.Data.(map[string]any)
	assert.Equal(t, "Sate", data["name"])
	assert.Equal(t, float64(810), data["calories"])

	body, ct = multipartBody(t, photoField, pngBytes)
	w, _ = do(r, http.MethodPost, "/nutrition/photo/predict_food_secure", body, ct, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	body, ct = multipartBody(t, photoField, pngBytes)
	w, res = do(r, http.MethodPost, "/nutrition/photo/predict_food_secure", body, ct, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), res.Data.(map[string]any)["eat_per_day"])

	assert.Equal(t, []string{service.PredictPath, service.PredictPath}, blobs.paths)
}

func TestGetRecommendation(t *testing.T) {
	r, store, _ := setupRouter(t)
	require.NoError(t, store.InitRecommendation(context.Background(), "uid-1"))

	w, res := do(r, http.MethodGet, "/nutrition/recommendation", nil, "", true)
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Equal(t, "Still generating. Please wait", res.Msg)

	store.PutRecommendation(domain.Recommendation{
		UserID: "uid-1",
		Status: domain.RecommendationReady,
		Top15:  []domain.FoodRef{{ID: "FNT004", Name: "Sate"}},
		Recom:  []map[string]string{{"Lunch": "Sate", "Dinner": "Soto"}},
	})

	w, res = do(r, http.MethodGet, "/nutrition/recommendation", nil, "", true)
	require.Equal(t, http.StatusOK, w.Code)
	data := res.Data.(map[string]any)
	assert.Len(t, data["top15"], 1)
	assert.Len(t, data["recom"], 1)
}
