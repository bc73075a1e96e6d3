package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictFood(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/run/predict", r.URL.Path)

		var req predictRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"https://storage.googleapis.com/b/tmp/predict/abc"}, req.Data)

		_, _ = w.Write([]byte(`{"data":[{"label":"Nasi Goreng","confidences":[
			{"label":"Nasi Goreng","confidence":0.91},
			{"label":"Mie Goreng","confidence":0.05},
			{"label":"Lontong","confidence":0.02}]}],"duration":0.3}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	pred, err := c.PredictFood(context.Background(), "https://storage.googleapis.com/b/tmp/predict/abc")
	require.NoError(t, err)
	assert.Equal(t, "Nasi Goreng", pred.Label)
	assert.Equal(t, []string{"Mie Goreng", "Lontong"}, pred.OtherOptions)
}

func TestPredictFood_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "no label", status: http.StatusOK, body: `{"data":[]}`, wantErr: ErrEmptyPrediction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).PredictFood(context.Background(), "u")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
