package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(upstreamCalls.WithLabelValues("ml", "error"))
	RecordUpstreamCall("ml", 20*time.Millisecond, errors.New("timeout"))
	assert.Equal(t, before+1, testutil.ToFloat64(upstreamCalls.WithLabelValues("ml", "error")))

	before = testutil.ToFloat64(quotaRejections)
	RecordQuotaRejection()
	assert.Equal(t, before+1, testutil.ToFloat64(quotaRejections))

	before = testutil.ToFloat64(compensations.WithLabelValues("ok"))
	RecordCompensation(nil)
	assert.Equal(t, before+1, testutil.ToFloat64(compensations.WithLabelValues("ok")))

	before = testutil.ToFloat64(purgedObjects)
	RecordPurged(3)
	assert.Equal(t, before+3, testutil.ToFloat64(purgedObjects))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/nutrition/photo/count", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/metrics", gin.WrapH(Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nutrition/photo/count", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/nutrition/photo/count", "418")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "nusa_http_requests_total"))
}
