package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

const cachePingTimeout = time.Second

// Backends names the drivers the API was started with. Cache is nil when
// the food cache is disabled.
type Backends struct {
	DocStore string
	Storage  string
	Cache    *redis.Client
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Version  string            `json:"version"`
	Uptime   string            `json:"uptime"`
	Backends map[string]string `json:"backends"`
}

type HealthHandler struct {
	serviceName string
	version     string
	backends    Backends
	started     time.Time
}

func NewHealthHandler(serviceName, version string, backends Backends) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		backends:    backends,
		started:     time.Now(),
	}
}

// Health always answers 200. A cache outage only marks the service degraded
// because food lookups fall through to the document store.
func (h *HealthHandler) Health(c *gin.Context) {
	cache := h.cacheState(c.Request.Context())

	status := "healthy"
	if cache == "down" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:  status,
		Service: h.serviceName,
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Backends: map[string]string{
			"docstore": h.backends.DocStore,
			"storage":  h.backends.Storage,
			"cache":    cache,
		},
	})
}

func (h *HealthHandler) cacheState(ctx context.Context) string {
	if h.backends.Cache == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, cachePingTimeout)
	defer cancel()
	if err := h.backends.Cache.Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}

// Index answers the bare root with the OK envelope.
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, result.OK())
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/healthz", h.Health)
}
