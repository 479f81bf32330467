// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/objstore"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler serves liveness and readiness probes.
type Handler struct {
	Mongo   *mongo.Client
	Objects *objstore.Store
	Log     *zap.Logger
}

// NewHandler constructs a health Handler. A nil objects store skips the
// bucket probe.
func NewHandler(client *mongo.Client, objects *objstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Mongo: client, Objects: objects, Log: logger}
}

// Routes mounts the probe endpoints at the router root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.ServeLive)
	r.Get("/readyz", h.ServeReady)
	return r
}

// ServeLive reports that the process is up.
func (h *Handler) ServeLive(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ServeReady pings the metadata store. A failing ping returns 503 so the
// load balancer stops routing here.
func (h *Handler) ServeReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("readiness ping failed", zap.Error(err))
		api.Error(w, http.StatusServiceUnavailable, "metadata store unreachable")
		return
	}
	if h.Objects != nil {
		if err := h.Objects.Ping(ctx); err != nil {
			h.Log.Warn("bucket ping failed", zap.Error(err))
			api.Error(w, http.StatusServiceUnavailable, "object store unreachable")
			return
		}
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
