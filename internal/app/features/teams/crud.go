// internal/app/features/teams/crud.go
package teams

import (
	"errors"
	"net/http"
	"strings"

	"github.com/filedock/filedock/internal/app/store/teams"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/filedock/filedock/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var namePolicy = bluemonday.StrictPolicy()

type teamRequest struct {
	Name  string                  `json:"name"`
	Perms models.PermissionBundle `json:"perms"`
}

func (req *teamRequest) validate() error {
	req.Name = strings.TrimSpace(namePolicy.Sanitize(req.Name))
	if req.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// ServeList handles GET /teams/.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	teams, err := h.Teams.List(r.Context())
	if err != nil {
		h.Log.Error("team list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list teams")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams})
}

// ServeCreate handles POST /teams/.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	team, err := h.Teams.Create(r.Context(), req.Name, req.Perms)
	if err != nil {
		h.Log.Error("team create failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not create team")
		return
	}

	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "team_create", "", team.Name)
	api.WriteJSON(w, http.StatusCreated, team)
}

// ServeGet handles GET /teams/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}

	team, err := h.Teams.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "team not found")
			return
		}
		h.Log.Error("team get failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not load team")
		return
	}
	api.WriteJSON(w, http.StatusOK, team)
}

// ServeUpdate handles PUT /teams/{id}: replaces name and permissions.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}

	var req teamRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Teams.Update(r.Context(), id, req.Name, req.Perms); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "team not found")
			return
		}
		h.Log.Error("team update failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not update team")
		return
	}

	h.Resolver.Invalidate()
	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "team_update", "", req.Name)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// ServeDelete handles DELETE /teams/{id}. Memberships go with the team.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}

	if _, err := h.Teams.RemoveAllMembers(r.Context(), id); err != nil {
		h.Log.Error("team member cleanup failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete team")
		return
	}
	if err := h.Teams.Delete(r.Context(), id); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "team not found")
			return
		}
		h.Log.Error("team delete failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not delete team")
		return
	}

	h.Resolver.Invalidate()
	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "team_delete", "", id.Hex())
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func teamID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid team id")
		return primitive.NilObjectID, false
	}
	return id, true
}
