// internal/app/features/teams/members.go
package teams

import (
	"errors"
	"net/http"

	"github.com/filedock/filedock/internal/app/store/teams"
	"github.com/filedock/filedock/internal/app/system/api"
	"github.com/filedock/filedock/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type addMemberRequest struct {
	Username string `json:"username"`
}

// ServeMembers handles GET /teams/{id}/members.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}

	members, err := h.Teams.Members(r.Context(), id)
	if err != nil {
		h.Log.Error("member list failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not list members")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}

// ServeAddMember handles POST /teams/{id}/members.
func (h *Handler) ServeAddMember(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := api.Decode(r, &req); err != nil || req.Username == "" {
		api.Error(w, http.StatusBadRequest, "username is required")
		return
	}

	if err := h.Teams.AddMember(r.Context(), id, req.Username); err != nil {
		switch {
		case errors.Is(err, teamstore.ErrNotFound), errors.Is(err, teamstore.ErrUnknownUser):
			api.Error(w, http.StatusNotFound, "team or user not found")
		case errors.Is(err, teamstore.ErrDuplicateMembership):
			api.Error(w, http.StatusConflict, "already a member")
		default:
			h.Log.Error("add member failed", zap.Error(err))
			api.Error(w, http.StatusInternalServerError, "could not add member")
		}
		return
	}

	h.Resolver.Invalidate()
	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "team_member_add", "", req.Username)
	api.WriteJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// ServeRemoveMember handles DELETE /teams/{id}/members/{username}.
func (h *Handler) ServeRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, ok := teamID(w, r)
	if !ok {
		return
	}
	member := chi.URLParam(r, "username")

	if err := h.Teams.RemoveMember(r.Context(), id, member); err != nil {
		if errors.Is(err, teamstore.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "membership not found")
			return
		}
		h.Log.Error("remove member failed", zap.Error(err))
		api.Error(w, http.StatusInternalServerError, "could not remove member")
		return
	}

	h.Resolver.Invalidate()
	username, _, _ := authz.UserCtx(r)
	h.Audit.Record(r.Context(), username, "team_member_remove", "", member)
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
