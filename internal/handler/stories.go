package handler

import (
	"net/http"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getActiveStories(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.GetActiveStories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetStoriesResponse{Groups: groups})
}

func (h *Handler) getUserStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.svc.GetUserStories(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetUserStoriesResponse{Stories: stories})
}

func (h *Handler) createStory(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStoryRequest
	if !h.decode(w, r, &req) {
		return
	}

	story, err := h.svc.CreateStory(r.Context(), currentUser(r), req.ImageURL)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, story)
}

func (h *Handler) viewStory(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.ViewStory(r.Context(), chi.URLParam(r, "id"), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) hasViewedStory(w http.ResponseWriter, r *http.Request) {
	value, err := h.svc.HasViewedStory(r.Context(), chi.URLParam(r, "id"), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CheckResponse{Value: value})
}

func (h *Handler) getStoryViewers(w http.ResponseWriter, r *http.Request) {
	viewers, err := h.svc.GetStoryViewers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetStoryViewersResponse{Viewers: viewers})
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	notifications, err := h.svc.ListNotifications(r.Context(), currentUser(r), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetNotificationsResponse{Notifications: notifications})
}

func (h *Handler) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	updated, err := h.svc.MarkNotificationsRead(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.MarkReadResponse{Updated: updated})
}
