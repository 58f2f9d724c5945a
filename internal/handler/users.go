package handler

import (
	"net/http"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.Register(r.Context(), domain.NewUser{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	}, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, domain.SignupResponse{User: user, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.Debug("login rejected", zap.String("username", req.Username), zap.Error(err))
		h.fail(w, r, err)
		return
	}

	token, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.LoginResponse{User: user, Token: token})
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), currentUser(r), domain.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Website:     req.Website,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getSavedPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.ListSavedPosts(r.Context(), currentUser(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetPostsResponse{Posts: posts})
}

// listUsers returns every user, or the matches for ?q= when present.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	var (
		users []domain.User
		err   error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		users, err = h.svc.SearchUsers(r.Context(), q)
	} else {
		users, err = h.svc.GetAllUsers(r.Context())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetUsersResponse{Users: users})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) getUserPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.GetUserPosts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetPostsResponse{Posts: posts})
}

func (h *Handler) getFollowers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetFollowers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetUsersResponse{Users: users})
}

func (h *Handler) getFollowing(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.GetFollowing(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetUsersResponse{Users: users})
}

func (h *Handler) follow(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Follow(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) unfollow(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Unfollow(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) isFollowing(w http.ResponseWriter, r *http.Request) {
	value, err := h.svc.IsFollowing(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CheckResponse{Value: value})
}
