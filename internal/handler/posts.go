package handler

import (
	"net/http"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) getFeed(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	posts, err := h.svc.GetFeed(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetFeedResponse{Posts: posts, Count: len(posts)})
}

func (h *Handler) getExplore(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	posts, err := h.svc.GetExplorePosts(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetPostsResponse{Posts: posts})
}

func (h *Handler) getPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.svc.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePostRequest
	if !h.decode(w, r, &req) {
		return
	}

	post, err := h.svc.CreatePost(r.Context(), currentUser(r), req.ImageURL, req.Caption, req.Location)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.DeletePost(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) likePost(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Like(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) unlikePost(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Unlike(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) hasLiked(w http.ResponseWriter, r *http.Request) {
	value, err := h.svc.HasLiked(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CheckResponse{Value: value})
}

func (h *Handler) savePost(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Save(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) unsavePost(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.Unsave(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}

func (h *Handler) hasSaved(w http.ResponseWriter, r *http.Request) {
	value, err := h.svc.HasSaved(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.CheckResponse{Value: value})
}

func (h *Handler) getComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.svc.GetComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.GetCommentsResponse{Comments: comments})
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	var req domain.AddCommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	comment, err := h.svc.AddComment(r.Context(), currentUser(r), chi.URLParam(r, "id"), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	changed, err := h.svc.DeleteComment(r.Context(), currentUser(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.ToggleResponse{Changed: changed})
}
