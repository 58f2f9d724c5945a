package handler

import (
	"net/http"
	"regexp"
	"time"

	"github.com/Tetsu-is/social-graph/internal/auth"
	"github.com/Tetsu-is/social-graph/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

type Handler struct {
	svc       *service.Service
	auth      *auth.Authenticator
	validate  *validator.Validate
	logger    *zap.Logger
	latency   *LatencyRecorder
	startedAt time.Time
}

func New(svc *service.Service, authenticator *auth.Authenticator, logger *zap.Logger) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("username", validateUsername)

	return &Handler{
		svc:       svc,
		auth:      authenticator,
		validate:  v,
		logger:    logger,
		latency:   NewLatencyRecorder(),
		startedAt: time.Now(),
	}
}

// Routes builds the router. allowedOrigins configures CORS.
func (h *Handler) Routes(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(h.latency.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	r.Get("/healthz", h.healthz)

	r.Post("/auth/signup", h.signup)
	r.Post("/auth/login", h.login)

	r.Get("/feed", h.getFeed)
	r.Get("/explore", h.getExplore)
	r.Get("/posts/{id}", h.getPost)
	r.Get("/posts/{id}/comments", h.getComments)
	r.Get("/users", h.listUsers)
	r.Get("/users/by-username/{username}", h.getUserByUsername)
	r.Get("/users/{id}", h.getUser)
	r.Get("/users/{id}/posts", h.getUserPosts)
	r.Get("/users/{id}/followers", h.getFollowers)
	r.Get("/users/{id}/following", h.getFollowing)
	r.Get("/users/{id}/stories", h.getUserStories)
	r.Get("/stories", h.getActiveStories)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.Middleware(func(w http.ResponseWriter, err error) {
			writeError(w, http.StatusUnauthorized, err.Error())
		}))

		r.Get("/me", h.getMe)
		r.Patch("/me", h.updateMe)
		r.Get("/me/saved", h.getSavedPosts)

		r.Post("/posts", h.createPost)
		r.Delete("/posts/{id}", h.deletePost)
		r.Post("/posts/{id}/like", h.likePost)
		r.Delete("/posts/{id}/like", h.unlikePost)
		r.Get("/posts/{id}/like", h.hasLiked)
		r.Post("/posts/{id}/save", h.savePost)
		r.Delete("/posts/{id}/save", h.unsavePost)
		r.Get("/posts/{id}/save", h.hasSaved)
		r.Post("/posts/{id}/comments", h.addComment)
		r.Delete("/comments/{id}", h.deleteComment)

		r.Post("/users/{id}/follow", h.follow)
		r.Delete("/users/{id}/follow", h.unfollow)
		r.Get("/users/{id}/follow", h.isFollowing)

		r.Post("/stories", h.createStory)
		r.Post("/stories/{id}/view", h.viewStory)
		r.Get("/stories/{id}/view", h.hasViewedStory)
		r.Get("/stories/{id}/viewers", h.getStoryViewers)

		r.Get("/notifications", h.listNotifications)
		r.Post("/notifications/read", h.markNotificationsRead)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Latency: h.latency.Snapshot(),
	})
}

type HealthResponse struct {
	Status  string          `json:"status"`
	Uptime  string          `json:"uptime"`
	Latency LatencySnapshot `json:"latency"`
}
