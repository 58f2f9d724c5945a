package domain

import "time"

// StoryDuration is how long a story stays visible after creation.
const StoryDuration = 24 * time.Hour

// ============================================
// Domain Models
// ============================================

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	Website        string    `json:"website"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	PostsCount     int64     `json:"posts_count"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserAuth struct {
	UserID         string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// NewUser carries the fields a caller may set when creating a user.
type NewUser struct {
	Username    string
	DisplayName string
	Bio         string
	AvatarURL   string
	Website     string
}

// ProfileUpdate is a partial patch: nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatar_url"`
	Website     *string `json:"website"`
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.Bio == nil && p.AvatarURL == nil && p.Website == nil
}

type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	ImageURL      string    `json:"image_url"`
	Caption       string    `json:"caption"`
	Location      string    `json:"location"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PostWithAuthor struct {
	Post
	Author *User `json:"author"`
}

type Like struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	PostID    string    `json:"post_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentWithAuthor struct {
	Comment
	Author User `json:"author"`
}

type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type SavedPost struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Story struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	ImageURL   string    `json:"image_url"`
	ExpiresAt  time.Time `json:"expires_at"`
	ViewsCount int64     `json:"views_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type StoryState string

const (
	StoryActive  StoryState = "active"
	StoryExpired StoryState = "expired"
)

// State reports the lifecycle state of a persisted story at now. Purged
// stories no longer exist, so they have no state.
func (s Story) State(now time.Time) StoryState {
	if now.Before(s.ExpiresAt) {
		return StoryActive
	}
	return StoryExpired
}

type StoryWithAuthor struct {
	Story
	Author User `json:"author"`
}

// StoryGroup is one entry of the stories bar.
type StoryGroup struct {
	Author  User    `json:"author"`
	Stories []Story `json:"stories"`
}

type StoryView struct {
	StoryID  string    `json:"story_id"`
	ViewerID string    `json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

type StoryViewer struct {
	StoryView
	User User `json:"user"`
}

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	ActorID   string           `json:"actor_id"`
	Type      NotificationType `json:"type"`
	PostID    string           `json:"post_id,omitempty"`
	CommentID string           `json:"comment_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

// ============================================
// Denormalized counters
// ============================================

type UserCounter string

const (
	UserFollowersCount UserCounter = "followers_count"
	UserFollowingCount UserCounter = "following_count"
	UserPostsCount     UserCounter = "posts_count"
)

type PostCounter string

const (
	PostLikesCount    PostCounter = "likes_count"
	PostCommentsCount PostCounter = "comments_count"
)

// ============================================
// Request/Response Models
// ============================================

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type SignupRequest struct {
	Username    string `json:"username" validate:"required,max=30,username"`
	DisplayName string `json:"display_name" validate:"required,max=60"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Bio         string `json:"bio" validate:"max=500"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

type SignupResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,max=60"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,url"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

type CreatePostRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	Caption  string `json:"caption" validate:"max=2200"`
	Location string `json:"location" validate:"max=100"`
}

type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type CreateStoryRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
}

type ToggleResponse struct {
	Changed bool `json:"changed"`
}

type CheckResponse struct {
	Value bool `json:"value"`
}

type GetPostsResponse struct {
	Posts []Post `json:"posts"`
}

type GetFeedResponse struct {
	Posts []PostWithAuthor `json:"posts"`
	Count int              `json:"count"`
}

type GetUsersResponse struct {
	Users []User `json:"users"`
}

type GetCommentsResponse struct {
	Comments []CommentWithAuthor `json:"comments"`
}

type GetStoriesResponse struct {
	Groups []StoryGroup `json:"groups"`
}

type GetUserStoriesResponse struct {
	Stories []Story `json:"stories"`
}

type GetStoryViewersResponse struct {
	Viewers []StoryViewer `json:"viewers"`
}

type GetNotificationsResponse struct {
	Notifications []Notification `json:"notifications"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
