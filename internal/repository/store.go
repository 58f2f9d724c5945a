package repository

import (
	"context"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

// Store runs query functions against a backing store. Everything fn does
// inside InTx commits or rolls back as one unit; fn may be invoked more than
// once when the store retries a conflicting transaction.
type Store interface {
	InTx(ctx context.Context, fn func(q Queries) error) error
	View(ctx context.Context, fn func(q Queries) error) error
}

type Queries interface {
	UserQueries
	PostQueries
	LikeQueries
	CommentQueries
	FollowQueries
	SavedPostQueries
	StoryQueries
	NotificationQueries
}

type UserQueries interface {
	CreateUser(ctx context.Context, user *domain.User) error
	CreateUserAuth(ctx context.Context, auth domain.UserAuth) error
	GetUserAuth(ctx context.Context, userID string) (*domain.UserAuth, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByName(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate, updatedAt time.Time) error
	// AdjustUserCounter adds delta to the counter, flooring at zero. A missing
	// user is not an error.
	AdjustUserCounter(ctx context.Context, userID string, counter domain.UserCounter, delta int64) error
}

type PostQueries interface {
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, postID string) (*domain.Post, error)
	GetFeedPosts(ctx context.Context, limit int) ([]domain.PostWithAuthor, error)
	GetRecentPosts(ctx context.Context, limit int) ([]domain.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
	DeletePost(ctx context.Context, postID string) (bool, error)
	AdjustPostCounter(ctx context.Context, postID string, counter domain.PostCounter, delta int64) error
}

type LikeQueries interface {
	LikeExists(ctx context.Context, userID, postID string) (bool, error)
	CreateLike(ctx context.Context, like domain.Like) (bool, error)
	DeleteLike(ctx context.Context, userID, postID string) (bool, error)
	DeleteLikesByPost(ctx context.Context, postID string) (int64, error)
}

type CommentQueries interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, commentID string) (*domain.Comment, error)
	GetCommentsByPost(ctx context.Context, postID string) ([]domain.CommentWithAuthor, error)
	DeleteComment(ctx context.Context, commentID string) (bool, error)
	DeleteCommentsByPost(ctx context.Context, postID string) (int64, error)
}

type FollowQueries interface {
	FollowExists(ctx context.Context, followerID, followingID string) (bool, error)
	CreateFollow(ctx context.Context, follow domain.Follow) (bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]domain.User, error)
	GetFollowees(ctx context.Context, userID string) ([]domain.User, error)
}

type SavedPostQueries interface {
	SavedPostExists(ctx context.Context, userID, postID string) (bool, error)
	CreateSavedPost(ctx context.Context, saved domain.SavedPost) (bool, error)
	DeleteSavedPost(ctx context.Context, userID, postID string) (bool, error)
	DeleteSavedPostsByPost(ctx context.Context, postID string) (int64, error)
	GetSavedPosts(ctx context.Context, userID string) ([]domain.Post, error)
}

type StoryQueries interface {
	CreateStory(ctx context.Context, story *domain.Story) error
	GetStory(ctx context.Context, storyID string) (*domain.Story, error)
	GetActiveStories(ctx context.Context, now time.Time) ([]domain.StoryWithAuthor, error)
	GetActiveStoriesByAuthor(ctx context.Context, authorID string, now time.Time) ([]domain.Story, error)
	GetExpiredStoryIDs(ctx context.Context, now time.Time) ([]string, error)
	DeleteStory(ctx context.Context, storyID string) (bool, error)
	IncrementStoryViews(ctx context.Context, storyID string) error

	StoryViewExists(ctx context.Context, storyID, viewerID string) (bool, error)
	CreateStoryView(ctx context.Context, view domain.StoryView) (bool, error)
	GetStoryViewers(ctx context.Context, storyID string) ([]domain.StoryViewer, error)
	DeleteStoryViews(ctx context.Context, storyID string) (int64, error)
}

type NotificationQueries interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	GetNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID string) (int64, error)
}
