package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/events"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

// notify writes a notification for recipientID and returns the event to
// publish once the transaction commits. Actions on one's own content produce
// nothing.
func (s *Service) notify(ctx context.Context, q repository.Queries, typ domain.NotificationType, actorID, recipientID, postID, commentID string) (*events.Event, error) {
	if actorID == recipientID {
		return nil, nil
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	n := &domain.Notification{
		ID:        id,
		UserID:    recipientID,
		ActorID:   actorID,
		Type:      typ,
		PostID:    postID,
		CommentID: commentID,
		CreatedAt: s.clock(),
	}
	if err := q.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	return &events.Event{
		Type:        typ,
		ActorID:     actorID,
		RecipientID: recipientID,
		PostID:      postID,
		CommentID:   commentID,
		OccurredAt:  n.CreatedAt,
	}, nil
}

// afterMutation runs the post-commit side effects of a state-changing call.
func (s *Service) afterMutation(ctx context.Context, evt *events.Event) {
	s.invalidate(ctx)
	if evt != nil {
		s.publish(ctx, *evt)
	}
}

// ============================================
// Likes
// ============================================

func (s *Service) likeTx(ctx context.Context, q repository.Queries, userID, postID string) (bool, *events.Event, error) {
	exists, err := q.LikeExists(ctx, userID, postID)
	if err != nil || exists {
		return false, nil, err
	}

	inserted, err := q.CreateLike(ctx, domain.Like{UserID: userID, PostID: postID, CreatedAt: s.clock()})
	if err != nil || !inserted {
		return false, nil, err
	}

	// 投稿が既に削除されていればカウンタ更新と通知はスキップ
	post, err := q.GetPost(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		return true, nil, nil
	} else if err != nil {
		return false, nil, err
	}
	if err := q.AdjustPostCounter(ctx, postID, domain.PostLikesCount, 1); err != nil {
		return false, nil, err
	}

	evt, err := s.notify(ctx, q, domain.NotificationLike, userID, post.AuthorID, postID, "")
	if err != nil {
		return false, nil, err
	}
	return true, evt, nil
}

// Like records that userID likes postID. It reports false when the like
// already exists.
func (s *Service) Like(ctx context.Context, userID, postID string) (bool, error) {
	var liked bool
	var evt *events.Event
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		liked, evt, err = s.likeTx(ctx, q, userID, postID)
		return err
	})
	if err != nil {
		return false, err
	}

	if liked {
		s.afterMutation(ctx, evt)
	}
	return liked, nil
}

// Unlike removes the like and decrements likesCount, never below zero. It
// reports false when there was nothing to remove.
func (s *Service) Unlike(ctx context.Context, userID, postID string) (bool, error) {
	var removed bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		exists, err := q.LikeExists(ctx, userID, postID)
		if err != nil || !exists {
			removed = false
			return err
		}

		removed, err = q.DeleteLike(ctx, userID, postID)
		if err != nil || !removed {
			return err
		}
		return q.AdjustPostCounter(ctx, postID, domain.PostLikesCount, -1)
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.afterMutation(ctx, nil)
	}
	return removed, nil
}

func (s *Service) HasLiked(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		exists, err = q.LikeExists(ctx, userID, postID)
		return err
	})
	return exists, err
}

// ============================================
// Comments
// ============================================

// AddComment always inserts a new comment; a user may comment any number of
// times on the same post.
func (s *Service) AddComment(ctx context.Context, authorID, postID, text string) (*domain.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		ID:        id,
		AuthorID:  authorID,
		PostID:    postID,
		Text:      text,
		CreatedAt: s.clock(),
	}

	var evt *events.Event
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		evt = nil
		if err := q.CreateComment(ctx, comment); err != nil {
			return err
		}

		post, err := q.GetPost(ctx, postID)
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if err := q.AdjustPostCounter(ctx, postID, domain.PostCommentsCount, 1); err != nil {
			return err
		}

		evt, err = s.notify(ctx, q, domain.NotificationComment, authorID, post.AuthorID, postID, comment.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.afterMutation(ctx, evt)
	return comment, nil
}

// GetComments lists a post's comments newest first with their authors.
func (s *Service) GetComments(ctx context.Context, postID string) ([]domain.CommentWithAuthor, error) {
	var comments []domain.CommentWithAuthor
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		comments, err = q.GetCommentsByPost(ctx, postID)
		return err
	})
	return comments, err
}

// DeleteComment removes a comment and decrements the post's commentsCount.
// The comment author and the post author may delete it. It reports false when
// the comment does not exist.
func (s *Service) DeleteComment(ctx context.Context, actorID, commentID string) (bool, error) {
	var deleted bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		deleted = false

		comment, err := q.GetComment(ctx, commentID)
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil
		} else if err != nil {
			return err
		}

		post, err := q.GetPost(ctx, comment.PostID)
		if errors.Is(err, repository.ErrPostNotFound) {
			post = nil
		} else if err != nil {
			return err
		}

		if comment.AuthorID != actorID && (post == nil || post.AuthorID != actorID) {
			return ErrForbidden
		}

		if post != nil {
			if err := q.AdjustPostCounter(ctx, post.ID, domain.PostCommentsCount, -1); err != nil {
				return err
			}
		}
		deleted, err = q.DeleteComment(ctx, commentID)
		return err
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.afterMutation(ctx, nil)
	}
	return deleted, nil
}

// ============================================
// Follows
// ============================================

func (s *Service) followTx(ctx context.Context, q repository.Queries, followerID, followingID string) (bool, *events.Event, error) {
	exists, err := q.FollowExists(ctx, followerID, followingID)
	if err != nil || exists {
		return false, nil, err
	}

	inserted, err := q.CreateFollow(ctx, domain.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   s.clock(),
	})
	if err != nil || !inserted {
		return false, nil, err
	}

	if err := q.AdjustUserCounter(ctx, followerID, domain.UserFollowingCount, 1); err != nil {
		return false, nil, err
	}
	if err := q.AdjustUserCounter(ctx, followingID, domain.UserFollowersCount, 1); err != nil {
		return false, nil, err
	}

	evt, err := s.notify(ctx, q, domain.NotificationFollow, followerID, followingID, "", "")
	if err != nil {
		return false, nil, err
	}
	return true, evt, nil
}

// Follow creates the followerID -> followingID edge. It reports false when the
// edge already exists and fails with ErrSelfFollow when both ids are equal.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	var followed bool
	var evt *events.Event
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		followed, evt, err = s.followTx(ctx, q, followerID, followingID)
		return err
	})
	if err != nil {
		return false, err
	}

	if followed {
		s.afterMutation(ctx, evt)
	}
	return followed, nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) (bool, error) {
	var removed bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		exists, err := q.FollowExists(ctx, followerID, followingID)
		if err != nil || !exists {
			removed = false
			return err
		}

		removed, err = q.DeleteFollow(ctx, followerID, followingID)
		if err != nil || !removed {
			return err
		}
		if err := q.AdjustUserCounter(ctx, followerID, domain.UserFollowingCount, -1); err != nil {
			return err
		}
		return q.AdjustUserCounter(ctx, followingID, domain.UserFollowersCount, -1)
	})
	if err != nil {
		return false, err
	}

	if removed {
		s.afterMutation(ctx, nil)
	}
	return removed, nil
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		exists, err = q.FollowExists(ctx, followerID, followingID)
		return err
	})
	return exists, err
}

// GetFollowers returns the users following userID.
func (s *Service) GetFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	var users []domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		users, err = q.GetFollowers(ctx, userID)
		return err
	})
	return users, err
}

// GetFollowing returns the users userID follows.
func (s *Service) GetFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	var users []domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		users, err = q.GetFollowees(ctx, userID)
		return err
	})
	return users, err
}

// ============================================
// Saved posts
// ============================================

func (s *Service) Save(ctx context.Context, userID, postID string) (bool, error) {
	var saved bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		exists, err := q.SavedPostExists(ctx, userID, postID)
		if err != nil || exists {
			saved = false
			return err
		}
		saved, err = q.CreateSavedPost(ctx, domain.SavedPost{UserID: userID, PostID: postID, CreatedAt: s.clock()})
		return err
	})
	return saved, err
}

func (s *Service) Unsave(ctx context.Context, userID, postID string) (bool, error) {
	var removed bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		exists, err := q.SavedPostExists(ctx, userID, postID)
		if err != nil || !exists {
			removed = false
			return err
		}
		removed, err = q.DeleteSavedPost(ctx, userID, postID)
		return err
	})
	return removed, err
}

func (s *Service) HasSaved(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		exists, err = q.SavedPostExists(ctx, userID, postID)
		return err
	})
	return exists, err
}

// ListSavedPosts returns the posts userID saved, most recently saved first.
func (s *Service) ListSavedPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	var posts []domain.Post
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		posts, err = q.GetSavedPosts(ctx, userID)
		return err
	})
	return posts, err
}
