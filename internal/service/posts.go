package service

import (
	"context"
	"errors"

	"github.com/Tetsu-is/social-graph/internal/cache"
	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"go.uber.org/zap"
)

// CreatePost inserts a post with zeroed counters and bumps the author's
// postsCount.
func (s *Service) CreatePost(ctx context.Context, authorID, imageURL, caption, location string) (*domain.Post, error) {
	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	now := s.clock()
	post := &domain.Post{
		ID:        id,
		AuthorID:  authorID,
		ImageURL:  imageURL,
		Caption:   caption,
		Location:  location,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreatePost(ctx, post); err != nil {
			return err
		}
		return q.AdjustUserCounter(ctx, authorID, domain.UserPostsCount, 1)
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return post, nil
}

// GetFeed returns the limit newest posts across all users, each with its
// author. Posts whose author no longer exists are skipped.
func (s *Service) GetFeed(ctx context.Context, limit int) ([]domain.PostWithAuthor, error) {
	limit = clampLimit(limit, DefaultFeedLimit)
	key, cacheable := s.cacheKey(ctx, cache.FeedKey(limit))

	var feed []domain.PostWithAuthor
	if cacheable && s.cacheGet(ctx, key, &feed) {
		return feed, nil
	}

	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		feed, err = q.GetFeedPosts(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cacheSet(ctx, key, feed)
	}
	return feed, nil
}

// GetPost returns the post with its author, or a nil Author when the author
// record is gone.
func (s *Service) GetPost(ctx context.Context, postID string) (*domain.PostWithAuthor, error) {
	key, cacheable := s.cacheKey(ctx, cache.PostKey(postID))

	var cached domain.PostWithAuthor
	if cacheable && s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	var result *domain.PostWithAuthor
	err := s.store.View(ctx, func(q repository.Queries) error {
		post, err := q.GetPost(ctx, postID)
		if err != nil {
			return err
		}
		result = &domain.PostWithAuthor{Post: *post}

		author, err := q.GetUserByID(ctx, post.AuthorID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		result.Author = author
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.cacheSet(ctx, key, result)
	}
	return result, nil
}

func (s *Service) GetUserPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	var posts []domain.Post
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		posts, err = q.GetPostsByAuthor(ctx, userID)
		return err
	})
	return posts, err
}

// GetExplorePosts returns the newest posts without author enrichment.
func (s *Service) GetExplorePosts(ctx context.Context, limit int) ([]domain.Post, error) {
	limit = clampLimit(limit, DefaultExploreLimit)

	var posts []domain.Post
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		posts, err = q.GetRecentPosts(ctx, limit)
		return err
	})
	return posts, err
}

// DeletePost removes the post with every like, comment and save that
// references it and decrements the author's postsCount, all in one
// transaction. Only the author may delete a post. It reports false when the
// post does not exist.
func (s *Service) DeletePost(ctx context.Context, actorID, postID string) (bool, error) {
	var deleted bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		deleted = false

		post, err := q.GetPost(ctx, postID)
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil
		} else if err != nil {
			return err
		}
		if post.AuthorID != actorID {
			return ErrForbidden
		}

		if _, err := q.DeleteLikesByPost(ctx, postID); err != nil {
			return err
		}
		if _, err := q.DeleteCommentsByPost(ctx, postID); err != nil {
			return err
		}
		if _, err := q.DeleteSavedPostsByPost(ctx, postID); err != nil {
			return err
		}
		if err := q.AdjustUserCounter(ctx, post.AuthorID, domain.UserPostsCount, -1); err != nil {
			return err
		}
		deleted, err = q.DeletePost(ctx, postID)
		return err
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.invalidate(ctx)
		s.logger.Info("post deleted", zap.String("post_id", postID), zap.String("actor_id", actorID))
	}
	return deleted, nil
}
