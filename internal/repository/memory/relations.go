package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

func (q *queries) LikeExists(_ context.Context, userID, postID string) (bool, error) {
	_, ok := q.t.likes[pairKey{userID, postID}]
	return ok, nil
}

func (q *queries) CreateLike(_ context.Context, like domain.Like) (bool, error) {
	key := pairKey{like.UserID, like.PostID}
	if _, ok := q.t.likes[key]; ok {
		return false, nil
	}
	q.t.likes[key] = like
	return true, nil
}

func (q *queries) DeleteLike(_ context.Context, userID, postID string) (bool, error) {
	key := pairKey{userID, postID}
	if _, ok := q.t.likes[key]; !ok {
		return false, nil
	}
	delete(q.t.likes, key)
	return true, nil
}

func (q *queries) DeleteLikesByPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for key := range q.t.likes {
		if key.b == postID {
			delete(q.t.likes, key)
			n++
		}
	}
	return n, nil
}

func (q *queries) CreateComment(_ context.Context, comment *domain.Comment) error {
	if _, ok := q.t.comments[comment.ID]; ok {
		return fmt.Errorf("comment %s already exists", comment.ID)
	}
	q.t.comments[comment.ID] = *comment
	return nil
}

func (q *queries) GetComment(_ context.Context, commentID string) (*domain.Comment, error) {
	c, ok := q.t.comments[commentID]
	if !ok {
		return nil, repository.ErrCommentNotFound
	}
	return &c, nil
}

func (q *queries) GetCommentsByPost(_ context.Context, postID string) ([]domain.CommentWithAuthor, error) {
	comments := []domain.CommentWithAuthor{}
	for _, c := range q.t.comments {
		if c.PostID != postID {
			continue
		}
		author, ok := q.t.users[c.AuthorID]
		if !ok {
			continue
		}
		comments = append(comments, domain.CommentWithAuthor{Comment: c, Author: author})
	}
	slices.SortFunc(comments, func(a, b domain.CommentWithAuthor) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return comments, nil
}

func (q *queries) DeleteComment(_ context.Context, commentID string) (bool, error) {
	if _, ok := q.t.comments[commentID]; !ok {
		return false, nil
	}
	delete(q.t.comments, commentID)
	return true, nil
}

func (q *queries) DeleteCommentsByPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for id, c := range q.t.comments {
		if c.PostID == postID {
			delete(q.t.comments, id)
			n++
		}
	}
	return n, nil
}

func (q *queries) FollowExists(_ context.Context, followerID, followingID string) (bool, error) {
	_, ok := q.t.follows[pairKey{followerID, followingID}]
	return ok, nil
}

func (q *queries) CreateFollow(_ context.Context, follow domain.Follow) (bool, error) {
	key := pairKey{follow.FollowerID, follow.FollowingID}
	if _, ok := q.t.follows[key]; ok {
		return false, nil
	}
	q.t.follows[key] = follow
	return true, nil
}

func (q *queries) DeleteFollow(_ context.Context, followerID, followingID string) (bool, error) {
	key := pairKey{followerID, followingID}
	if _, ok := q.t.follows[key]; !ok {
		return false, nil
	}
	delete(q.t.follows, key)
	return true, nil
}

// followUsers resolves the other side of every follow edge that match
// selects, newest edge first, dropping users that no longer exist.
func (q *queries) followUsers(match func(domain.Follow) (string, bool)) []domain.User {
	edges := []domain.Follow{}
	for _, f := range q.t.follows {
		if _, ok := match(f); ok {
			edges = append(edges, f)
		}
	}
	slices.SortFunc(edges, func(a, b domain.Follow) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.FollowerID+a.FollowingID, b.FollowerID+b.FollowingID)
	})

	users := []domain.User{}
	for _, f := range edges {
		id, _ := match(f)
		if u, ok := q.t.users[id]; ok {
			users = append(users, u)
		}
	}
	return users
}

func (q *queries) GetFollowers(_ context.Context, userID string) ([]domain.User, error) {
	return q.followUsers(func(f domain.Follow) (string, bool) {
		return f.FollowerID, f.FollowingID == userID
	}), nil
}

func (q *queries) GetFollowees(_ context.Context, userID string) ([]domain.User, error) {
	return q.followUsers(func(f domain.Follow) (string, bool) {
		return f.FollowingID, f.FollowerID == userID
	}), nil
}

func (q *queries) SavedPostExists(_ context.Context, userID, postID string) (bool, error) {
	_, ok := q.t.saved[pairKey{userID, postID}]
	return ok, nil
}

func (q *queries) CreateSavedPost(_ context.Context, saved domain.SavedPost) (bool, error) {
	key := pairKey{saved.UserID, saved.PostID}
	if _, ok := q.t.saved[key]; ok {
		return false, nil
	}
	q.t.saved[key] = saved
	return true, nil
}

func (q *queries) DeleteSavedPost(_ context.Context, userID, postID string) (bool, error) {
	key := pairKey{userID, postID}
	if _, ok := q.t.saved[key]; !ok {
		return false, nil
	}
	delete(q.t.saved, key)
	return true, nil
}

func (q *queries) DeleteSavedPostsByPost(_ context.Context, postID string) (int64, error) {
	var n int64
	for key := range q.t.saved {
		if key.b == postID {
			delete(q.t.saved, key)
			n++
		}
	}
	return n, nil
}

func (q *queries) GetSavedPosts(_ context.Context, userID string) ([]domain.Post, error) {
	saved := []domain.SavedPost{}
	for key, s := range q.t.saved {
		if key.a == userID {
			saved = append(saved, s)
		}
	}
	slices.SortFunc(saved, func(a, b domain.SavedPost) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.PostID, a.PostID)
	})

	posts := []domain.Post{}
	for _, s := range saved {
		if p, ok := q.t.posts[s.PostID]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}
