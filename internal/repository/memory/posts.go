package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

// newestPostFirst orders like "ORDER BY created_at DESC, id DESC".
func newestPostFirst(a, b domain.Post) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(b.ID, a.ID)
}

func (q *queries) sortedPosts(keep func(domain.Post) bool) []domain.Post {
	posts := []domain.Post{}
	for _, p := range q.t.posts {
		if keep(p) {
			posts = append(posts, p)
		}
	}
	slices.SortFunc(posts, newestPostFirst)
	return posts
}

func (q *queries) CreatePost(_ context.Context, post *domain.Post) error {
	if _, ok := q.t.posts[post.ID]; ok {
		return fmt.Errorf("post %s already exists", post.ID)
	}
	q.t.posts[post.ID] = *post
	return nil
}

func (q *queries) GetPost(_ context.Context, postID string) (*domain.Post, error) {
	p, ok := q.t.posts[postID]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	return &p, nil
}

func (q *queries) GetFeedPosts(_ context.Context, limit int) ([]domain.PostWithAuthor, error) {
	feed := []domain.PostWithAuthor{}
	for _, p := range q.sortedPosts(func(domain.Post) bool { return true }) {
		if len(feed) == limit {
			break
		}
		author, ok := q.t.users[p.AuthorID]
		if !ok {
			continue
		}
		feed = append(feed, domain.PostWithAuthor{Post: p, Author: &author})
	}
	return feed, nil
}

func (q *queries) GetRecentPosts(_ context.Context, limit int) ([]domain.Post, error) {
	posts := q.sortedPosts(func(domain.Post) bool { return true })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (q *queries) GetPostsByAuthor(_ context.Context, authorID string) ([]domain.Post, error) {
	return q.sortedPosts(func(p domain.Post) bool { return p.AuthorID == authorID }), nil
}

func (q *queries) DeletePost(_ context.Context, postID string) (bool, error) {
	if _, ok := q.t.posts[postID]; !ok {
		return false, nil
	}
	delete(q.t.posts, postID)
	return true, nil
}

func (q *queries) AdjustPostCounter(_ context.Context, postID string, counter domain.PostCounter, delta int64) error {
	p, ok := q.t.posts[postID]
	if !ok {
		return nil
	}
	switch counter {
	case domain.PostLikesCount:
		p.LikesCount = max(p.LikesCount+delta, 0)
	case domain.PostCommentsCount:
		p.CommentsCount = max(p.CommentsCount+delta, 0)
	default:
		return fmt.Errorf("unknown post counter %q", counter)
	}
	q.t.posts[postID] = p
	return nil
}
