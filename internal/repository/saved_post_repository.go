package repository

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

type SavedPostRepository struct {
	conn DBTX
}

func NewSavedPostRepository(conn DBTX) *SavedPostRepository {
	return &SavedPostRepository{conn: conn}
}

func (r *SavedPostRepository) SavedPostExists(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM saved_posts WHERE user_id = $1 AND post_id = $2)",
		userID, postID,
	).Scan(&exists)
	return exists, err
}

func (r *SavedPostRepository) CreateSavedPost(ctx context.Context, saved domain.SavedPost) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"INSERT INTO saved_posts (user_id, post_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		saved.UserID, saved.PostID, saved.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SavedPostRepository) DeleteSavedPost(ctx context.Context, userID, postID string) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"DELETE FROM saved_posts WHERE user_id = $1 AND post_id = $2",
		userID, postID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SavedPostRepository) DeleteSavedPostsByPost(ctx context.Context, postID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM saved_posts WHERE post_id = $1", postID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetSavedPosts returns the posts a user saved, most recently saved first.
func (r *SavedPostRepository) GetSavedPosts(ctx context.Context, userID string) ([]domain.Post, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT p.id, p.author_id, p.image_url, p.caption, p.location,
		        p.likes_count, p.comments_count, p.created_at, p.updated_at
		 FROM posts p
		 INNER JOIN saved_posts s ON p.id = s.post_id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}
