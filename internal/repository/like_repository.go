package repository

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

type LikeRepository struct {
	conn DBTX
}

func NewLikeRepository(conn DBTX) *LikeRepository {
	return &LikeRepository{conn: conn}
}

func (r *LikeRepository) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)",
		userID, postID,
	).Scan(&exists)
	return exists, err
}

func (r *LikeRepository) CreateLike(ctx context.Context, like domain.Like) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		like.UserID, like.PostID, like.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LikeRepository) DeleteLike(ctx context.Context, userID, postID string) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"DELETE FROM likes WHERE user_id = $1 AND post_id = $2",
		userID, postID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LikeRepository) DeleteLikesByPost(ctx context.Context, postID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM likes WHERE post_id = $1", postID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
