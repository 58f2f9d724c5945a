package repository

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

type FollowRepository struct {
	conn DBTX
}

func NewFollowRepository(conn DBTX) *FollowRepository {
	return &FollowRepository{conn: conn}
}

func (r *FollowRepository) FollowExists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		followerID, followingID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepository) CreateFollow(ctx context.Context, follow domain.Follow) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		follow.FollowerID, follow.FollowingID, follow.CreatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *FollowRepository) DeleteFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND following_id = $2",
		followerID, followingID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *FollowRepository) GetFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT u.id, u.username, u.display_name, u.bio, u.avatar_url, u.website,
		        u.followers_count, u.following_count, u.posts_count, u.is_verified,
		        u.created_at, u.updated_at
		 FROM users u
		 INNER JOIN follows f ON u.id = f.follower_id
		 WHERE f.following_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *FollowRepository) GetFollowees(ctx context.Context, userID string) ([]domain.User, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT u.id, u.username, u.display_name, u.bio, u.avatar_url, u.website,
		        u.followers_count, u.following_count, u.posts_count, u.is_verified,
		        u.created_at, u.updated_at
		 FROM users u
		 INNER JOIN follows f ON u.id = f.following_id
		 WHERE f.follower_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}
