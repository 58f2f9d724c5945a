package repository

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
)

type FeedRepository struct {
	conn DBTX
}

func NewFeedRepository(conn DBTX) *FeedRepository {
	return &FeedRepository{conn: conn}
}

// GetFeedPosts は全ユーザーの最新投稿を投稿者情報付きで取得する
// (グローバル時系列フィード、フォロー関係は見ない)。
// 投稿者が削除済みの投稿は JOIN で落ちる。
func (r *FeedRepository) GetFeedPosts(ctx context.Context, limit int) ([]domain.PostWithAuthor, error) {
	query := `
		SELECT
			p.id,
			p.author_id,
			p.image_url,
			p.caption,
			p.location,
			p.likes_count,
			p.comments_count,
			p.created_at,
			p.updated_at,
			u.id,
			u.username,
			u.display_name,
			u.bio,
			u.avatar_url,
			u.website,
			u.followers_count,
			u.following_count,
			u.posts_count,
			u.is_verified,
			u.created_at,
			u.updated_at
		FROM posts p
		INNER JOIN users u ON p.author_id = u.id
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1
	`
	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []domain.PostWithAuthor{}
	for rows.Next() {
		var post domain.PostWithAuthor
		var author domain.User
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.ImageURL,
			&post.Caption,
			&post.Location,
			&post.LikesCount,
			&post.CommentsCount,
			&post.CreatedAt,
			&post.UpdatedAt,
			&author.ID,
			&author.Username,
			&author.DisplayName,
			&author.Bio,
			&author.AvatarURL,
			&author.Website,
			&author.FollowersCount,
			&author.FollowingCount,
			&author.PostsCount,
			&author.IsVerified,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		post.Author = &author
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}
