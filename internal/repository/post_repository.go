package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/jackc/pgx/v5"
)

const postColumns = "id, author_id, image_url, caption, location, likes_count, comments_count, created_at, updated_at"

type PostRepository struct {
	conn DBTX
}

func NewPostRepository(conn DBTX) *PostRepository {
	return &PostRepository{conn: conn}
}

func scanPost(row pgx.Row, post *domain.Post) error {
	return row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.ImageURL,
		&post.Caption,
		&post.Location,
		&post.LikesCount,
		&post.CommentsCount,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
}

func collectPosts(rows pgx.Rows) ([]domain.Post, error) {
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var post domain.Post
		if err := scanPost(rows, &post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *PostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO posts ("+postColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
		post.ID, post.AuthorID, post.ImageURL, post.Caption, post.Location,
		post.LikesCount, post.CommentsCount, post.CreatedAt, post.UpdatedAt,
	)
	return err
}

func (r *PostRepository) GetPost(ctx context.Context, postID string) (*domain.Post, error) {
	var post domain.Post
	err := scanPost(r.conn.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", postID), &post)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPostNotFound
	} else if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *PostRepository) GetRecentPosts(ctx context.Context, limit int) ([]domain.Post, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC, id DESC LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *PostRepository) GetPostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT "+postColumns+" FROM posts WHERE author_id = $1 ORDER BY created_at DESC, id DESC",
		authorID,
	)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (r *PostRepository) DeletePost(ctx context.Context, postID string) (bool, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostRepository) AdjustPostCounter(ctx context.Context, postID string, counter domain.PostCounter, delta int64) error {
	switch counter {
	case domain.PostLikesCount, domain.PostCommentsCount:
	default:
		return fmt.Errorf("unknown post counter %q", counter)
	}

	_, err := r.conn.Exec(ctx,
		fmt.Sprintf("UPDATE posts SET %[1]s = GREATEST(%[1]s + $2, 0) WHERE id = $1", counter),
		postID, delta,
	)
	return err
}
