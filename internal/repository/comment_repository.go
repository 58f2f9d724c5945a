package repository

import (
	"context"
	"errors"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CommentRepository struct {
	conn DBTX
}

func NewCommentRepository(conn DBTX) *CommentRepository {
	return &CommentRepository{conn: conn}
}

func (r *CommentRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO comments (id, author_id, post_id, text, created_at) VALUES ($1, $2, $3, $4, $5)",
		comment.ID, comment.AuthorID, comment.PostID, comment.Text, comment.CreatedAt,
	)
	return err
}

func (r *CommentRepository) GetComment(ctx context.Context, commentID string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.conn.QueryRow(ctx,
		"SELECT id, author_id, post_id, text, created_at FROM comments WHERE id = $1",
		commentID,
	).Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Text, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCommentNotFound
	} else if err != nil {
		return nil, err
	}

	return &c, nil
}

// GetCommentsByPost returns the post's comments newest first, each joined
// with its author.
func (r *CommentRepository) GetCommentsByPost(ctx context.Context, postID string) ([]domain.CommentWithAuthor, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT c.id, c.author_id, c.post_id, c.text, c.created_at,
		        u.id, u.username, u.display_name, u.bio, u.avatar_url, u.website,
		        u.followers_count, u.following_count, u.posts_count, u.is_verified,
		        u.created_at, u.updated_at
		 FROM comments c
		 INNER JOIN users u ON c.author_id = u.id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at DESC, c.id DESC`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []domain.CommentWithAuthor{}
	for rows.Next() {
		var c domain.CommentWithAuthor
		err := rows.Scan(
			&c.ID, &c.AuthorID, &c.PostID, &c.Text, &c.CreatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.DisplayName, &c.Author.Bio,
			&c.Author.AvatarURL, &c.Author.Website, &c.Author.FollowersCount,
			&c.Author.FollowingCount, &c.Author.PostsCount, &c.Author.IsVerified,
			&c.Author.CreatedAt, &c.Author.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *CommentRepository) DeleteComment(ctx context.Context, commentID string) (bool, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM comments WHERE id = $1", commentID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *CommentRepository) DeleteCommentsByPost(ctx context.Context, postID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM comments WHERE post_id = $1", postID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
