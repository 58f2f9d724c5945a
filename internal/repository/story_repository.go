package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/jackc/pgx/v5"
)

const storyColumns = "id, author_id, image_url, expires_at, views_count, created_at"

type StoryRepository struct {
	conn DBTX
}

func NewStoryRepository(conn DBTX) *StoryRepository {
	return &StoryRepository{conn: conn}
}

func scanStory(row pgx.Row, s *domain.Story) error {
	return row.Scan(&s.ID, &s.AuthorID, &s.ImageURL, &s.ExpiresAt, &s.ViewsCount, &s.CreatedAt)
}

func (r *StoryRepository) CreateStory(ctx context.Context, story *domain.Story) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO stories ("+storyColumns+") VALUES ($1, $2, $3, $4, $5, $6)",
		story.ID, story.AuthorID, story.ImageURL, story.ExpiresAt, story.ViewsCount, story.CreatedAt,
	)
	return err
}

func (r *StoryRepository) GetStory(ctx context.Context, storyID string) (*domain.Story, error) {
	var story domain.Story
	err := scanStory(r.conn.QueryRow(ctx, "SELECT "+storyColumns+" FROM stories WHERE id = $1", storyID), &story)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStoryNotFound
	} else if err != nil {
		return nil, err
	}
	return &story, nil
}

// GetActiveStories returns every story that has not expired at now, latest
// expiry first, joined with its author.
func (r *StoryRepository) GetActiveStories(ctx context.Context, now time.Time) ([]domain.StoryWithAuthor, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT s.id, s.author_id, s.image_url, s.expires_at, s.views_count, s.created_at,
		        u.id, u.username, u.display_name, u.bio, u.avatar_url, u.website,
		        u.followers_count, u.following_count, u.posts_count, u.is_verified,
		        u.created_at, u.updated_at
		 FROM stories s
		 INNER JOIN users u ON s.author_id = u.id
		 WHERE s.expires_at > $1
		 ORDER BY s.expires_at DESC, s.id DESC`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []domain.StoryWithAuthor{}
	for rows.Next() {
		var s domain.StoryWithAuthor
		err := rows.Scan(
			&s.ID, &s.AuthorID, &s.ImageURL, &s.ExpiresAt, &s.ViewsCount, &s.CreatedAt,
			&s.Author.ID, &s.Author.Username, &s.Author.DisplayName, &s.Author.Bio,
			&s.Author.AvatarURL, &s.Author.Website, &s.Author.FollowersCount,
			&s.Author.FollowingCount, &s.Author.PostsCount, &s.Author.IsVerified,
			&s.Author.CreatedAt, &s.Author.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *StoryRepository) GetActiveStoriesByAuthor(ctx context.Context, authorID string, now time.Time) ([]domain.Story, error) {
	rows, err := r.conn.Query(ctx,
		"SELECT "+storyColumns+" FROM stories WHERE author_id = $1 AND expires_at > $2 ORDER BY created_at DESC, id DESC",
		authorID, now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []domain.Story{}
	for rows.Next() {
		var s domain.Story
		if err := scanStory(rows, &s); err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stories, nil
}

func (r *StoryRepository) GetExpiredStoryIDs(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.conn.Query(ctx, "SELECT id FROM stories WHERE expires_at < $1 ORDER BY expires_at", now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *StoryRepository) DeleteStory(ctx context.Context, storyID string) (bool, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM stories WHERE id = $1", storyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StoryRepository) IncrementStoryViews(ctx context.Context, storyID string) error {
	_, err := r.conn.Exec(ctx, "UPDATE stories SET views_count = views_count + 1 WHERE id = $1", storyID)
	return err
}

func (r *StoryRepository) StoryViewExists(ctx context.Context, storyID, viewerID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM story_views WHERE story_id = $1 AND viewer_id = $2)",
		storyID, viewerID,
	).Scan(&exists)
	return exists, err
}

func (r *StoryRepository) CreateStoryView(ctx context.Context, view domain.StoryView) (bool, error) {
	tag, err := r.conn.Exec(ctx,
		"INSERT INTO story_views (story_id, viewer_id, viewed_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		view.StoryID, view.ViewerID, view.ViewedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *StoryRepository) GetStoryViewers(ctx context.Context, storyID string) ([]domain.StoryViewer, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT v.story_id, v.viewer_id, v.viewed_at,
		        u.id, u.username, u.display_name, u.bio, u.avatar_url, u.website,
		        u.followers_count, u.following_count, u.posts_count, u.is_verified,
		        u.created_at, u.updated_at
		 FROM story_views v
		 INNER JOIN users u ON v.viewer_id = u.id
		 WHERE v.story_id = $1
		 ORDER BY v.viewed_at, v.viewer_id`,
		storyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	viewers := []domain.StoryViewer{}
	for rows.Next() {
		var v domain.StoryViewer
		err := rows.Scan(
			&v.StoryID, &v.ViewerID, &v.ViewedAt,
			&v.User.ID, &v.User.Username, &v.User.DisplayName, &v.User.Bio,
			&v.User.AvatarURL, &v.User.Website, &v.User.FollowersCount,
			&v.User.FollowingCount, &v.User.PostsCount, &v.User.IsVerified,
			&v.User.CreatedAt, &v.User.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		viewers = append(viewers, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return viewers, nil
}

func (r *StoryRepository) DeleteStoryViews(ctx context.Context, storyID string) (int64, error) {
	tag, err := r.conn.Exec(ctx, "DELETE FROM story_views WHERE story_id = $1", storyID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
