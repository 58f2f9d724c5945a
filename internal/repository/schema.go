package repository

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT PRIMARY KEY,
		username        TEXT NOT NULL UNIQUE,
		display_name    TEXT NOT NULL,
		bio             TEXT NOT NULL DEFAULT '',
		avatar_url      TEXT NOT NULL DEFAULT '',
		website         TEXT NOT NULL DEFAULT '',
		followers_count BIGINT NOT NULL DEFAULT 0,
		following_count BIGINT NOT NULL DEFAULT 0,
		posts_count     BIGINT NOT NULL DEFAULT 0,
		is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_auth (
		user_id         TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		hashed_password TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id             TEXT PRIMARY KEY,
		author_id      TEXT NOT NULL,
		image_url      TEXT NOT NULL,
		caption        TEXT NOT NULL DEFAULT '',
		location       TEXT NOT NULL DEFAULT '',
		likes_count    BIGINT NOT NULL DEFAULT 0,
		comments_count BIGINT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_author_id ON posts(author_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS likes (
		user_id    TEXT NOT NULL,
		post_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		author_id  TEXT NOT NULL,
		post_id    TEXT NOT NULL,
		text       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS follows (
		follower_id  TEXT NOT NULL,
		following_id TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (follower_id, following_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_follows_following_id ON follows(following_id)`,
	`CREATE TABLE IF NOT EXISTS saved_posts (
		user_id    TEXT NOT NULL,
		post_id    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (user_id, post_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_posts_post_id ON saved_posts(post_id)`,
	`CREATE TABLE IF NOT EXISTS stories (
		id          TEXT PRIMARY KEY,
		author_id   TEXT NOT NULL,
		image_url   TEXT NOT NULL,
		expires_at  TIMESTAMPTZ NOT NULL,
		views_count BIGINT NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_stories_expires_at ON stories(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_stories_author_id ON stories(author_id, expires_at)`,
	`CREATE TABLE IF NOT EXISTS story_views (
		story_id  TEXT NOT NULL,
		viewer_id TEXT NOT NULL,
		viewed_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (story_id, viewer_id)
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL,
		actor_id   TEXT NOT NULL,
		type       TEXT NOT NULL CHECK (type IN ('like', 'comment', 'follow')),
		post_id    TEXT NOT NULL DEFAULT '',
		comment_id TEXT NOT NULL DEFAULT '',
		is_read    BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id, is_read, created_at DESC)`,
}

// Migrate creates every table and index that does not exist yet.
func Migrate(ctx context.Context, conn DBTX) error {
	for i, stmt := range schema {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	return nil
}
