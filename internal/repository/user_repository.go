package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, display_name, bio, avatar_url, website,
	followers_count, following_count, posts_count, is_verified, created_at, updated_at`

type UserRepository struct {
	conn DBTX
}

func NewUserRepository(conn DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Bio,
		&user.AvatarURL,
		&user.Website,
		&user.FollowersCount,
		&user.FollowingCount,
		&user.PostsCount,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		user.ID, user.Username, user.DisplayName, user.Bio, user.AvatarURL, user.Website,
		user.FollowersCount, user.FollowingCount, user.PostsCount, user.IsVerified,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

func (r *UserRepository) CreateUserAuth(ctx context.Context, auth domain.UserAuth) error {
	_, err := r.conn.Exec(ctx,
		"INSERT INTO user_auth (user_id, hashed_password, created_at, updated_at) VALUES ($1, $2, $3, $4)",
		auth.UserID, auth.HashedPassword, auth.CreatedAt, auth.UpdatedAt,
	)
	return err
}

func (r *UserRepository) GetUserAuth(ctx context.Context, userID string) (*domain.UserAuth, error) {
	var userAuth domain.UserAuth
	err := r.conn.QueryRow(ctx,
		"SELECT user_id, hashed_password, created_at, updated_at FROM user_auth WHERE user_id = $1",
		userID,
	).Scan(&userAuth.UserID, &userAuth.HashedPassword, &userAuth.CreatedAt, &userAuth.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	return &userAuth, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	err := scanUser(r.conn.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", userID), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByName(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := scanUser(r.conn.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username), &user)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.conn.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at, id")
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// SearchUsers matches term case-insensitively as a substring of the username
// or the display name.
func (r *UserRepository) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE strpos(lower(username), lower($1)) > 0
		    OR strpos(lower(display_name), lower($1)) > 0
		 ORDER BY created_at, id`,
		term,
	)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (r *UserRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate, updatedAt time.Time) error {
	// COALESCE keeps the stored value for every field left nil in the patch.
	tag, err := r.conn.Exec(ctx,
		`UPDATE users SET
			display_name = COALESCE($2, display_name),
			bio          = COALESCE($3, bio),
			avatar_url   = COALESCE($4, avatar_url),
			website      = COALESCE($5, website),
			updated_at   = $6
		 WHERE id = $1`,
		userID, patch.DisplayName, patch.Bio, patch.AvatarURL, patch.Website, updatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) AdjustUserCounter(ctx context.Context, userID string, counter domain.UserCounter, delta int64) error {
	switch counter {
	case domain.UserFollowersCount, domain.UserFollowingCount, domain.UserPostsCount:
	default:
		return fmt.Errorf("unknown user counter %q", counter)
	}

	_, err := r.conn.Exec(ctx,
		fmt.Sprintf("UPDATE users SET %[1]s = GREATEST(%[1]s + $2, 0) WHERE id = $1", counter),
		userID, delta,
	)
	return err
}
