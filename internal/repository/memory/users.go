package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

func byCreatedAsc(a, b domain.User) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func (q *queries) CreateUser(_ context.Context, user *domain.User) error {
	for _, u := range q.t.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUser
		}
	}
	if _, ok := q.t.users[user.ID]; ok {
		return fmt.Errorf("user %s already exists", user.ID)
	}
	q.t.users[user.ID] = *user
	return nil
}

func (q *queries) CreateUserAuth(_ context.Context, auth domain.UserAuth) error {
	if _, ok := q.t.users[auth.UserID]; !ok {
		return repository.ErrUserNotFound
	}
	q.t.auth[auth.UserID] = auth
	return nil
}

func (q *queries) GetUserAuth(_ context.Context, userID string) (*domain.UserAuth, error) {
	a, ok := q.t.auth[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &a, nil
}

func (q *queries) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := q.t.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (q *queries) GetUserByName(_ context.Context, username string) (*domain.User, error) {
	for _, u := range q.t.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (q *queries) ListUsers(_ context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(q.t.users))
	for _, u := range q.t.users {
		users = append(users, u)
	}
	slices.SortFunc(users, byCreatedAsc)
	return users, nil
}

func (q *queries) SearchUsers(_ context.Context, term string) ([]domain.User, error) {
	term = strings.ToLower(term)
	users := []domain.User{}
	for _, u := range q.t.users {
		if strings.Contains(strings.ToLower(u.Username), term) ||
			strings.Contains(strings.ToLower(u.DisplayName), term) {
			users = append(users, u)
		}
	}
	slices.SortFunc(users, byCreatedAsc)
	return users, nil
}

func (q *queries) CountUsers(_ context.Context) (int64, error) {
	return int64(len(q.t.users)), nil
}

func (q *queries) UpdateProfile(_ context.Context, userID string, patch domain.ProfileUpdate, updatedAt time.Time) error {
	u, ok := q.t.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if patch.DisplayName != nil {
		u.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		u.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	if patch.Website != nil {
		u.Website = *patch.Website
	}
	u.UpdatedAt = updatedAt
	q.t.users[userID] = u
	return nil
}

func (q *queries) AdjustUserCounter(_ context.Context, userID string, counter domain.UserCounter, delta int64) error {
	u, ok := q.t.users[userID]
	if !ok {
		return nil
	}
	switch counter {
	case domain.UserFollowersCount:
		u.FollowersCount = max(u.FollowersCount+delta, 0)
	case domain.UserFollowingCount:
		u.FollowingCount = max(u.FollowingCount+delta, 0)
	case domain.UserPostsCount:
		u.PostsCount = max(u.PostsCount+delta, 0)
	default:
		return fmt.Errorf("unknown user counter %q", counter)
	}
	q.t.users[userID] = u
	return nil
}
