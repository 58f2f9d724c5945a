package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (s *Service) newUser(in domain.NewUser) (*domain.User, error) {
	username := normalizeUsername(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	now := s.clock()

	return &domain.User{
		ID:          id,
		Username:    username,
		DisplayName: in.DisplayName,
		Bio:         in.Bio,
		AvatarURL:   in.AvatarURL,
		Website:     in.Website,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CreateUser inserts a user with zeroed counters. The username is stored
// lowercased; a taken username fails with repository.ErrDuplicateUser.
func (s *Service) CreateUser(ctx context.Context, in domain.NewUser) (*domain.User, error) {
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		return q.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a user together with its password credentials.
func (s *Service) Register(ctx context.Context, in domain.NewUser, password string) (*domain.User, error) {
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.CreateUser(ctx, user); err != nil {
			return err
		}
		return q.CreateUserAuth(ctx, domain.UserAuth{
			UserID:         user.ID,
			HashedPassword: string(hashed),
			CreatedAt:      user.CreatedAt,
			UpdatedAt:      user.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login checks username and password. Unknown users and wrong passwords both
// fail with ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var user *domain.User
	var auth *domain.UserAuth
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		user, err = q.GetUserByName(ctx, normalizeUsername(username))
		if err != nil {
			return err
		}
		auth, err = q.GetUserAuth(ctx, user.ID)
		return err
	})
	if errors.Is(err, repository.ErrUserNotFound) {
		// unknown usernames pay the same bcrypt cost as known ones
		_ = s.comparePassword(s.missingUserHash(), []byte(password))
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, err
	}

	if err := s.comparePassword([]byte(auth.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// missingUserHash is a bcrypt hash at the configured cost that no password
// is expected to match.
func (s *Service) missingUserHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("missing-user"), s.passwordCost)
		if err != nil {
			s.logger.Warn("dummy hash generation failed", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user *domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		user, err = q.GetUserByID(ctx, userID)
		return err
	})
	return user, err
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		user, err = q.GetUserByName(ctx, normalizeUsername(username))
		return err
	})
	return user, err
}

func (s *Service) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		users, err = q.ListUsers(ctx)
		return err
	})
	return users, err
}

// SearchUsers matches term case-insensitively as a substring of the username
// or the display name.
func (s *Service) SearchUsers(ctx context.Context, term string) ([]domain.User, error) {
	var users []domain.User
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		users, err = q.SearchUsers(ctx, strings.TrimSpace(term))
		return err
	})
	return users, err
}

// UpdateProfile applies only the non-nil fields of patch.
func (s *Service) UpdateProfile(ctx context.Context, userID string, patch domain.ProfileUpdate) (*domain.User, error) {
	if patch.IsEmpty() {
		return s.GetUser(ctx, userID)
	}

	var user *domain.User
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := q.UpdateProfile(ctx, userID, patch, s.clock()); err != nil {
			return err
		}
		var err error
		user, err = q.GetUserByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return user, nil
}
