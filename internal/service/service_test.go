package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/events"
	"github.com/Tetsu-is/social-graph/internal/repository/memory"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// sequentialIDs yields id-0001, id-0002, ... so ordering is deterministic.
func sequentialIDs() func() (string, error) {
	var n atomic.Int64
	return func() (string, error) {
		return fmt.Sprintf("id-%04d", n.Add(1)), nil
	}
}

func newTestService(t *testing.T, opts ...Option) (*Service, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	base := []Option{
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithPasswordCost(bcrypt.MinCost),
	}
	return New(memory.NewStore(), append(base, opts...)...), clock
}

func mustCreateUser(t *testing.T, s *Service, username, displayName string) *domain.User {
	t.Helper()
	user, err := s.CreateUser(context.Background(), domain.NewUser{Username: username, DisplayName: displayName})
	require.NoError(t, err)
	return user
}

func mustCreatePost(t *testing.T, s *Service, authorID string) *domain.Post {
	t.Helper()
	post, err := s.CreatePost(context.Background(), authorID, "https://example.com/p.jpg", "caption", "")
	require.NoError(t, err)
	return post
}

func mustGetUser(t *testing.T, s *Service, id string) *domain.User {
	t.Helper()
	user, err := s.GetUser(context.Background(), id)
	require.NoError(t, err)
	return user
}

func mustGetPost(t *testing.T, s *Service, id string) *domain.PostWithAuthor {
	t.Helper()
	post, err := s.GetPost(context.Background(), id)
	require.NoError(t, err)
	return post
}
