// Package memory is a process-local repository.Store. It keeps every table in
// maps guarded by one lock; InTx snapshots the tables and restores them when
// the function fails, so a failed operation leaves no partial writes.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
)

type pairKey struct {
	a, b string
}

type tables struct {
	users         map[string]domain.User
	auth          map[string]domain.UserAuth
	posts         map[string]domain.Post
	likes         map[pairKey]domain.Like
	comments      map[string]domain.Comment
	follows       map[pairKey]domain.Follow
	saved         map[pairKey]domain.SavedPost
	stories       map[string]domain.Story
	storyViews    map[pairKey]domain.StoryView
	notifications map[string]domain.Notification
}

func newTables() *tables {
	return &tables{
		users:         map[string]domain.User{},
		auth:          map[string]domain.UserAuth{},
		posts:         map[string]domain.Post{},
		likes:         map[pairKey]domain.Like{},
		comments:      map[string]domain.Comment{},
		follows:       map[pairKey]domain.Follow{},
		saved:         map[pairKey]domain.SavedPost{},
		stories:       map[string]domain.Story{},
		storyViews:    map[pairKey]domain.StoryView{},
		notifications: map[string]domain.Notification{},
	}
}

func (t *tables) clone() *tables {
	return &tables{
		users:         maps.Clone(t.users),
		auth:          maps.Clone(t.auth),
		posts:         maps.Clone(t.posts),
		likes:         maps.Clone(t.likes),
		comments:      maps.Clone(t.comments),
		follows:       maps.Clone(t.follows),
		saved:         maps.Clone(t.saved),
		stories:       maps.Clone(t.stories),
		storyViews:    maps.Clone(t.storyViews),
		notifications: maps.Clone(t.notifications),
	}
}

type Store struct {
	mu sync.RWMutex
	t  *tables
}

func NewStore() *Store {
	return &Store{t: newTables()}
}

func (s *Store) InTx(ctx context.Context, fn func(q repository.Queries) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.t.clone()
	defer func() {
		if p := recover(); p != nil {
			s.t = snapshot
			panic(p)
		} else if err != nil {
			s.t = snapshot
		}
	}()

	return fn(&queries{t: s.t})
}

func (s *Store) View(ctx context.Context, fn func(q repository.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&queries{t: s.t})
}

// queries implements repository.Queries over one tables value. Callers hold
// the store lock for its whole lifetime.
type queries struct {
	t *tables
}

var _ repository.Queries = (*queries)(nil)
