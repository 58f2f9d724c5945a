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

func (q *queries) CreateStory(_ context.Context, story *domain.Story) error {
	if _, ok := q.t.stories[story.ID]; ok {
		return fmt.Errorf("story %s already exists", story.ID)
	}
	q.t.stories[story.ID] = *story
	return nil
}

func (q *queries) GetStory(_ context.Context, storyID string) (*domain.Story, error) {
	s, ok := q.t.stories[storyID]
	if !ok {
		return nil, repository.ErrStoryNotFound
	}
	return &s, nil
}

func (q *queries) GetActiveStories(_ context.Context, now time.Time) ([]domain.StoryWithAuthor, error) {
	stories := []domain.StoryWithAuthor{}
	for _, s := range q.t.stories {
		if !s.ExpiresAt.After(now) {
			continue
		}
		author, ok := q.t.users[s.AuthorID]
		if !ok {
			continue
		}
		stories = append(stories, domain.StoryWithAuthor{Story: s, Author: author})
	}
	slices.SortFunc(stories, func(a, b domain.StoryWithAuthor) int {
		if c := b.ExpiresAt.Compare(a.ExpiresAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return stories, nil
}

func (q *queries) GetActiveStoriesByAuthor(_ context.Context, authorID string, now time.Time) ([]domain.Story, error) {
	stories := []domain.Story{}
	for _, s := range q.t.stories {
		if s.AuthorID == authorID && s.ExpiresAt.After(now) {
			stories = append(stories, s)
		}
	}
	slices.SortFunc(stories, func(a, b domain.Story) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return stories, nil
}

func (q *queries) GetExpiredStoryIDs(_ context.Context, now time.Time) ([]string, error) {
	expired := []domain.Story{}
	for _, s := range q.t.stories {
		if s.ExpiresAt.Before(now) {
			expired = append(expired, s)
		}
	}
	slices.SortFunc(expired, func(a, b domain.Story) int {
		if c := a.ExpiresAt.Compare(b.ExpiresAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	ids := make([]string, 0, len(expired))
	for _, s := range expired {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (q *queries) DeleteStory(_ context.Context, storyID string) (bool, error) {
	if _, ok := q.t.stories[storyID]; !ok {
		return false, nil
	}
	delete(q.t.stories, storyID)
	return true, nil
}

func (q *queries) IncrementStoryViews(_ context.Context, storyID string) error {
	s, ok := q.t.stories[storyID]
	if !ok {
		return nil
	}
	s.ViewsCount++
	q.t.stories[storyID] = s
	return nil
}

func (q *queries) StoryViewExists(_ context.Context, storyID, viewerID string) (bool, error) {
	_, ok := q.t.storyViews[pairKey{storyID, viewerID}]
	return ok, nil
}

func (q *queries) CreateStoryView(_ context.Context, view domain.StoryView) (bool, error) {
	key := pairKey{view.StoryID, view.ViewerID}
	if _, ok := q.t.storyViews[key]; ok {
		return false, nil
	}
	q.t.storyViews[key] = view
	return true, nil
}

func (q *queries) GetStoryViewers(_ context.Context, storyID string) ([]domain.StoryViewer, error) {
	viewers := []domain.StoryViewer{}
	for key, v := range q.t.storyViews {
		if key.a != storyID {
			continue
		}
		u, ok := q.t.users[v.ViewerID]
		if !ok {
			continue
		}
		viewers = append(viewers, domain.StoryViewer{StoryView: v, User: u})
	}
	slices.SortFunc(viewers, func(a, b domain.StoryViewer) int {
		if c := a.ViewedAt.Compare(b.ViewedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ViewerID, b.ViewerID)
	})
	return viewers, nil
}

func (q *queries) DeleteStoryViews(_ context.Context, storyID string) (int64, error) {
	var n int64
	for key := range q.t.storyViews {
		if key.a == storyID {
			delete(q.t.storyViews, key)
			n++
		}
	}
	return n, nil
}

func (q *queries) CreateNotification(_ context.Context, n *domain.Notification) error {
	if _, ok := q.t.notifications[n.ID]; ok {
		return fmt.Errorf("notification %s already exists", n.ID)
	}
	q.t.notifications[n.ID] = *n
	return nil
}

func (q *queries) GetNotifications(_ context.Context, userID string, limit int) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	for _, n := range q.t.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	slices.SortFunc(notifications, func(a, b domain.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if len(notifications) > limit {
		notifications = notifications[:limit]
	}
	return notifications, nil
}

func (q *queries) MarkNotificationsRead(_ context.Context, userID string) (int64, error) {
	var n int64
	for id, notification := range q.t.notifications {
		if notification.UserID == userID && !notification.IsRead {
			notification.IsRead = true
			q.t.notifications[id] = notification
			n++
		}
	}
	return n, nil
}
