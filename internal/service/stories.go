package service

import (
	"context"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"go.uber.org/zap"
)

// CreateStory inserts a story that expires domain.StoryDuration from now.
func (s *Service) CreateStory(ctx context.Context, authorID, imageURL string) (*domain.Story, error) {
	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	now := s.clock()
	story := &domain.Story{
		ID:        id,
		AuthorID:  authorID,
		ImageURL:  imageURL,
		ExpiresAt: now.Add(domain.StoryDuration),
		CreatedAt: now,
	}

	err = s.store.InTx(ctx, func(q repository.Queries) error {
		return q.CreateStory(ctx, story)
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

// GetActiveStories groups the unexpired stories by author. Groups appear in
// the order their first story is encountered, stories keep their order
// within a group.
func (s *Service) GetActiveStories(ctx context.Context) ([]domain.StoryGroup, error) {
	var stories []domain.StoryWithAuthor
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		stories, err = q.GetActiveStories(ctx, s.clock())
		return err
	})
	if err != nil {
		return nil, err
	}

	groups := []domain.StoryGroup{}
	index := make(map[string]int)
	for _, st := range stories {
		i, ok := index[st.AuthorID]
		if !ok {
			i = len(groups)
			index[st.AuthorID] = i
			groups = append(groups, domain.StoryGroup{Author: st.Author})
		}
		groups[i].Stories = append(groups[i].Stories, st.Story)
	}
	return groups, nil
}

// GetUserStories returns userID's unexpired stories, newest first.
func (s *Service) GetUserStories(ctx context.Context, userID string) ([]domain.Story, error) {
	var stories []domain.Story
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		stories, err = q.GetActiveStoriesByAuthor(ctx, userID, s.clock())
		return err
	})
	return stories, err
}

// ViewStory records the first view of storyID by viewerID and bumps
// viewsCount. Repeat views report false.
func (s *Service) ViewStory(ctx context.Context, storyID, viewerID string) (bool, error) {
	var viewed bool
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		viewed = false
		if _, err := q.GetStory(ctx, storyID); err != nil {
			return err
		}

		exists, err := q.StoryViewExists(ctx, storyID, viewerID)
		if err != nil || exists {
			return err
		}

		viewed, err = q.CreateStoryView(ctx, domain.StoryView{StoryID: storyID, ViewerID: viewerID, ViewedAt: s.clock()})
		if err != nil || !viewed {
			return err
		}
		return q.IncrementStoryViews(ctx, storyID)
	})
	if err != nil {
		return false, err
	}
	return viewed, nil
}

func (s *Service) GetStoryViewers(ctx context.Context, storyID string) ([]domain.StoryViewer, error) {
	var viewers []domain.StoryViewer
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		viewers, err = q.GetStoryViewers(ctx, storyID)
		return err
	})
	return viewers, err
}

func (s *Service) HasViewedStory(ctx context.Context, storyID, viewerID string) (bool, error) {
	var exists bool
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		exists, err = q.StoryViewExists(ctx, storyID, viewerID)
		return err
	})
	return exists, err
}

// CleanupExpiredStories purges every expired story and its views and returns
// how many stories were removed. Each story is purged in its own
// transaction; a failure stops the sweep and leaves the rest for the next run.
func (s *Service) CleanupExpiredStories(ctx context.Context) (int, error) {
	now := s.clock()

	var ids []string
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		ids, err = q.GetExpiredStoryIDs(ctx, now)
		return err
	})
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, id := range ids {
		var deleted bool
		err := s.store.InTx(ctx, func(q repository.Queries) error {
			if _, err := q.DeleteStoryViews(ctx, id); err != nil {
				return err
			}
			var err error
			deleted, err = q.DeleteStory(ctx, id)
			return err
		})
		if err != nil {
			return purged, err
		}
		if deleted {
			purged++
		}
	}

	if purged > 0 {
		s.logger.Info("expired stories purged", zap.Int("count", purged))
	}
	return purged, nil
}

// StoryState reports whether the persisted story is active or expired.
func (s *Service) StoryState(ctx context.Context, storyID string) (domain.StoryState, error) {
	var story *domain.Story
	err := s.store.View(ctx, func(q repository.Queries) error {
		var err error
		story, err = q.GetStory(ctx, storyID)
		return err
	})
	if err != nil {
		return "", err
	}
	return story.State(s.clock()), nil
}
