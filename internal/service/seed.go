package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Tetsu-is/social-graph/internal/domain"
	"github.com/Tetsu-is/social-graph/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const DemoPassword = "password123"

type demoUser struct {
	domain.NewUser
	verified bool
}

var demoUsers = []demoUser{
	{NewUser: domain.NewUser{
		Username:    "alex_photography",
		DisplayName: "Alex Chen",
		Bio:         "📸 Photographer | Travel Enthusiast\n🌍 Exploring the world one photo at a time\n📍 New York",
		AvatarURL:   "https://images.unsplash.com/photo-1535713875002-d1d0cf377fde?w=150&h=150&fit=crop",
		Website:     "https://alexchen.photo",
	}, verified: true},
	{NewUser: domain.NewUser{
		Username:    "travel_jane",
		DisplayName: "Jane Explorer",
		Bio:         "✈️ Full-time traveler\n🎒 50+ countries visited\n☕ Coffee addict",
		AvatarURL:   "https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=150&h=150&fit=crop",
	}},
	{NewUser: domain.NewUser{
		Username:    "nature_mike",
		DisplayName: "Mike Wilson",
		Bio:         "🏔️ Nature & Wildlife\n📷 Canon Ambassador\n🌿 Conservation advocate",
		AvatarURL:   "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=150&h=150&fit=crop",
	}, verified: true},
	{NewUser: domain.NewUser{
		Username:    "foodie_sarah",
		DisplayName: "Sarah's Kitchen",
		Bio:         "🍳 Food blogger & chef\n🥗 Healthy recipes daily\n📖 Cookbook author",
		AvatarURL:   "https://images.unsplash.com/photo-1438761681033-6461ffad8d80?w=150&h=150&fit=crop",
	}},
}

// author is an index into demoUsers.
var demoPosts = []struct {
	author   int
	imageURL string
	caption  string
	location string
	age      time.Duration
}{
	{0, "https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=800&h=800&fit=crop", "Breathtaking sunset in the mountains 🏔️✨ #mountains #sunset #photography", "Swiss Alps", 2 * time.Hour},
	{1, "https://images.unsplash.com/photo-1507525428034-b723cf961d3e?w=800&h=800&fit=crop", "Paradise found 🌴🌊 This beach is unreal! #travel #beach #paradise", "Maldives", 5 * time.Hour},
	{2, "https://images.unsplash.com/photo-1564349683136-77e08dba1ef7?w=800&h=800&fit=crop", "Early morning wildlife encounter 🦁 Patience is key in wildlife photography", "Serengeti, Tanzania", 8 * time.Hour},
	{3, "https://images.unsplash.com/photo-1567620905732-2d1ec7ab7445?w=800&h=800&fit=crop", "Homemade pasta perfection 🍝 Recipe link in bio! #foodie #homecooking", "My Kitchen", 12 * time.Hour},
	{0, "https://images.unsplash.com/photo-1682687220742-aba13b6e50ba?w=800&h=800&fit=crop", "City lights at dusk 🌃 Urban exploration never gets old", "Tokyo, Japan", 24 * time.Hour},
	{1, "https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=800&h=800&fit=crop", "Finding peace in nature 🌲 Sometimes you need to disconnect to reconnect", "Pacific Northwest", 30 * time.Hour},
}

var demoStories = []struct {
	author   int
	imageURL string
	age      time.Duration
}{
	{0, "https://images.unsplash.com/photo-1682687982501-1e58ab814714?w=600&h=1000&fit=crop", 2 * time.Hour},
	{1, "https://images.unsplash.com/photo-1682695797221-8164ff1fafc9?w=600&h=1000&fit=crop", 4 * time.Hour},
	{2, "https://images.unsplash.com/photo-1682686581030-7fa4ea2b96c3?w=600&h=1000&fit=crop", 6 * time.Hour},
}

// follower -> following, indexes into demoUsers.
var demoFollows = [][2]int{{0, 1}, {1, 0}, {1, 2}, {2, 0}, {3, 0}, {3, 1}}

// user -> post, indexes into demoUsers and demoPosts.
var demoLikes = [][2]int{{1, 0}, {2, 0}, {3, 0}, {0, 1}, {0, 2}, {3, 2}, {1, 3}}

// SeedDemoData loads the demo dataset in one transaction unless any user
// already exists. Follows and likes go through the same paths as live
// interactions so every counter matches its relation rows. It reports
// whether anything was written.
func (s *Service) SeedDemoData(ctx context.Context) (bool, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.passwordCost)
	if err != nil {
		return false, fmt.Errorf("hash demo password: %w", err)
	}

	var seeded bool
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		seeded = false

		count, err := q.CountUsers(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := s.clock()
		userIDs := make([]string, len(demoUsers))
		for i, du := range demoUsers {
			user, err := s.newUser(du.NewUser)
			if err != nil {
				return err
			}
			user.IsVerified = du.verified
			if err := q.CreateUser(ctx, user); err != nil {
				return fmt.Errorf("seed user %s: %w", user.Username, err)
			}
			if err := q.CreateUserAuth(ctx, domain.UserAuth{
				UserID:         user.ID,
				HashedPassword: string(hashed),
				CreatedAt:      now,
				UpdatedAt:      now,
			}); err != nil {
				return err
			}
			userIDs[i] = user.ID
		}

		postIDs := make([]string, len(demoPosts))
		for i, dp := range demoPosts {
			id, err := s.newID()
			if err != nil {
				return err
			}
			createdAt := now.Add(-dp.age)
			post := &domain.Post{
				ID:        id,
				AuthorID:  userIDs[dp.author],
				ImageURL:  dp.imageURL,
				Caption:   dp.caption,
				Location:  dp.location,
				CreatedAt: createdAt,
				UpdatedAt: createdAt,
			}
			if err := q.CreatePost(ctx, post); err != nil {
				return err
			}
			if err := q.AdjustUserCounter(ctx, post.AuthorID, domain.UserPostsCount, 1); err != nil {
				return err
			}
			postIDs[i] = id
		}

		for _, ds := range demoStories {
			id, err := s.newID()
			if err != nil {
				return err
			}
			createdAt := now.Add(-ds.age)
			if err := q.CreateStory(ctx, &domain.Story{
				ID:        id,
				AuthorID:  userIDs[ds.author],
				ImageURL:  ds.imageURL,
				ExpiresAt: createdAt.Add(domain.StoryDuration),
				CreatedAt: createdAt,
			}); err != nil {
				return err
			}
		}

		for _, f := range demoFollows {
			if _, _, err := s.followTx(ctx, q, userIDs[f[0]], userIDs[f[1]]); err != nil {
				return err
			}
		}
		for _, l := range demoLikes {
			if _, _, err := s.likeTx(ctx, q, userIDs[l[0]], postIDs[l[1]]); err != nil {
				return err
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.invalidate(ctx)
		s.logger.Info("demo data seeded",
			zap.Int("users", len(demoUsers)),
			zap.Int("posts", len(demoPosts)),
			zap.Int("stories", len(demoStories)),
		)
	} else {
		s.logger.Info("demo data already present, skipping")
	}
	return seeded, nil
}
