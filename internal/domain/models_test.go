package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoryState(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	story := Story{CreatedAt: created, ExpiresAt: created.Add(StoryDuration)}

	tests := []struct {
		name string
		now  time.Time
		want StoryState
	}{
		{name: "just created", now: created, want: StoryActive},
		{name: "one second before expiry", now: story.ExpiresAt.Add(-time.Second), want: StoryActive},
		{name: "at expiry", now: story.ExpiresAt, want: StoryExpired},
		{name: "long after expiry", now: story.ExpiresAt.Add(72 * time.Hour), want: StoryExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, story.State(tt.now))
		})
	}
}

func TestProfileUpdateIsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())

	bio := ""
	assert.False(t, ProfileUpdate{Bio: &bio}.IsEmpty())
}
