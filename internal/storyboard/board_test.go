package storyboard

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBoard(n int) *Board {
	b := New()
	scenes := make([]Scene, 0, n)
	for i := 0; i < n; i++ {
		scenes = append(scenes, NewScene(i+1, fmt.Sprintf("prompt %d", i+1), fmt.Sprintf("scene %d", i+1)))
	}
	b.Replace(scenes)
	return b
}

func TestNewSceneAssignsUniqueIDs(t *testing.T) {
	b := testBoard(5)
	seen := map[string]bool{}
	for _, s := range b.Scenes() {
		require.NotEmpty(t, s.ID)
		assert.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
		assert.Equal(t, StatusIdle, s.Status)
		assert.Nil(t, s.Video)
	}
}

func TestReplaceDiscardsPreviousBoard(t *testing.T) {
	b := testBoard(5)
	old := b.Scenes()[0].ID
	b.Replace([]Scene{NewScene(1, "new", "new")})
	assert.Equal(t, 1, b.Len())
	_, ok := b.Get(old)
	assert.False(t, ok)
}

func TestMarkPendingClearsErrorKeepsVideo(t *testing.T) {
	b := testBoard(1)
	id := b.Scenes()[0].ID
	require.True(t, b.SetVideo(id, &Video{Data: []byte("v1"), MIMEType: "video/mp4"}))
	require.True(t, b.MarkFailed(id, "boom"))
	require.True(t, b.MarkPending(id, "Warming up..."))

	s, ok := b.Get(id)
	require.True(t, ok)
	assert.Equal(t, StatusPending, s.Status)
	assert.Empty(t, s.LastError)
	require.NotNil(t, s.Video, "old video must survive until the new attempt resolves")
	assert.Equal(t, []byte("v1"), s.Video.Data)
}

func TestSetVideoOverwritesAndClearsState(t *testing.T) {
	b := testBoard(1)
	id := b.Scenes()[0].ID
	b.SetVideo(id, &Video{Data: []byte("v1")})
	b.MarkPending(id, "rendering")
	b.SetVideo(id, &Video{Data: []byte("v2")})

	s, _ := b.Get(id)
	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, []byte("v2"), s.Video.Data)
	assert.Empty(t, s.StatusDetail)
}

func TestSetDetailOnlyWhilePending(t *testing.T) {
	b := testBoard(1)
	id := b.Scenes()[0].ID
	assert.False(t, b.SetDetail(id, "tick"))

	b.MarkPending(id, "first")
	assert.True(t, b.SetDetail(id, "second"))
	s, _ := b.Get(id)
	assert.Equal(t, "second", s.StatusDetail)

	b.MarkFailed(id, "boom")
	assert.False(t, b.SetDetail(id, "stale tick"))
	s, _ = b.Get(id)
	assert.Empty(t, s.StatusDetail)
}

func TestPromptEditDoesNotTouchVideo(t *testing.T) {
	b := testBoard(1)
	id := b.Scenes()[0].ID
	b.SetVideo(id, &Video{Data: []byte("v1")})
	require.True(t, b.SetPrompt(id, "rewritten"))
	s, _ := b.Get(id)
	assert.Equal(t, "rewritten", s.Prompt)
	assert.NotNil(t, s.Video)
}

func TestWithoutVideoKeepsBoardOrder(t *testing.T) {
	b := testBoard(4)
	scenes := b.Scenes()
	b.SetVideo(scenes[1].ID, &Video{Data: []byte("v")})
	ids := b.WithoutVideo()
	assert.Equal(t, []string{scenes[0].ID, scenes[2].ID, scenes[3].ID}, ids)
}

// Random walks over the per-scene transitions must never produce a scene that
// is pending and carries an error at the same time.
func TestPendingAndErrorNeverCoexist(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := testBoard(3)
	ids := b.WithoutVideo()

	for step := 0; step < 2000; step++ {
		id := ids[rng.Intn(len(ids))]
		switch rng.Intn(4) {
		case 0:
			b.MarkPending(id, "rendering")
		case 1:
			b.SetVideo(id, &Video{Data: []byte("v")})
		case 2:
			b.MarkFailed(id, "failed")
		case 3:
			b.SetDetail(id, "tick")
		}
		for _, s := range b.Scenes() {
			if s.Status == StatusPending && s.LastError != "" {
				t.Fatalf("step %d: scene %s is pending with error %q", step, s.ID, s.LastError)
			}
		}
	}
}
