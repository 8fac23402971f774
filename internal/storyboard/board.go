// Package storyboard holds the ordered scene records behind the UI. Every
// mutation replaces exactly one scene's record in place, so generations for
// different scenes can interleave without clobbering each other's results.
package storyboard

import (
	"strings"

	"github.com/google/uuid"
)

// Status tracks a scene's generation state.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Video is a playable in-memory handle for a generated clip. Clips live only
// for the session and are never written to disk.
type Video struct {
	Data     []byte
	MIMEType string
}

// Scene is one entry of the storyboard.
type Scene struct {
	ID           string
	Ordinal      int
	Prompt       string
	Description  string
	Video        *Video
	Status       Status
	StatusDetail string
	LastError    string
}

// NewScene builds an idle scene with a fresh identifier. Identifiers are
// unique within a board and never reused.
func NewScene(ordinal int, prompt, description string) Scene {
	return Scene{
		ID:          uuid.NewString(),
		Ordinal:     ordinal,
		Prompt:      strings.TrimSpace(prompt),
		Description: strings.TrimSpace(description),
		Status:      StatusIdle,
	}
}

// Board is the ordered scene sequence. It is not safe for concurrent use; all
// access happens on the UI goroutine.
type Board struct {
	scenes []Scene
}

func New() *Board {
	return &Board{}
}

// Replace swaps in a whole new storyboard, discarding the previous one.
func (b *Board) Replace(scenes []Scene) {
	b.scenes = append([]Scene(nil), scenes...)
}

// Reset clears the board entirely.
func (b *Board) Reset() {
	b.scenes = nil
}

func (b *Board) Len() int {
	return len(b.scenes)
}

// Scenes returns a copy of the current records for rendering.
func (b *Board) Scenes() []Scene {
	return append([]Scene(nil), b.scenes...)
}

func (b *Board) index(id string) int {
	for i := range b.scenes {
		if b.scenes[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the scene with the given id.
func (b *Board) Get(id string) (Scene, bool) {
	if i := b.index(id); i >= 0 {
		return b.scenes[i], true
	}
	return Scene{}, false
}

// SetPrompt updates a scene's generation prompt. Editing a prompt never
// touches an existing video.
func (b *Board) SetPrompt(id, prompt string) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.scenes[i].Prompt = prompt
	return true
}

// MarkPending starts a new generation cycle: the previous error is cleared and
// the first loading message is shown, but a previous video stays in place
// until the new attempt resolves.
func (b *Board) MarkPending(id, detail string) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.scenes[i].Status = StatusPending
	b.scenes[i].StatusDetail = detail
	b.scenes[i].LastError = ""
	return true
}

// MarkFailed records a failed attempt. A pending scene never carries an error,
// so leaving pending and setting the error happen together.
func (b *Board) MarkFailed(id, message string) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.scenes[i].Status = StatusFailed
	b.scenes[i].StatusDetail = ""
	b.scenes[i].LastError = message
	return true
}

// SetVideo stores a finished clip, overwriting any previous one, and returns
// the scene to idle.
func (b *Board) SetVideo(id string, video *Video) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	b.scenes[i].Video = video
	b.scenes[i].Status = StatusIdle
	b.scenes[i].StatusDetail = ""
	b.scenes[i].LastError = ""
	return true
}

// SetDetail rotates the loading message. Ignored unless the scene is still
// pending, which keeps a stale ticker from mutating a concluded scene.
func (b *Board) SetDetail(id, detail string) bool {
	i := b.index(id)
	if i < 0 || b.scenes[i].Status != StatusPending {
		return false
	}
	b.scenes[i].StatusDetail = detail
	return true
}

// AnyPending reports whether any scene has an outstanding generation.
func (b *Board) AnyPending() bool {
	for i := range b.scenes {
		if b.scenes[i].Status == StatusPending {
			return true
		}
	}
	return false
}

// WithoutVideo returns board-order ids of scenes that have no clip yet; this
// is the generate-all work list.
func (b *Board) WithoutVideo() []string {
	var ids []string
	for i := range b.scenes {
		if b.scenes[i].Video == nil {
			ids = append(ids, b.scenes[i].ID)
		}
	}
	return ids
}
