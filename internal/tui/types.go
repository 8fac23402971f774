package tui

import (
	"time"

	"github.com/nkale/storyreel/internal/frame"
	"github.com/nkale/storyreel/internal/gen"
)

type stage int

const (
	stageIdea stage = iota
	stageChoices
	stageBoard
	stagePromptEdit
	stageEdit
)

const (
	heroTitle   = "StoryReel"
	heroTagline = "From a simple idea to a full video sequence."

	defaultTickerInterval = 3 * time.Second

	avatarPanelWidth = 34
	minMainWidth     = 40
)

// editSession is the single active frame-editing session: the scene being
// edited, its captured still, and the in-progress or completed edit.
type editSession struct {
	sceneID   string
	still     gen.StillImage
	edited    *gen.StillImage
	capturing bool
	applying  bool
}

type typeTickMsg struct{}

// sceneTickMsg advances a scene's rotating loading message. The seq field is
// the ticker generation; a stale seq means the ticker was superseded and the
// tick must be dropped.
type sceneTickMsg struct {
	sceneID string
	seq     int
}

type refineResultMsg struct {
	idea         string
	alternatives []string
	err          error
}

type planResultMsg struct {
	idea  string
	plans []gen.ScenePlan
	err   error
}

type videoResultMsg struct {
	sceneID string
	data    []byte
	err     error
}

type frameResultMsg struct {
	sceneID string
	still   frame.Still
	err     error
}

type editResultMsg struct {
	sceneID string
	edited  *gen.StillImage
	err     error
}
