package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nkale/storyreel/internal/frame"
	"github.com/nkale/storyreel/internal/gen"
)

func refineIdeaJob(client gen.Client, idea string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		alternatives, err := client.RefineIdea(ctx, idea)
		return refineResultMsg{idea: idea, alternatives: alternatives, err: err}, err
	}
}

func planScenesJob(client gen.Client, idea string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		plans, err := client.PlanScenes(ctx, idea)
		return planResultMsg{idea: idea, plans: plans, err: err}, err
	}
}

// generateVideoJob runs the whole video flow for one scene: submit, poll at a
// fixed interval, download. No timeout; video jobs routinely take minutes and
// the polling loop is unbounded.
func generateVideoJob(client gen.Client, sceneID, prompt string, ref *gen.StillImage, pollInterval time.Duration) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		data, err := gen.GenerateVideo(parent, client, prompt, ref, pollInterval)
		return videoResultMsg{sceneID: sceneID, data: data, err: err}, err
	}
}

func captureFrameJob(capture func(context.Context, []byte) (frame.Still, error), sceneID string, video []byte) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 30*time.Second)
		defer cancel()
		still, err := capture(ctx, video)
		return frameResultMsg{sceneID: sceneID, still: still, err: err}, err
	}
}

func editStillJob(client gen.Client, sceneID string, still gen.StillImage, instruction string) jobRunner {
	return func(parent context.Context) (tea.Msg, error) {
		ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
		defer cancel()
		edited, err := client.EditStill(ctx, still, instruction)
		return editResultMsg{sceneID: sceneID, edited: edited, err: err}, err
	}
}
