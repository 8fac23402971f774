package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkale/storyreel/internal/frame"
	"github.com/nkale/storyreel/internal/gen"
)

type scriptedClient struct {
	stubClient
	alternatives []string
	plans        []gen.ScenePlan
	edited       *gen.StillImage
	err          error
}

func (c scriptedClient) RefineIdea(context.Context, string) ([]string, error) {
	return c.alternatives, c.err
}

func (c scriptedClient) PlanScenes(context.Context, string) ([]gen.ScenePlan, error) {
	return c.plans, c.err
}

func (c scriptedClient) EditStill(context.Context, gen.StillImage, string) (*gen.StillImage, error) {
	return c.edited, c.err
}

func TestRefineIdeaJobCarriesIdeaAndAlternatives(t *testing.T) {
	client := scriptedClient{alternatives: []string{"A", "B", "C"}}
	msg, err := refineIdeaJob(client, "a fox learns to fly")(context.Background())
	require.NoError(t, err)
	result, ok := msg.(refineResultMsg)
	require.True(t, ok)
	assert.Equal(t, "a fox learns to fly", result.idea)
	assert.Equal(t, []string{"A", "B", "C"}, result.alternatives)
}

func TestPlanScenesJobPropagatesError(t *testing.T) {
	client := scriptedClient{err: fmt.Errorf("model unavailable")}
	msg, err := planScenesJob(client, "idea")(context.Background())
	require.Error(t, err)
	result, ok := msg.(planResultMsg)
	require.True(t, ok)
	assert.Error(t, result.err)
	assert.Empty(t, result.plans)
}

type instantVideoClient struct {
	stubClient
	data []byte
}

type doneJob struct{}

func (doneJob) Done() bool { return true }

func (instantVideoClient) StartVideo(context.Context, string, *gen.StillImage) (gen.VideoJob, error) {
	return doneJob{}, nil
}

func (c instantVideoClient) DownloadVideo(context.Context, gen.VideoJob) ([]byte, error) {
	return c.data, nil
}

func TestGenerateVideoJobTagsResultWithSceneID(t *testing.T) {
	client := instantVideoClient{data: []byte("mp4")}
	msg, err := generateVideoJob(client, "scene-1", "prompt", nil, time.Millisecond)(context.Background())
	require.NoError(t, err)
	result, ok := msg.(videoResultMsg)
	require.True(t, ok)
	assert.Equal(t, "scene-1", result.sceneID)
	assert.Equal(t, []byte("mp4"), result.data)
}

func TestCaptureFrameJobUsesInjectedCapture(t *testing.T) {
	capture := func(_ context.Context, video []byte) (frame.Still, error) {
		assert.Equal(t, []byte("clip"), video)
		return frame.Still{Data: []byte("jpeg"), MIMEType: "image/jpeg"}, nil
	}
	msg, err := captureFrameJob(capture, "scene-2", []byte("clip"))(context.Background())
	require.NoError(t, err)
	result, ok := msg.(frameResultMsg)
	require.True(t, ok)
	assert.Equal(t, "scene-2", result.sceneID)
	assert.Equal(t, "image/jpeg", result.still.MIMEType)
}

func TestJobBusRunsJobsUnderConfiguredContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus := newJobBus(ctx, zerolog.Nop())

	runner := func(jobCtx context.Context) (tea.Msg, error) {
		return videoResultMsg{sceneID: "scene-1", err: jobCtx.Err()}, jobCtx.Err()
	}
	msg := bus.finish("video-1", jobKindVideo, time.Now(), runner)
	envelope, ok := msg.(jobResultEnvelope)
	require.True(t, ok)
	assert.Equal(t, jobStatusFailed, envelope.Snapshot.Status)
	result, ok := envelope.Payload.(videoResultMsg)
	require.True(t, ok)
	assert.ErrorIs(t, result.err, context.Canceled)
}

func TestGenerateVideoJobStopsWhenBusContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := neverDoneClient{}
	msg, err := generateVideoJob(client, "scene-1", "prompt", nil, time.Hour)(ctx)
	require.ErrorIs(t, err, context.Canceled)
	result, ok := msg.(videoResultMsg)
	require.True(t, ok)
	assert.ErrorIs(t, result.err, context.Canceled)
}

type neverDoneClient struct {
	stubClient
}

type pendingJob struct{}

func (pendingJob) Done() bool { return false }

func (neverDoneClient) StartVideo(context.Context, string, *gen.StillImage) (gen.VideoJob, error) {
	return pendingJob{}, nil
}

func TestEditStillJobReturnsNilImageUntouched(t *testing.T) {
	client := scriptedClient{edited: nil}
	msg, err := editStillJob(client, "scene-3", gen.StillImage{}, "make it rain")(context.Background())
	require.NoError(t, err)
	result, ok := msg.(editResultMsg)
	require.True(t, ok)
	assert.Nil(t, result.edited)
	assert.NoError(t, result.err)
}
