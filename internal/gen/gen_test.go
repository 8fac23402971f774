package gen

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	genai "google.golang.org/genai"
)

func TestParseAlternatives(t *testing.T) {
	alts, err := parseAlternatives(`{"alternatives":["A","B","C"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, alts)
}

func TestParseAlternativesFencedPayload(t *testing.T) {
	raw := "Here you go:\n```json\n{\"alternatives\":[\" A \",\"\",\"B\"]}\n```"
	alts, err := parseAlternatives(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, alts)
}

func TestParseAlternativesRejectsBadShapes(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `{"alternatives":[]}`, `{"other":["A"]}`} {
		_, err := parseAlternatives(raw)
		assert.Error(t, err, "raw=%q", raw)
	}
}

func TestParseScenePlans(t *testing.T) {
	raw := `{"scenes":[
		{"scene_number":1,"prompt":"a fox on a cliff","description":"The fox hesitates."},
		{"scene_number":2,"prompt":"wind rushing past","description":"First leap."}
	]}`
	plans, err := parseScenePlans(raw)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, 1, plans[0].Number)
	assert.Equal(t, "a fox on a cliff", plans[0].Prompt)
	assert.Equal(t, "First leap.", plans[1].Description)
}

func TestParseScenePlansSkipsIncompleteEntries(t *testing.T) {
	raw := `{"scenes":[
		{"scene_number":1,"prompt":"","description":"missing prompt"},
		{"scene_number":2,"prompt":"ok","description":"kept"}
	]}`
	plans, err := parseScenePlans(raw)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "ok", plans[0].Prompt)
}

func TestParseScenePlansRejectsEmpty(t *testing.T) {
	_, err := parseScenePlans(`{"scenes":[]}`)
	assert.Error(t, err)
}

type fakeJob struct {
	done bool
}

func (j fakeJob) Done() bool { return j.done }

// pollClient reports done=false for pending checks, then done, then serves the
// configured download result.
type pollClient struct {
	pendingChecks int
	checks        int
	downloadData  []byte
	downloadErr   error
	startErr      error
}

func (c *pollClient) RefineIdea(context.Context, string) ([]string, error)    { return nil, nil }
func (c *pollClient) PlanScenes(context.Context, string) ([]ScenePlan, error) { return nil, nil }
func (c *pollClient) Name() string                                            { return "fake" }

func (c *pollClient) StartVideo(context.Context, string, *StillImage) (VideoJob, error) {
	if c.startErr != nil {
		return nil, c.startErr
	}
	return fakeJob{done: c.pendingChecks == 0}, nil
}

func (c *pollClient) CheckVideo(_ context.Context, job VideoJob) (VideoJob, error) {
	c.checks++
	return fakeJob{done: c.checks >= c.pendingChecks}, nil
}

func (c *pollClient) DownloadVideo(context.Context, VideoJob) ([]byte, error) {
	return c.downloadData, c.downloadErr
}

func (c *pollClient) EditStill(context.Context, StillImage, string) (*StillImage, error) {
	return nil, nil
}

func TestGenerateVideoPollsUntilDone(t *testing.T) {
	client := &pollClient{pendingChecks: 2, downloadData: []byte("mp4")}
	data, err := GenerateVideo(context.Background(), client, "a fox", nil, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), data)
	assert.Equal(t, 2, client.checks)
}

func TestGenerateVideoDoneWithoutResultFails(t *testing.T) {
	client := &pollClient{downloadErr: errors.New("video job finished without a result video")}
	_, err := GenerateVideo(context.Background(), client, "a fox", nil, time.Millisecond)
	assert.Error(t, err)
}

// A done operation can still lack a retrievable video in several shapes; every
// one of them must come back as an error from the real client.
func TestDownloadVideoDoneWithoutResultVideo(t *testing.T) {
	c := &geminiClient{}
	ops := map[string]*genai.GenerateVideosOperation{
		"nil response": {Done: true},
		"no videos":    {Done: true, Response: &genai.GenerateVideosResponse{}},
		"nil video": {Done: true, Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{}},
		}},
		"no uri or bytes": {Done: true, Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{}}},
		}},
	}
	for name, op := range ops {
		_, err := c.DownloadVideo(context.Background(), &geminiVideoJob{op: op})
		assert.Error(t, err, name)
	}
}

func TestDownloadVideoServesInlineBytesWithoutFetch(t *testing.T) {
	c := &geminiClient{}
	op := &genai.GenerateVideosOperation{Done: true, Response: &genai.GenerateVideosResponse{
		GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{VideoBytes: []byte("mp4")}}},
	}}
	data, err := c.DownloadVideo(context.Background(), &geminiVideoJob{op: op})
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4"), data)
}

func TestGenerateVideoStartFailure(t *testing.T) {
	client := &pollClient{startErr: errors.New("quota exceeded")}
	_, err := GenerateVideo(context.Background(), client, "a fox", nil, time.Millisecond)
	assert.Error(t, err)
	assert.Zero(t, client.checks)
}

func TestNewFromEnvWithoutKeyReturnsUntypedNil(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client, err := NewFromEnv(context.Background(), Config{})
	require.Error(t, err)
	// Must be comparable to nil as an interface; a typed-nil *geminiClient
	// would defeat the availability checks in the UI.
	assert.True(t, client == nil, "got %#v", client)
}

func TestGenerateVideoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &pollClient{pendingChecks: 100}
	_, err := GenerateVideo(ctx, client, "a fox", nil, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
