package gen

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultTextModel  = "gemini-2.5-flash"
	defaultVideoModel = "veo-2.0-generate-001"
	defaultImageModel = "gemini-2.5-flash-image-preview"
)

// DefaultPollInterval is how long the video flow waits between job-status
// checks. There is deliberately no backoff and no attempt bound.
const DefaultPollInterval = 10 * time.Second

// Config describes how to build a provider client.
type Config struct {
	APIKey     string
	TextModel  string
	VideoModel string
	ImageModel string
}

// ScenePlan is one entry of a storyboard breakdown returned by the text model.
type ScenePlan struct {
	Number      int    `json:"scene_number"`
	Prompt      string `json:"prompt"`
	Description string `json:"description"`
}

// StillImage carries raw encoded image bytes plus their declared format.
type StillImage struct {
	Data     []byte
	MIMEType string
}

// VideoJob is an opaque handle for an asynchronous server-side video
// generation operation. Concrete clients attach their own state to it.
type VideoJob interface {
	// Done reports whether the server has finished processing the job.
	Done() bool
}

// Client exposes the three request/response contracts the app needs: text
// generation with a structured JSON shape, asynchronous video generation, and
// image editing.
type Client interface {
	// RefineIdea asks the text model for three alternative phrasings of idea.
	RefineIdea(ctx context.Context, idea string) ([]string, error)
	// PlanScenes asks the text model to break idea into five scenes.
	PlanScenes(ctx context.Context, idea string) ([]ScenePlan, error)
	// StartVideo submits a video generation job for prompt, optionally seeded
	// with a reference still.
	StartVideo(ctx context.Context, prompt string, ref *StillImage) (VideoJob, error)
	// CheckVideo queries the server for the job's latest state.
	CheckVideo(ctx context.Context, job VideoJob) (VideoJob, error)
	// DownloadVideo fetches the finished job's media. A done job without a
	// retrievable video is an error.
	DownloadVideo(ctx context.Context, job VideoJob) ([]byte, error)
	// EditStill sends a captured frame plus an instruction to the image model.
	// It returns (nil, nil) when the response carries no image part.
	EditStill(ctx context.Context, still StillImage, instruction string) (*StillImage, error)
	Name() string
}

// NewFromEnv builds the Gemini-backed client, reading GEMINI_API_KEY when the
// config does not carry a key.
func NewFromEnv(ctx context.Context, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	if cfg.VideoModel == "" {
		cfg.VideoModel = defaultVideoModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	client, err := newGeminiClient(ctx, cfg)
	if err != nil {
		// A plain nil, never a typed-nil *geminiClient: callers compare the
		// interface against nil to decide whether generation is available.
		return nil, err
	}
	return client, nil
}

// GenerateVideo runs the full video flow against a client: submit the job,
// poll at a fixed interval until the server reports completion, then download
// the media. The loop has no attempt bound; cancellation comes from ctx.
func GenerateVideo(ctx context.Context, client Client, prompt string, ref *StillImage, pollInterval time.Duration) ([]byte, error) {
	job, err := client.StartVideo(ctx, prompt, ref)
	if err != nil {
		return nil, err
	}
	for !job.Done() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
		job, err = client.CheckVideo(ctx, job)
		if err != nil {
			return nil, err
		}
	}
	return client.DownloadVideo(ctx, job)
}
