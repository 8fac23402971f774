package gen

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	genai "google.golang.org/genai"
)

type geminiClient struct {
	client     *genai.Client
	textModel  string
	videoModel string
	imageModel string
}

func newGeminiClient(ctx context.Context, cfg Config) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &geminiClient{
		client:     client,
		textModel:  cfg.TextModel,
		videoModel: cfg.VideoModel,
		imageModel: cfg.ImageModel,
	}, nil
}

func (c *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.textModel)
}

var alternativesSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"alternatives": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
}

var storyboardSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"scenes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"scene_number": {Type: genai.TypeInteger},
					"prompt":       {Type: genai.TypeString},
					"description":  {Type: genai.TypeString},
				},
				Required: []string{"scene_number", "prompt", "description"},
			},
		},
	},
}

func (c *geminiClient) structuredText(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (c *geminiClient) RefineIdea(ctx context.Context, idea string) ([]string, error) {
	raw, err := c.structuredText(ctx, buildRefinePrompt(idea), alternativesSchema)
	if err != nil {
		return nil, errors.Wrap(err, "refine idea")
	}
	return parseAlternatives(raw)
}

func (c *geminiClient) PlanScenes(ctx context.Context, idea string) ([]ScenePlan, error) {
	raw, err := c.structuredText(ctx, buildStoryboardPrompt(idea), storyboardSchema)
	if err != nil {
		return nil, errors.Wrap(err, "plan scenes")
	}
	return parseScenePlans(raw)
}

type geminiVideoJob struct {
	op *genai.GenerateVideosOperation
}

func (j *geminiVideoJob) Done() bool {
	return j.op != nil && j.op.Done
}

func (c *geminiClient) StartVideo(ctx context.Context, prompt string, ref *StillImage) (VideoJob, error) {
	var image *genai.Image
	if ref != nil {
		image = &genai.Image{ImageBytes: ref.Data, MIMEType: ref.MIMEType}
	}
	op, err := c.client.Models.GenerateVideos(ctx, c.videoModel, prompt, image, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "start video job")
	}
	return &geminiVideoJob{op: op}, nil
}

func (c *geminiClient) CheckVideo(ctx context.Context, job VideoJob) (VideoJob, error) {
	current, ok := job.(*geminiVideoJob)
	if !ok {
		return nil, errors.Errorf("unexpected video job type %T", job)
	}
	op, err := c.client.Operations.GetVideosOperation(ctx, current.op, nil)
	if err != nil {
		return nil, errors.Wrap(err, "check video job")
	}
	return &geminiVideoJob{op: op}, nil
}

func (c *geminiClient) DownloadVideo(ctx context.Context, job VideoJob) ([]byte, error) {
	current, ok := job.(*geminiVideoJob)
	if !ok {
		return nil, errors.Errorf("unexpected video job type %T", job)
	}
	resp := current.op.Response
	if resp == nil || len(resp.GeneratedVideos) == 0 || resp.GeneratedVideos[0].Video == nil {
		return nil, errors.New("video job finished without a result video")
	}
	video := resp.GeneratedVideos[0].Video
	if len(video.VideoBytes) > 0 {
		return video.VideoBytes, nil
	}
	if video.URI == "" {
		return nil, errors.New("video job finished without a result video")
	}
	data, err := c.client.Files.Download(ctx, video, nil)
	if err != nil {
		return nil, errors.Wrap(err, "download video")
	}
	return data, nil
}

func (c *geminiClient) EditStill(ctx context.Context, still StillImage, instruction string) (*StillImage, error) {
	parts := []*genai.Part{
		genai.NewPartFromBytes(still.Data, still.MIMEType),
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, errors.Wrap(err, "edit frame")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &StillImage{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, nil
			}
		}
	}
	// The model answered with text only. Callers decide how to surface that.
	return nil, nil
}
