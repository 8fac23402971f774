package gen

import (
	"encoding/json"
	"fmt"
	"strings"
)

func buildRefinePrompt(idea string) string {
	return fmt.Sprintf(
		"You are a creative partner. Take the user's story idea and brainstorm 3 distinct, "+
			"more detailed and imaginative alternatives. Present them clearly. Story Idea: %q", idea)
}

func buildStoryboardPrompt(idea string) string {
	return fmt.Sprintf(
		"You are a storyboard assistant. Based on the following story idea, break it down into "+
			"5 distinct scenes for a short video. For each scene, provide two things: "+
			"1. A 'prompt': a visually descriptive sentence for an AI video generator. "+
			"2. A 'description': a brief one-sentence summary of the action or mood for display. "+
			"Story Idea: %q", idea)
}

// extractJSONObject tolerates models that wrap the requested JSON in prose or
// code fences by falling back to the outermost braces.
func extractJSONObject(raw string) []string {
	raw = strings.TrimSpace(raw)
	candidates := []string{raw}
	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			candidates = append(candidates, raw[start:end+1])
		}
	}
	return candidates
}

func parseAlternatives(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty refinement response")
	}
	for _, candidate := range extractJSONObject(raw) {
		var wrapper struct {
			Alternatives []string `json:"alternatives"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err != nil {
			continue
		}
		alts := make([]string, 0, len(wrapper.Alternatives))
		for _, alt := range wrapper.Alternatives {
			if alt = strings.TrimSpace(alt); alt != "" {
				alts = append(alts, alt)
			}
		}
		if len(alts) > 0 {
			return alts, nil
		}
	}
	return nil, fmt.Errorf("refinement response did not contain alternatives")
}

func parseScenePlans(raw string) ([]ScenePlan, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty storyboard response")
	}
	for _, candidate := range extractJSONObject(raw) {
		var wrapper struct {
			Scenes []ScenePlan `json:"scenes"`
		}
		if err := json.Unmarshal([]byte(candidate), &wrapper); err != nil {
			continue
		}
		plans := make([]ScenePlan, 0, len(wrapper.Scenes))
		for _, plan := range wrapper.Scenes {
			plan.Prompt = strings.TrimSpace(plan.Prompt)
			plan.Description = strings.TrimSpace(plan.Description)
			if plan.Prompt == "" || plan.Description == "" {
				continue
			}
			plans = append(plans, plan)
		}
		if len(plans) > 0 {
			return plans, nil
		}
	}
	return nil, fmt.Errorf("storyboard response did not contain scenes")
}
