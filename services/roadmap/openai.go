// Package roadmapsvc provides the study roadmap generators: an OpenAI-backed
// one and a canned fallback for environments without an API key.
package roadmapsvc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/roadmap"
)

const systemPrompt = "You are a medical exam preparation tutor. " +
	"Respond with a JSON object of the shape " +
	`{"title": string, "modules": [{"title": string, "description": string, "status": "PENDING"}]}.`

type openaiGenerator struct {
	client *openai.Client
	model  string
	logger core.Logger
}

var _ roadmap.Generator = (*openaiGenerator)(nil)

func NewOpenAIGenerator(conf *core.Config, logger core.Logger) roadmap.Generator {
	return &openaiGenerator{
		client: openai.NewClient(conf.OpenAI.APIKey),
		model:  conf.OpenAI.Model,
		logger: logger,
	}
}

func (g *openaiGenerator) Generate(ctx context.Context, req roadmap.PlanRequest) (roadmap.Roadmap, error) {
	prompt := fmt.Sprintf(
		"Build a week-by-week study plan for a medical licensing exam on %s. "+
			"Weak areas: %s. Available study time: %d hours per day.",
		req.ExamDate, req.WeakAreas, req.HoursPerDay,
	)

	res, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.Error("roadmap: chat completion failed", err)
		return roadmap.Roadmap{}, errors.Wrap(roadmap.ErrGenerationFailed, err.Error())
	}
	if len(res.Choices) == 0 {
		return roadmap.Roadmap{}, errors.Wrap(roadmap.ErrGenerationFailed, "empty completion")
	}

	var plan struct {
		Title   string           `json:"title"`
		Modules []roadmap.Module `json:"modules"`
	}
	if err = json.Unmarshal([]byte(res.Choices[0].Message.Content), &plan); err != nil {
		g.logger.Error("roadmap: unparseable completion", err)
		return roadmap.Roadmap{}, errors.Wrap(roadmap.ErrGenerationFailed, err.Error())
	}
	if plan.Title == "" || len(plan.Modules) == 0 {
		return roadmap.Roadmap{}, errors.Wrap(roadmap.ErrGenerationFailed, "incomplete plan")
	}

	return roadmap.Roadmap{
		ID:      uuid.New().String(),
		Title:   plan.Title,
		Modules: plan.Modules,
	}, nil
}
