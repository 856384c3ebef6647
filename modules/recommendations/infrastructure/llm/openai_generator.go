package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/carelog/carelog/modules/patients/domain/aggregates/patient"
	"github.com/carelog/carelog/modules/patients/domain/aggregates/visit"
	"github.com/carelog/carelog/pkg/serrors"
)

const systemPrompt = "You are a careful clinical assistant. Based on the patient summary and visit history, suggest general follow-up care recommendations. Do not diagnose; keep suggestions short and actionable."

// OpenAIGenerator produces care-recommendation text through the chat
// completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) Model() string {
	return g.model
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p patient.Patient, visits []visit.Visit) (string, error) {
	const op = "OpenAIGenerator.Generate"

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(p, visits)},
		},
	})
	if err != nil {
		return "", serrors.Wrap(serrors.KindUpstreamUnavailable, op, err)
	}
	if len(resp.Choices) == 0 {
		return "", serrors.New(serrors.KindUpstreamUnavailable, op, "model returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", serrors.New(serrors.KindUpstreamUnavailable, op, "model returned empty content")
	}
	return content, nil
}

func buildPrompt(p patient.Patient, visits []visit.Visit) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient: %s %s, born %s.\n", p.FirstName(), p.LastName(), p.DateOfBirth().UTC().Format("2006-01-02"))
	if len(visits) == 0 {
		b.WriteString("No recorded visits.\n")
		return b.String()
	}

	b.WriteString("Visits, most recent first:\n")
	for _, v := range visits {
		fmt.Fprintf(&b, "- %s: %s", v.VisitedAt().UTC().Format("2006-01-02"), v.Reason())
		if v.Notes() != "" {
			fmt.Fprintf(&b, " (%s)", v.Notes())
		}
		b.WriteString("\n")
	}
	return b.String()
}
