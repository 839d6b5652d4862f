package sentiment

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"review_radar/internal/adapters/observability"
	"review_radar/internal/domain"
)

const classifyPrompt = `You classify customer product reviews. Reply with exactly one word: positive, negative, or neutral.`

// OpenAI labels text through a chat-completion call. Slower and costlier
// than the HuggingFace path; useful where the inference API is unreachable.
type OpenAI struct {
	client *openai.Client
	model  string
	cb     *gobreaker.CircuitBreaker
}

func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClient(apiKey),
		model:  model,
		cb:     gobreaker.NewCircuitBreaker(breakerSettings("openai")),
	}, nil
}

func (o *OpenAI) Label(ctx context.Context, text string) (domain.Sentiment, float64, error) {
	out, err := o.cb.Execute(func() (any, error) {
		resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       o.model,
			Temperature: 0,
			MaxTokens:   4,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
				{Role: openai.ChatMessageRoleUser, Content: truncate(text, maxInputChars)},
			},
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("openai: empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	})
	if err != nil {
		return 0, 0, err
	}

	label, err := parseLabel(out.(string))
	if err != nil {
		return 0, 0, err
	}
	observability.ObserveSentiment("openai", label.String())
	// chat completions carry no calibrated confidence; report 1.0 for a
	// well-formed answer so downstream score handling stays uniform
	return label, 1.0, nil
}

// parseLabel maps the model's one-word answer onto the enum, tolerating
// stray punctuation and casing.
func parseLabel(answer string) (domain.Sentiment, error) {
	word := strings.ToLower(strings.TrimSpace(strings.Trim(answer, ".!\"' \n")))
	switch word {
	case "positive":
		return domain.Positive, nil
	case "negative":
		return domain.Negative, nil
	case "neutral":
		return domain.Neutral, nil
	}
	return 0, fmt.Errorf("openai: unexpected classification %q", answer)
}
