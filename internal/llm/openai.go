package llm

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultGeminiBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// OpenAIClient implements Client using the openai-go SDK (chat completions).
// Pointing BaseURL at an OpenAI-compatible endpoint selects the provider;
// by default it talks to Gemini.
type OpenAIClient struct {
	model string
	opts  []option.RequestOption
}

func NewOpenAIClient(cfg Settings) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("model api key missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("model name is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	opts = append(opts, option.WithBaseURL(baseURL))
	return &OpenAIClient{model: cfg.Model, opts: opts}, nil
}

func (c *OpenAIClient) AnalyzeFrame(ctx context.Context, req Request) (string, error) {
	client := openai.NewClient(c.opts...)

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(buildPrompt(req)),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: req.FrameDataURL,
		}),
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
