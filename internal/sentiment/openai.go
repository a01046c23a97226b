package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type polarityReply struct {
	Polarity *float64 `json:"polarity"`
}

// OpenAIScorer scores polarity with an OpenAI-compatible chat completion API.
type OpenAIScorer struct {
	client *openai.Client
	model  string
	schema map[string]any
}

// NewOpenAIScorer returns an OpenAIScorer. baseURL may be empty for the
// default OpenAI endpoint.
func NewOpenAIScorer(apiKey, baseURL, modelName string) (*OpenAIScorer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if strings.TrimSpace(modelName) == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	schema, err := polaritySchema()
	if err != nil {
		return nil, err
	}
	return &OpenAIScorer{client: &client, model: modelName, schema: schema}, nil
}

// Polarity implements Scorer.
func (s *OpenAIScorer) Polarity(ctx context.Context, text string) (float64, error) {
	if s == nil || s.client == nil {
		return 0, fmt.Errorf("sentiment client not configured")
	}
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}

	params := openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(polarityInstruction + ` Answer as JSON: {"polarity": <number>}.`),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "polarity",
					Schema: s.schema,
					Strict: openai.Bool(true),
				},
			},
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("failed to call sentiment API: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty sentiment reply")
	}
	return decodePolarity(resp.Choices[0].Message.Content)
}

// decodePolarity reads the structured reply, accepting a bare number from
// providers that ignore the response format.
func decodePolarity(raw string) (float64, error) {
	var reply polarityReply
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &reply); err != nil {
		return parsePolarity(raw)
	}
	if reply.Polarity == nil {
		return 0, fmt.Errorf("no polarity in reply: %q", raw)
	}
	return Clamp(*reply.Polarity), nil
}

func polaritySchema() (map[string]any, error) {
	schema := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"polarity": {
				Type:        "number",
				Description: "Sentiment polarity from -1 (very negative) to 1 (very positive).",
			},
		},
		Required:             []string{"polarity"},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to encode polarity schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode polarity schema: %w", err)
	}
	return out, nil
}
