package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adstudio/internal/domain"
)

const openAIDefaultTimeout = 60 * time.Second

// OpenAIOptions configures the OpenAI-backed prompt author.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAIAuthor calls the chat completions API with a structured-output
// schema restricted to exactly the two prompt fields.
type OpenAIAuthor struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

type chatRequest struct {
	Model          string        `json:"model"`
	ResponseFormat *chatFormat   `json:"response_format,omitempty"`
	Messages       []chatMessage `json:"messages"`
}

type chatFormat struct {
	Type       string         `json:"type"`
	JSONSchema chatJSONSchema `json:"json_schema"`
}

type chatJSONSchema struct {
	Name   string          `json:"name"`
	Schema json.RawMessage `json:"schema"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatTextPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type chatImagePart struct {
	Type     string       `json:"type"`
	ImageURL chatImageURL `json:"image_url"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// promptsSchema constrains the completion to the two prompt strings with no
// additional properties.
var promptsSchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["textToImage", "imageToVideo"],
  "properties": {
    "textToImage": {"type": "string", "minLength": 20, "maxLength": 800},
    "imageToVideo": {"type": "string", "minLength": 20, "maxLength": 600}
  }
}`)

// NewOpenAIAuthor builds an author from the given options.
func NewOpenAIAuthor(opts OpenAIOptions) (*OpenAIAuthor, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4.1-mini"
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: openAIDefaultTimeout}
	}
	return &OpenAIAuthor{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

// Author performs the completion call and parses the JSON prompt pair.
// There is no local retry: a missing or unparseable response fails the
// whole pipeline.
func (o *OpenAIAuthor) Author(ctx context.Context, req Request) (domain.PromptPair, error) {
	payload := chatRequest{
		Model: o.model,
		ResponseFormat: &chatFormat{
			Type: "json_schema",
			JSONSchema: chatJSONSchema{
				Name:   "Prompts",
				Schema: promptsSchema,
			},
		},
		Messages: []chatMessage{
			{Role: "system", Content: productImageInstruction},
			{Role: "user", Content: []any{
				chatTextPart{Type: "text", Text: userPromptText(req)},
				chatImagePart{Type: "image_url", ImageURL: chatImageURL{URL: req.ImageURL, Detail: "auto"}},
			}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: prompt authoring call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.PromptPair{}, fmt.Errorf("openai: prompt authoring status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return domain.PromptPair{}, errors.New("openai: prompt authoring returned no content")
	}

	var pair domain.PromptPair
	if err := json.Unmarshal([]byte(decoded.Choices[0].Message.Content), &pair); err != nil {
		return domain.PromptPair{}, fmt.Errorf("openai: parse prompt pair: %w", err)
	}
	if pair.TextToImage == "" || pair.ImageToVideo == "" {
		return domain.PromptPair{}, errors.New("openai: prompt pair incomplete")
	}
	return pair, nil
}

func userPromptText(req Request) string {
	return fmt.Sprintf("DESCRIPTION:\n%s\n\nRESOLUTION:\n%s\n\nASPECT:\n%s\n\nSEED_SUGGESTION:\n%d",
		req.Description, req.Resolution, req.Aspect, req.Seed)
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}

var _ Author = (*OpenAIAuthor)(nil)
