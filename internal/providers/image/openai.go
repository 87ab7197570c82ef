package image

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

const (
	openAIDefaultTimeout = 120 * time.Second
	maxOutputTokens      = 600
)

// OpenAIOptions configures the OpenAI-backed image synthesizer.
type OpenAIOptions struct {
	APIKey       string
	Model        string
	BaseURL      string
	Organization string
	HTTPClient   *http.Client
}

// OpenAISynthesizer calls the responses API with the image_generation tool
// and extracts the generated payload from the tool-call results.
type OpenAISynthesizer struct {
	apiKey       string
	model        string
	baseURL      string
	organization string
	client       *http.Client
}

type responsesRequest struct {
	Model           string           `json:"model"`
	MaxOutputTokens int              `json:"max_output_tokens"`
	Input           []responsesInput `json:"input"`
	Tools           []responsesTool  `json:"tools"`
}

type responsesInput struct {
	Role    string          `json:"role"`
	Content []responsesPart `json:"content"`
}

type responsesPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type responsesTool struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	Output []struct {
		Type   string `json:"type"`
		Result string `json:"result"`
	} `json:"output"`
}

// NewOpenAISynthesizer builds a synthesizer from the given options.
func NewOpenAISynthesizer(opts OpenAIOptions) (*OpenAISynthesizer, error) {
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
	return &OpenAISynthesizer{
		apiKey:       strings.TrimSpace(opts.APIKey),
		model:        model,
		baseURL:      baseURL,
		organization: strings.TrimSpace(opts.Organization),
		client:       client,
	}, nil
}

// Synthesize performs the generation call. The first image_generation_call
// entry in the output wins; a response without one is a hard failure and is
// not retried.
func (o *OpenAISynthesizer) Synthesize(ctx context.Context, textToImage, originalImageURL string) (string, error) {
	payload := responsesRequest{
		Model:           o.model,
		MaxOutputTokens: maxOutputTokens,
		Input: []responsesInput{{
			Role: "user",
			Content: []responsesPart{
				{Type: "input_text", Text: textToImage},
				{Type: "input_image", ImageURL: originalImageURL, Detail: "auto"},
			},
		}},
		Tools: []responsesTool{{Type: "image_generation"}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	if o.organization != "" {
		httpReq.Header.Set("OpenAI-Organization", o.organization)
	}

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: image generation call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: image generation status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	var decoded responsesResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	for _, out := range decoded.Output {
		if out.Type == "image_generation_call" && out.Result != "" {
			return out.Result, nil
		}
	}
	return "", domain.ErrGenerationFailed
}

func truncate(raw []byte, n int) string {
	if len(raw) <= n {
		return string(raw)
	}
	return string(raw[:n]) + "..."
}

var _ Synthesizer = (*OpenAISynthesizer)(nil)
