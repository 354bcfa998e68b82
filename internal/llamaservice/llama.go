package llamaservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// --- HuggingFace Inference API Configuration ---
const (
	inferenceBaseURL = "https://api-inference.huggingface.co"
	modelID          = "meta-llama/Llama-3.2-3B-Instruct"
	requestTimeout   = 30 * time.Second

	// Sampling parameters sent with every generation request.
	temperature       = 0.7
	maxNewTokens      = 500
	topP              = 0.9
	repetitionPenalty = 1.1

	// minResponseLength is the acceptance threshold: anything shorter
	// after trimming is treated as no answer at all.
	minResponseLength = 50
)

// chatTemplate is the Llama 3.2 instruction framing. The system prompt
// and user query fold into one text block the model recognizes.
const chatTemplate = `<|system|>
%s</s>
<|user|>
%s</s>
<|assistant|>`

// --- Structs for the Inference API Request/Response ---
// (These are internal to this package)

type inferencePayload struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	Temperature       float64 `json:"temperature"`
	MaxNewTokens      int     `json:"max_new_tokens"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	ReturnFullText    bool    `json:"return_full_text"`
}

type inferenceResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// GenerationResult is what comes back across the generation seam.
// Accepted is false whenever the transport failed or the text was too
// thin to show a parent; Text and ModelID are only set when Accepted.
type GenerationResult struct {
	Text     string
	ModelID  string
	Accepted bool
}

// Generator produces meal guidance text from a composed prompt pair.
// Implementations never return errors: an unusable answer comes back
// as Accepted=false so callers can fall back.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userQuery string) GenerationResult
}

// Client calls the hosted Llama model through the HuggingFace Inference
// API. One attempt per request, no retries; whatever happens, the
// caller gets a GenerationResult rather than an error.
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
}

// ClientOption overrides a Client default.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

// WithBaseURL points the client at a different inference host.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// NewClient builds the production client for the fixed Llama model.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		token:   token,
		baseURL: inferenceBaseURL,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate frames the prompts for Llama, makes a single inference call
// and applies the acceptance rule. Transport failures are logged and
// downgraded to a rejected result; they never reach the caller.
func (c *Client) Generate(ctx context.Context, systemPrompt, userQuery string) GenerationResult {
	prompt := fmt.Sprintf(chatTemplate, systemPrompt, userQuery)

	text, err := c.complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("model", modelID).Msg("Llama generation failed")
		return GenerationResult{}
	}

	if !AcceptableResponse(text) {
		log.Warn().Str("model", modelID).Int("length", len(strings.TrimSpace(text))).
			Msg("Model returned insufficient response")
		return GenerationResult{}
	}

	return GenerationResult{
		Text:     strings.TrimSpace(text),
		ModelID:  modelID,
		Accepted: true,
	}
}

// AcceptableResponse reports whether generated text is substantial
// enough to show: at least 50 characters once trimmed.
func AcceptableResponse(text string) bool {
	return len(strings.TrimSpace(text)) >= minResponseLength
}

// complete handles the actual HTTP request to the inference endpoint.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := inferencePayload{
		Inputs: prompt,
		Parameters: inferenceParameters{
			Temperature:       temperature,
			MaxNewTokens:      maxNewTokens,
			TopP:              topP,
			RepetitionPenalty: repetitionPenalty,
			ReturnFullText:    false,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, string(body))
	}

	var decoded inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded) == 0 {
		return "", fmt.Errorf("no content found in inference response")
	}

	return decoded[0].GeneratedText, nil
}
