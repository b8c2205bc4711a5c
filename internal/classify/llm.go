package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/formseed/formseed/internal/config"
	"github.com/formseed/formseed/internal/errs"
	"github.com/formseed/formseed/internal/form"
)

const classifySystemPrompt = "You are an expert at categorizing PDF form fields into specific data types."

// chatMessage is a single message in a chat completion request.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the OpenAI-compatible chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

// chatResponse is the subset of the chat completion response we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// LLMClassifier asks an OpenAI-compatible chat completion endpoint for the
// semantic category of a field. One request per field; responses are a
// single category token.
type LLMClassifier struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewLLMClassifier creates a classifier from the classifier configuration.
func NewLLMClassifier(cfg config.ClassifierConfig) *LLMClassifier {
	return &LLMClassifier{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(cfg.EndpointURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Classify sends a single classification request for the field. Any
// transport, status or parse failure is returned as ClassificationError so
// the caller can fall back to the heuristic.
func (c *LLMClassifier) Classify(ctx context.Context, field form.FormField) (Category, error) {
	if c.apiKey == "" {
		return "", &errs.ClassificationError{Field: field.Name, Err: fmt.Errorf("API key not configured")}
	}

	// Bound the request even when the caller passes a plain context.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	raw, err := c.complete(ctx, classifySystemPrompt, buildClassifyPrompt(field))
	if err != nil {
		return "", &errs.ClassificationError{Field: field.Name, Err: err}
	}

	return ParseCategory(raw), nil
}

// complete performs one chat completion round-trip and returns the trimmed
// message content.
func (c *LLMClassifier) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens:   32,
		Temperature: 0.0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// buildClassifyPrompt renders the per-field classification prompt.
func buildClassifyPrompt(field form.FormField) string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the field name %q", field.Name)
	if field.Label != "" {
		fmt.Fprintf(&b, " and its label %q", field.Label)
	}
	fmt.Fprintf(&b, ", what is the most specific data type from the following list?\n")
	fmt.Fprintf(&b, "List: %s\n", strings.Join(names, ", "))
	b.WriteString("Respond with only a single category from the list.")
	return b.String()
}
