package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cognicore/sentir/pkg/sentir/internalerr"
	"github.com/cognicore/sentir/pkg/sentir/score"
)

// Client calls an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

const scoreSystemPrompt = `You rate the sentiment of corporate and financial documents written in Portuguese or English.
Reply with a single JSON object {"polarity": <number>} where the number is between -1 (very negative) and 1 (very positive).
Reply with nothing else.`

// Score implements score.Scorer by asking the model for a polarity.
// Requests use temperature 0; wrap the client in score.Cached to make repeats exact.
func (c *Client) Score(ctx context.Context, text string) (float64, error) {
	if text == "" {
		return 0, nil
	}
	out, err := c.Chat(ctx, scoreSystemPrompt, text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", internalerr.ErrScoring, err)
	}
	return parsePolarity(out)
}

func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required")
	}
	messages := []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}}
	payload, err := c.send(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("llm: empty response")
	}
	return payload.Choices[0].Message.Content, nil
}

func (c *Client) send(ctx context.Context, messages []chatMessage) (*chatResponse, error) {
	reqBody, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("llm: HTTP %d: %w", resp.StatusCode, err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("llm error: %s", payload.Error.Message)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("llm: HTTP %d", resp.StatusCode)
	}
	return &payload, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// parsePolarity pulls {"polarity": x} out of a reply, tolerating code fences
// and surrounding prose.
func parsePolarity(reply string) (float64, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return 0, fmt.Errorf("%w: no JSON object in reply %q", internalerr.ErrScoring, reply)
	}

	var out struct {
		Polarity *float64 `json:"polarity"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return 0, fmt.Errorf("%w: decode reply: %v", internalerr.ErrScoring, err)
	}
	if out.Polarity == nil {
		return 0, fmt.Errorf("%w: reply has no polarity field", internalerr.ErrScoring)
	}
	if err := score.CheckPolarity(*out.Polarity); err != nil {
		return 0, err
	}
	return *out.Polarity, nil
}
