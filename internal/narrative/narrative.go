// Package narrative talks to an external text service for the two
// best-effort flourishes of the game: the case narrative written once the
// murder is committed, and free-form clue evaluation. The game never
// blocks on either; failures degrade to silence.
package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CaseFacts is everything the service needs to write the story of the
// crime. It is assembled at murder confirmation, so there is no outcome
// in it.
type CaseFacts struct {
	MurdererName string   `json:"murderer_name"`
	MeansName    string   `json:"means_name"`
	EvidenceName string   `json:"evidence_name"`
	LocationName string   `json:"location_name"`
	Clues        []string `json:"clues,omitempty"`
}

// ClueQuestion is a player's free-form question about the scene.
type ClueQuestion struct {
	Question string   `json:"question"`
	Scene    []string `json:"scene,omitempty"`
}

// Generator produces the narrative for a committed case.
type Generator interface {
	CaseNarrative(ctx context.Context, facts CaseFacts) (string, error)
}

// ClueEvaluator answers a player's question about the visible clues.
type ClueEvaluator interface {
	EvaluateClue(ctx context.Context, q ClueQuestion) (string, error)
}

// Client calls an HTTP text service exposing /v1/narrative and /v1/clue.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type textResponse struct {
	Text string `json:"text"`
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("call %s: status %d", path, resp.StatusCode)
	}
	var out textResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode %s response: %w", path, err)
	}
	if out.Text == "" {
		return "", fmt.Errorf("empty text from %s", path)
	}
	return out.Text, nil
}

// CaseNarrative implements Generator.
func (c *Client) CaseNarrative(ctx context.Context, facts CaseFacts) (string, error) {
	return c.post(ctx, "/v1/narrative", facts)
}

// EvaluateClue implements ClueEvaluator.
func (c *Client) EvaluateClue(ctx context.Context, q ClueQuestion) (string, error) {
	return c.post(ctx, "/v1/clue", q)
}

// Disabled is the no-service fallback: a fixed closing line and a polite
// refusal for clue questions.
type Disabled struct{}

// CaseNarrative implements Generator.
func (Disabled) CaseNarrative(_ context.Context, facts CaseFacts) (string, error) {
	return fmt.Sprintf("The case is closed. %s struck with %s, leaving behind %s.",
		facts.MurdererName, facts.MeansName, facts.EvidenceName), nil
}

// EvaluateClue implements ClueEvaluator.
func (Disabled) EvaluateClue(_ context.Context, _ ClueQuestion) (string, error) {
	return "The scene offers no further answers. Study the markers.", nil
}
