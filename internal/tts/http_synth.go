package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPSynthesizer calls an external text-to-speech service that accepts
// {"text": ...} and answers {"audioUrl": ...}.
type HTTPSynthesizer struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPSynthesizer creates a synthesizer for the given endpoint.
func NewHTTPSynthesizer(endpoint string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type synthRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type synthResponse struct {
	AudioURL string `json:"audioUrl"`
}

// Synthesize requests audio for text and returns its URL.
func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(synthRequest{Text: text, Language: "gu-IN"})
	if err != nil {
		return "", fmt.Errorf("marshal tts request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", s.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tts service returned status %d", resp.StatusCode)
	}

	var parsed synthResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("parse tts response: %w", err)
	}
	if parsed.AudioURL == "" {
		return "", fmt.Errorf("tts response missing audio url")
	}
	return parsed.AudioURL, nil
}
