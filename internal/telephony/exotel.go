package telephony

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/config"
)

// ExotelProvider places calls through the Exotel Connect API. Exotel has
// no Go SDK; this is a plain REST client.
type ExotelProvider struct {
	sid        string
	apiKey     string
	apiToken   string
	subdomain  string
	callerID   string
	webhookURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewExotelProvider creates an Exotel-backed provider.
func NewExotelProvider(cfg *config.Config, logger zerolog.Logger) *ExotelProvider {
	return &ExotelProvider{
		sid:        cfg.ExotelSID,
		apiKey:     cfg.ExotelAPIKey,
		apiToken:   cfg.ExotelAPIToken,
		subdomain:  cfg.ExotelSubdomain,
		callerID:   cfg.CallerID,
		webhookURL: cfg.PublicBaseURL + "/webhook/voice",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// exotelCallResponse is the subset of the Connect API response we read.
type exotelCallResponse struct {
	Call struct {
		Sid    string `json:"Sid"`
		Status string `json:"Status"`
	} `json:"Call"`
	RestException struct {
		Message string `json:"Message"`
	} `json:"RestException"`
}

// PlaceCall dials phone and connects it to the voice webhook flow.
func (p *ExotelProvider) PlaceCall(ctx context.Context, phone string) (string, error) {
	form := url.Values{}
	form.Set("From", phone)
	form.Set("CallerId", p.callerID)
	form.Set("Url", p.webhookURL)
	form.Set("StatusCallback", strings.Replace(p.webhookURL, "/voice", "/status", 1))

	endpoint := fmt.Sprintf("https://%s/v1/Accounts/%s/Calls/connect.json", p.subdomain, p.sid)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build exotel request: %w", err)
	}
	req.SetBasicAuth(p.apiKey, p.apiToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read exotel response: %w", err)
	}

	var parsed exotelCallResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse exotel response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.RestException.Message
		if msg == "" {
			msg = string(body)
		}
		return "", fmt.Errorf("exotel call failed with status %d: %s", resp.StatusCode, msg)
	}
	if parsed.Call.Sid == "" {
		return "", fmt.Errorf("exotel response missing call sid")
	}

	p.logger.Debug().
		Str("call_sid", parsed.Call.Sid).
		Str("status", parsed.Call.Status).
		Msg("exotel call created")

	return parsed.Call.Sid, nil
}
