package telephony

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/RuhiModi/exotel-voice-agent/internal/config"
)

// TwilioProvider places calls through the Twilio Voice API.
type TwilioProvider struct {
	client    *twilio.RestClient
	from      string
	voiceURL  string
	statusURL string
	logger    zerolog.Logger
}

// NewTwilioProvider creates a Twilio-backed provider.
func NewTwilioProvider(cfg *config.Config, logger zerolog.Logger) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &TwilioProvider{
		client:    client,
		from:      cfg.TwilioFrom,
		voiceURL:  cfg.PublicBaseURL + "/webhook/voice",
		statusURL: cfg.PublicBaseURL + "/webhook/status",
		logger:    logger,
	}
}

// PlaceCall dials phone; the Twilio SDK has no context plumbing, so ctx
// is only honored before the request is issued.
func (p *TwilioProvider) PlaceCall(ctx context.Context, phone string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioapi.CreateCallParams{}
	params.SetTo(phone)
	params.SetFrom(p.from)
	params.SetUrl(p.voiceURL)
	params.SetStatusCallback(p.statusURL)
	params.SetStatusCallbackEvent([]string{"completed", "busy", "failed", "no-answer"})

	resp, err := p.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("twilio create call: %w", err)
	}
	if resp.Sid == nil {
		return "", fmt.Errorf("twilio response missing call sid")
	}

	p.logger.Debug().Str("call_sid", *resp.Sid).Msg("twilio call created")
	return *resp.Sid, nil
}
