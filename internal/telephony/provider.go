// Package telephony wraps the outbound calling provider behind a narrow
// interface: place a call, get back the provider's call id. Everything
// else (speech, termination) arrives later on the webhooks.
package telephony

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/config"
)

// Provider places outbound calls.
type Provider interface {
	// PlaceCall dials phone and returns the provider-assigned call id.
	// The provider will hit the configured webhooks once answered.
	PlaceCall(ctx context.Context, phone string) (string, error)
}

// New selects the provider from configuration.
func New(cfg *config.Config, logger zerolog.Logger) (Provider, error) {
	switch cfg.TelephonyProvider {
	case "exotel":
		return NewExotelProvider(cfg, logger), nil
	case "twilio":
		return NewTwilioProvider(cfg, logger), nil
	case "none":
		logger.Warn().Msg("telephony disabled, using fake provider")
		return &FakeProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown telephony provider %q", cfg.TelephonyProvider)
	}
}

// FakeProvider assigns ids without dialing. Used in development so the
// webhook flow can be driven by hand.
type FakeProvider struct{}

func (f *FakeProvider) PlaceCall(_ context.Context, _ string) (string, error) {
	return "local-" + uuid.New().String(), nil
}

// NormalizePhone reduces a dialable number to digits with the country
// code and trunk prefix stripped, for matching against tracking rows.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	// Strip the country code only when a full national number remains;
	// plenty of valid subscriber numbers start with the same digits.
	if countryCode != "" && strings.HasPrefix(digits, countryCode) && len(digits)-len(countryCode) >= 10 {
		digits = digits[len(countryCode):]
	}
	digits = strings.TrimPrefix(digits, "0")
	return digits
}
