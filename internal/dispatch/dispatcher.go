// Package dispatch creates outbound calls, singly or as throttled bulk
// campaigns, and registers the session for each call before the provider
// can possibly deliver a webhook for it.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/session"
	"github.com/RuhiModi/exotel-voice-agent/internal/telephony"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// Tracker is the subset of storage.Store used for campaign bookkeeping.
type Tracker interface {
	PutDispatchRow(row types.DispatchRow) error
	UpdateDispatchStatus(batchID, phone string, status types.DispatchStatus, callID string) error
}

// Dispatcher places outbound calls and seeds their sessions.
type Dispatcher struct {
	provider    telephony.Provider
	sessions    *session.Store
	tracker     Tracker
	delay       time.Duration
	countryCode string
	logger      zerolog.Logger

	// baseCtx bounds background bulk runs; cancelled on shutdown.
	baseCtx context.Context
}

// New creates a dispatcher. delay is the fixed stagger between bulk calls.
func New(ctx context.Context, provider telephony.Provider, sessions *session.Store, tracker Tracker, delay time.Duration, countryCode string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		provider:    provider,
		sessions:    sessions,
		tracker:     tracker,
		delay:       delay,
		countryCode: countryCode,
		logger:      logger,
		baseCtx:     ctx,
	}
}

// CallOne places a single call and creates its session. The session
// exists before this returns, so the entry webhook can never observe a
// dispatched call without one.
func (d *Dispatcher) CallOne(ctx context.Context, phone string) (string, error) {
	return d.place(ctx, phone, "")
}

func (d *Dispatcher) place(ctx context.Context, phone, batchID string) (string, error) {
	callID, err := d.provider.PlaceCall(ctx, phone)
	if err != nil {
		metrics.Get().RecordDispatchFailure()
		return "", fmt.Errorf("place call to %s: %w", phone, err)
	}

	normalized := telephony.NormalizePhone(phone, d.countryCode)
	if _, err := d.sessions.Create(callID, normalized, batchID); err != nil {
		// Duplicate provider sid; the existing conversation owns it.
		return "", fmt.Errorf("register session: %w", err)
	}

	metrics.Get().RecordDispatch()
	d.logger.Info().
		Str("call_id", callID).
		Str("phone", normalized).
		Str("batch_id", batchID).
		Msg("outbound call dispatched")

	return callID, nil
}

// CallBulk schedules a staggered call per phone number and returns the
// scheduled count immediately; the dialing happens in the background.
// Per-number failures are recorded on the tracking row and never touch
// their siblings. Nothing retries automatically.
func (d *Dispatcher) CallBulk(phones []string, batchID string) (string, int) {
	if batchID == "" {
		batchID = uuid.New().String()
	}
	metrics.Get().RecordBatch()

	for _, phone := range phones {
		row := types.DispatchRow{
			BatchID:   batchID,
			Phone:     telephony.NormalizePhone(phone, d.countryCode),
			Status:    types.DispatchScheduled,
			UpdatedAt: time.Now(),
		}
		if err := d.tracker.PutDispatchRow(row); err != nil {
			d.logger.Warn().Err(err).Str("phone", row.Phone).Msg("failed to write dispatch row")
		}
	}

	go d.runBatch(phones, batchID)
	return batchID, len(phones)
}

func (d *Dispatcher) runBatch(phones []string, batchID string) {
	d.logger.Info().
		Str("batch_id", batchID).
		Int("count", len(phones)).
		Dur("delay", d.delay).
		Msg("bulk dispatch started")

	for i, phone := range phones {
		if i > 0 {
			select {
			case <-d.baseCtx.Done():
				d.logger.Warn().Str("batch_id", batchID).Int("remaining", len(phones)-i).Msg("bulk dispatch aborted by shutdown")
				return
			case <-time.After(d.delay):
			}
		}

		normalized := telephony.NormalizePhone(phone, d.countryCode)
		callID, err := d.place(d.baseCtx, phone, batchID)
		if err != nil {
			d.logger.Error().Err(err).
				Str("batch_id", batchID).
				Str("phone", normalized).
				Msg("bulk call failed")
			if uerr := d.tracker.UpdateDispatchStatus(batchID, normalized, types.DispatchFailed, ""); uerr != nil {
				d.logger.Warn().Err(uerr).Str("phone", normalized).Msg("failed to mark dispatch row Failed")
			}
			continue
		}

		if err := d.tracker.UpdateDispatchStatus(batchID, normalized, types.DispatchInitiated, callID); err != nil {
			d.logger.Warn().Err(err).Str("phone", normalized).Msg("failed to mark dispatch row Initiated")
		}
	}

	d.logger.Info().Str("batch_id", batchID).Msg("bulk dispatch finished")
}
