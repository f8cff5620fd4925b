// Package calllog writes the terminal record for a call session, exactly
// once per session id, regardless of whether the session ended by reaching
// a terminal dialogue state or by an out-of-band provider status callback.
package calllog

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/session"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// RecordStore is the subset of storage.Store the logger needs.
type RecordStore interface {
	SaveCallRecord(record types.CallRecord) error
}

// BatchTracker marks a campaign number's final dispatch status.
type BatchTracker interface {
	UpdateDispatchStatus(batchID, phone string, status types.DispatchStatus, callID string) error
}

// Logger closes sessions: it flips the one-shot terminal guard, evicts the
// session from the store, and persists the record best-effort.
type Logger struct {
	store    RecordStore
	sessions *session.Store
	tracker  BatchTracker
	retryIn  time.Duration
	logger   zerolog.Logger
}

// New creates a completion logger. tracker may be nil.
func New(store RecordStore, sessions *session.Store, tracker BatchTracker, logger zerolog.Logger) *Logger {
	return &Logger{
		store:    store,
		sessions: sessions,
		tracker:  tracker,
		retryIn:  2 * time.Second,
		logger:   logger,
	}
}

// Finalize closes the session with the given result. Returns true only
// for the single caller that won the terminal guard; every later call is
// a no-op. The session is unaddressable by the time this returns; the
// sink write itself is asynchronous and must never delay call teardown.
func (l *Logger) Finalize(s *session.Session, result string) bool {
	s.Lock()
	won := s.TryFinalize(result)
	var rec types.CallRecord
	if won {
		rec = s.Record()
	}
	s.Unlock()

	if !won {
		return false
	}

	l.sessions.Delete(rec.CallID)
	metrics.Get().RecordSessionClosed(rec.Result)

	go l.persist(rec)
	return true
}

// persist writes the record with a single retry. A failed write never
// reaches the caller; it is surfaced on the operator log and counted.
func (l *Logger) persist(rec types.CallRecord) {
	err := l.store.SaveCallRecord(rec)
	if err != nil {
		l.logger.Warn().Err(err).Str("call_id", rec.CallID).Msg("call record write failed, retrying")
		time.Sleep(l.retryIn)
		err = l.store.SaveCallRecord(rec)
	}
	if err != nil {
		metrics.Get().RecordLogFailure()
		l.logger.Error().Err(err).
			Str("call_id", rec.CallID).
			Str("result", rec.Result).
			Msg("call record lost after retry, manual recovery needed")
		return
	}
	metrics.Get().RecordLogWrite()

	if l.tracker != nil && rec.BatchID != "" {
		if err := l.tracker.UpdateDispatchStatus(rec.BatchID, rec.Phone, types.DispatchCompleted, rec.CallID); err != nil {
			l.logger.Warn().Err(err).
				Str("batch_id", rec.BatchID).
				Str("phone", rec.Phone).
				Msg("failed to update dispatch tracking row")
		}
	}
}
