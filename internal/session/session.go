package session

import (
	"strings"
	"sync"
	"time"

	"github.com/RuhiModi/exotel-voice-agent/internal/dialog"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// Session is one in-flight outbound call. All field access after creation
// must happen under the session lock; the store hands out pointers, the
// lock is the single synchronization point for a call id.
type Session struct {
	mu sync.Mutex

	ID      string
	Phone   string
	BatchID string

	State           types.DialogState
	UnclearCount    int
	ConfidenceScore int

	AgentTranscript []string
	UserTranscript  []string
	Trace           []types.TurnTrace
	pendingBuffer   []string

	StartedAt           time.Time
	EndedAt             time.Time
	CallbackRequestedAt string
	Result              string

	logWritten bool
}

func newSession(id, phone, batchID string) *Session {
	return &Session{
		ID:        id,
		Phone:     phone,
		BatchID:   batchID,
		State:     types.StateIntro,
		StartedAt: time.Now(),
	}
}

// Lock acquires the per-session lock. Webhook handlers hold it for the
// whole turn so duplicate or out-of-order deliveries serialize here.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// BufferUtterance appends a not-yet-committed speech fragment. Safe to
// call without holding the lock; the interim transcript stream delivers
// fragments concurrently with turns.
func (s *Session) BufferUtterance(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return
	}
	s.mu.Lock()
	s.pendingBuffer = append(s.pendingBuffer, fragment)
	s.mu.Unlock()
}

// bufferLocked appends a fragment with the lock already held.
func (s *Session) bufferLocked(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment != "" {
		s.pendingBuffer = append(s.pendingBuffer, fragment)
	}
}

// flushPendingLocked joins buffered fragments and commits them to the user
// transcript, once per turn, returning the committed text. A flush
// identical to the last committed entry is dropped: provider webhook
// retries resubmit the same speech. Caller must hold the lock.
func (s *Session) flushPendingLocked() string {
	if len(s.pendingBuffer) == 0 {
		return ""
	}
	joined := strings.Join(s.pendingBuffer, " ")
	s.pendingBuffer = s.pendingBuffer[:0]

	if n := len(s.UserTranscript); n > 0 && s.UserTranscript[n-1] == joined {
		return joined
	}
	s.UserTranscript = append(s.UserTranscript, joined)
	return joined
}

// ApplyTurn commits one machine outcome: buffers and flushes the caller's
// speech, appends the next prompt, and advances the state and counters.
// Caller must hold the lock.
func (s *Session) ApplyTurn(out dialog.Outcome, rawUtterance string) {
	s.bufferLocked(rawUtterance)
	committed := s.flushPendingLocked()

	s.State = out.Next
	s.UnclearCount = out.UnclearCount
	if out.Confidence > 0 {
		// Turns that skip classification keep the last score.
		s.ConfidenceScore = out.Confidence
	}
	if out.CallbackTime != "" {
		s.CallbackRequestedAt = out.CallbackTime
	}

	if out.Prompt != "" {
		s.AgentTranscript = append(s.AgentTranscript, out.Prompt)
	}
	s.Trace = append(s.Trace, types.TurnTrace{
		State: out.Next,
		Agent: out.Prompt,
		User:  committed,
	})
}

// Greet records the opening prompt played when the call is answered.
// Caller must hold the lock.
func (s *Session) Greet(prompt string) {
	s.AgentTranscript = append(s.AgentTranscript, prompt)
	s.Trace = append(s.Trace, types.TurnTrace{State: s.State, Agent: prompt})
}

// TryFinalize flips the one-shot terminal guard. Returns true for
// exactly one caller per session across the turn path and the status
// callback path. Caller must hold the lock.
func (s *Session) TryFinalize(result string) bool {
	if s.logWritten {
		return false
	}
	s.logWritten = true
	s.Result = result
	s.EndedAt = time.Now()
	return true
}

// Record builds the terminal log row from the session. Caller must hold
// the lock; the returned value owns copies of the transcript slices.
func (s *Session) Record() types.CallRecord {
	agent := append([]string(nil), s.AgentTranscript...)
	user := append([]string(nil), s.UserTranscript...)
	trace := append([]types.TurnTrace(nil), s.Trace...)

	return types.CallRecord{
		DateKey:         s.StartedAt.Format("2006-01-02"),
		CallID:          s.ID,
		Phone:           s.Phone,
		BatchID:         s.BatchID,
		StartedAt:       s.StartedAt.Format(time.RFC3339),
		EndedAt:         s.EndedAt.Format(time.RFC3339),
		DurationSecs:    s.EndedAt.Sub(s.StartedAt).Seconds(),
		Result:          s.Result,
		FinalState:      s.State,
		Confidence:      s.ConfidenceScore,
		AgentTranscript: agent,
		UserTranscript:  user,
		CallbackTime:    s.CallbackRequestedAt,
		Trace:           trace,
	}
}
