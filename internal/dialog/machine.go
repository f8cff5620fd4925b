package dialog

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/intent"
	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// Advisor is an optional second-opinion intent classifier, typically an
// LLM. It is advisory only: any error is swallowed by the machine and the
// keyword result stands. Implementations own their timeout.
type Advisor interface {
	Classify(ctx context.Context, utterance string) (types.IntentLabel, error)
}

// Config tunes the state machine.
type Config struct {
	// MinConfidence gates commitment to a terminal branch; a DONE or
	// PENDING below this floor routes through the escalation ladder.
	MinConfidence int
	// MinWords is the degenerate-input threshold after normalization.
	MinWords int
	// CallbackConfirmTerminal ends the call on CALLBACK_CONFIRM.
	CallbackConfirmTerminal bool
}

// Outcome is the effect of one turn: the next state, what the agent says,
// and whether the call ends. Pure output; the caller applies it to the
// session under the session lock.
type Outcome struct {
	Next         types.DialogState
	Prompt       string
	Hangup       bool
	Result       string
	UnclearCount int
	Confidence   int
	CallbackTime string
}

// Machine is the dialogue transition function. It holds no per-call
// state; everything it needs arrives as arguments, so every transition is
// testable in isolation.
type Machine struct {
	cfg     Config
	advisor Advisor
	logger  zerolog.Logger
}

// NewMachine creates a dialogue state machine. advisor may be nil.
func NewMachine(cfg Config, advisor Advisor, logger zerolog.Logger) *Machine {
	if cfg.MinConfidence == 0 {
		cfg.MinConfidence = 70
	}
	if cfg.MinWords == 0 {
		cfg.MinWords = 1
	}
	return &Machine{cfg: cfg, advisor: advisor, logger: logger}
}

// IsTerminal reports whether reaching state ends the call.
func (m *Machine) IsTerminal(state types.DialogState) bool {
	switch state {
	case types.StateTaskDone, types.StateProblemRecorded, types.StateEscalate:
		return true
	case types.StateCallbackConfirm:
		return m.cfg.CallbackConfirmTerminal
	}
	return false
}

// resultFor maps a terminal state to its call log label.
func resultFor(state types.DialogState) string {
	switch state {
	case types.StateTaskDone:
		return types.ResultCompleted
	case types.StateProblemRecorded:
		return types.ResultProblemRecorded
	case types.StateEscalate:
		return types.ResultEscalated
	case types.StateCallbackConfirm:
		return types.ResultCallback
	}
	return ""
}

// Next consumes one caller utterance and produces the transition for the
// current state. unclear and confidence are the session's running values;
// the returned Outcome carries their successors.
func (m *Machine) Next(ctx context.Context, state types.DialogState, unclear int, raw string) Outcome {
	// A terminal session should already be evicted; if a stale delivery
	// still lands here, end the call without fabricating a turn.
	if m.IsTerminal(state) {
		return Outcome{Next: state, Hangup: true, UnclearCount: unclear}
	}

	norm := intent.Normalize(raw)

	// Deferral outranks everything else, including the empty-input
	// check: the caller asking to be called back is never "unclear".
	if state == types.StateIntro && intent.IsBusy(norm) {
		return m.outcome(types.StateCallbackTime, 0, 0, "")
	}

	if norm == "" || intent.WordCount(norm) < m.cfg.MinWords {
		// A filler-only reply at the intro ("હા", "ઓકે") is consent,
		// not noise; normalization strips it to nothing.
		if state == types.StateIntro && strings.TrimSpace(raw) != "" {
			return m.outcome(types.StateTaskCheck, unclear, 0, "")
		}
		metrics.Get().RecordDegenerateInput()
		unclear++
		return m.outcome(NextOnUnclear(unclear), unclear, 0, "")
	}

	switch state {
	case types.StateIntro:
		// The intro turn only establishes consent; content is ignored.
		return m.outcome(types.StateTaskCheck, unclear, 0, "")

	case types.StateCallbackTime:
		return m.outcome(types.StateCallbackConfirm, unclear, 0, strings.TrimSpace(raw))

	case types.StateTaskPending:
		// Whatever the caller says here is the problem description.
		return m.outcome(types.StateProblemRecorded, unclear, 0, "")
	}

	label, conf := intent.Classify(norm)
	if conf < m.cfg.MinConfidence {
		label, conf = m.consultAdvisor(ctx, norm, label, conf)
	}

	if conf >= m.cfg.MinConfidence {
		switch label {
		case types.IntentDone:
			return m.outcome(types.StateTaskDone, unclear, conf, "")
		case types.IntentPending:
			return m.outcome(types.StateTaskPending, unclear, conf, "")
		}
	}

	unclear++
	return m.outcome(NextOnUnclear(unclear), unclear, conf, "")
}

// consultAdvisor asks the LLM for a second opinion on a low-confidence
// turn. It can only lift an UNCLEAR to a definite label or confirm the
// keyword label; on error, timeout or disagreement the keyword result
// stands untouched.
func (m *Machine) consultAdvisor(ctx context.Context, norm string, label types.IntentLabel, conf int) (types.IntentLabel, int) {
	if m.advisor == nil {
		return label, conf
	}

	advised, err := m.advisor.Classify(ctx, norm)
	if err != nil {
		m.logger.Debug().Err(err).Msg("advisory classifier failed, keyword result stands")
		return label, conf
	}

	switch {
	case advised == label && label != types.IntentUnclear:
		return label, m.cfg.MinConfidence
	case label == types.IntentUnclear && (advised == types.IntentDone || advised == types.IntentPending):
		return advised, m.cfg.MinConfidence
	}
	return label, conf
}

func (m *Machine) outcome(next types.DialogState, unclear, conf int, callback string) Outcome {
	out := Outcome{
		Next:         next,
		Prompt:       Prompt(next),
		UnclearCount: unclear,
		Confidence:   conf,
		CallbackTime: callback,
	}
	if m.IsTerminal(next) {
		out.Hangup = true
		out.Result = resultFor(next)
	}
	return out
}
