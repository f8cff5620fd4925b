package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// fakeAdvisor returns a fixed answer or error.
type fakeAdvisor struct {
	label  types.IntentLabel
	err    error
	called int
}

func (f *fakeAdvisor) Classify(_ context.Context, _ string) (types.IntentLabel, error) {
	f.called++
	return f.label, f.err
}

func newTestMachine(advisor Advisor) *Machine {
	return NewMachine(Config{
		MinConfidence:           70,
		MinWords:                1,
		CallbackConfirmTerminal: true,
	}, advisor, zerolog.Nop())
}

func TestIntroAlwaysAdvancesToTaskCheck(t *testing.T) {
	m := newTestMachine(nil)

	// Even a clean pending-keyword utterance must not skip ahead; the
	// intro turn only establishes consent.
	out := m.Next(context.Background(), types.StateIntro, 0, "કામ પૂર્ણ નથી")
	if out.Next != types.StateTaskCheck {
		t.Fatalf("INTRO advanced to %s, want TASK_CHECK", out.Next)
	}
	if out.Hangup {
		t.Error("INTRO transition must not hang up")
	}

	// A bare acknowledgement is consent even though normalization strips
	// it to nothing.
	out = m.Next(context.Background(), types.StateIntro, 0, "હા")
	if out.Next != types.StateTaskCheck {
		t.Fatalf("filler-only consent moved to %s, want TASK_CHECK", out.Next)
	}

	// Dead air at the intro is still degenerate input.
	out = m.Next(context.Background(), types.StateIntro, 0, "")
	if out.Next != types.StateRetryTaskCheck || out.UnclearCount != 1 {
		t.Fatalf("empty intro turn = %s/%d, want RETRY_TASK_CHECK/1", out.Next, out.UnclearCount)
	}
}

func TestBusyIntentOutranksTaskKeywords(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateIntro, 0, "કામ થઈ ગયું પણ અત્યારે સમય નથી")
	if out.Next != types.StateCallbackTime {
		t.Fatalf("busy utterance moved to %s, want CALLBACK_TIME", out.Next)
	}
	if out.UnclearCount != 0 {
		t.Errorf("busy path must reset unclear count, got %d", out.UnclearCount)
	}
}

func TestSingleBusyKeywordDoesNotDefer(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateIntro, 0, "પછી શું કરવાનું")
	if out.Next != types.StateTaskCheck {
		t.Fatalf("single busy keyword moved to %s, want TASK_CHECK", out.Next)
	}
}

func TestTaskCheckCleanAnswers(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateTaskCheck, 0, "હા કામ થઈ ગયું")
	if out.Next != types.StateTaskDone {
		t.Fatalf("done answer moved to %s, want TASK_DONE", out.Next)
	}
	if !out.Hangup || out.Result != types.ResultCompleted {
		t.Errorf("TASK_DONE must end the call with result completed, got hangup=%v result=%q", out.Hangup, out.Result)
	}

	out = m.Next(context.Background(), types.StateTaskCheck, 0, "ના હજી બાકી છે")
	if out.Next != types.StateTaskPending {
		t.Fatalf("pending answer moved to %s, want TASK_PENDING", out.Next)
	}
	if out.Hangup {
		t.Error("TASK_PENDING is not terminal")
	}
}

func TestContradictorySignalsGoToLadder(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateTaskCheck, 0, "થઈ ગયું પણ બાકી છે")
	if out.Next != types.StateRetryTaskCheck {
		t.Fatalf("ambiguous answer moved to %s, want RETRY_TASK_CHECK", out.Next)
	}
	if out.UnclearCount != 1 {
		t.Errorf("unclear count = %d, want 1", out.UnclearCount)
	}
	if out.Confidence != 40 {
		t.Errorf("confidence = %d, want 40", out.Confidence)
	}
}

func TestThreeUnclearTurnsEscalate(t *testing.T) {
	m := newTestMachine(nil)

	state := types.StateTaskCheck
	unclear := 0
	var out Outcome
	for i := 0; i < 3; i++ {
		out = m.Next(context.Background(), state, unclear, "કંઈક અસ્પષ્ટ જવાબ")
		state = out.Next
		unclear = out.UnclearCount
	}

	if state != types.StateEscalate {
		t.Fatalf("after three unclear turns state = %s, want ESCALATE", state)
	}
	if !out.Hangup || out.Result != types.ResultEscalated {
		t.Errorf("escalation must end the call, got hangup=%v result=%q", out.Hangup, out.Result)
	}
}

func TestEmptyInputSkipsClassification(t *testing.T) {
	m := newTestMachine(nil)

	for _, utterance := range []string{"", "   ", "હા"} { // filler-only normalizes to empty
		out := m.Next(context.Background(), types.StateTaskCheck, 0, utterance)
		if out.Next != types.StateRetryTaskCheck {
			t.Errorf("degenerate input %q moved to %s, want RETRY_TASK_CHECK", utterance, out.Next)
		}
		if out.Confidence != 0 {
			t.Errorf("degenerate input must not produce a confidence score, got %d", out.Confidence)
		}
	}
}

func TestTaskPendingRecordsProblem(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateTaskPending, 0, "તલાટી ઓફિસ બંધ હતી")
	if out.Next != types.StateProblemRecorded {
		t.Fatalf("problem description moved to %s, want PROBLEM_RECORDED", out.Next)
	}
	if !out.Hangup || out.Result != types.ResultProblemRecorded {
		t.Errorf("PROBLEM_RECORDED must end the call, got hangup=%v result=%q", out.Hangup, out.Result)
	}
}

func TestCallbackTimeCapturesRawUtterance(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateCallbackTime, 0, "કાલે સવારે દસ વાગ્યે")
	if out.Next != types.StateCallbackConfirm {
		t.Fatalf("callback time moved to %s, want CALLBACK_CONFIRM", out.Next)
	}
	if out.CallbackTime != "કાલે સવારે દસ વાગ્યે" {
		t.Errorf("callback time = %q, want the raw utterance", out.CallbackTime)
	}
	if !out.Hangup || out.Result != types.ResultCallback {
		t.Errorf("CALLBACK_CONFIRM is terminal by default, got hangup=%v result=%q", out.Hangup, out.Result)
	}
}

func TestCallbackConfirmNonTerminalConfig(t *testing.T) {
	m := NewMachine(Config{MinConfidence: 70, MinWords: 1, CallbackConfirmTerminal: false}, nil, zerolog.Nop())

	out := m.Next(context.Background(), types.StateCallbackTime, 0, "સાંજે પાંચ વાગ્યે")
	if out.Hangup {
		t.Error("CALLBACK_CONFIRM configured non-terminal must not hang up")
	}
}

func TestTerminalStateTurnIsSafeNoop(t *testing.T) {
	m := newTestMachine(nil)

	out := m.Next(context.Background(), types.StateEscalate, 3, "હજી બાકી છે")
	if !out.Hangup {
		t.Error("turn on a terminal state must hang up")
	}
	if out.Result != "" {
		t.Errorf("stale terminal turn must not produce a result, got %q", out.Result)
	}
}

func TestAdvisorResolvesUnclear(t *testing.T) {
	advisor := &fakeAdvisor{label: types.IntentPending}
	m := newTestMachine(advisor)

	out := m.Next(context.Background(), types.StateTaskCheck, 0, "થઈ ગયું પણ બાકી છે")
	if advisor.called != 1 {
		t.Fatalf("advisor called %d times, want 1", advisor.called)
	}
	if out.Next != types.StateTaskPending {
		t.Errorf("advisor-resolved turn moved to %s, want TASK_PENDING", out.Next)
	}
}

func TestAdvisorFailureIsSwallowed(t *testing.T) {
	advisor := &fakeAdvisor{err: errors.New("upstream timeout")}
	m := newTestMachine(advisor)

	out := m.Next(context.Background(), types.StateTaskCheck, 0, "થઈ ગયું પણ બાકી છે")
	if out.Next != types.StateRetryTaskCheck {
		t.Errorf("failed advisor must leave keyword result standing, got %s", out.Next)
	}
}

func TestAdvisorNotConsultedOnConfidentMatch(t *testing.T) {
	advisor := &fakeAdvisor{label: types.IntentPending}
	m := newTestMachine(advisor)

	out := m.Next(context.Background(), types.StateTaskCheck, 0, "કામ થઈ ગયું")
	if advisor.called != 0 {
		t.Errorf("advisor called %d times on a confident keyword match, want 0", advisor.called)
	}
	if out.Next != types.StateTaskDone {
		t.Errorf("confident DONE moved to %s, want TASK_DONE", out.Next)
	}
}

func TestAdvisorUnclearAnswerStaysOnLadder(t *testing.T) {
	advisor := &fakeAdvisor{label: types.IntentUnclear}
	m := newTestMachine(advisor)

	out := m.Next(context.Background(), types.StateTaskCheck, 1, "કંઈક અસ્પષ્ટ")
	if out.Next != types.StateConfirmTask {
		t.Errorf("second unclear turn moved to %s, want CONFIRM_TASK", out.Next)
	}
	if out.UnclearCount != 2 {
		t.Errorf("unclear count = %d, want 2", out.UnclearCount)
	}
}
