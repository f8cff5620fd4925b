package intent

import (
	"testing"

	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

func TestClassifyDecisionTable(t *testing.T) {
	cases := []struct {
		name       string
		utterance  string
		label      types.IntentLabel
		confidence int
	}{
		{"done only", "હા કામ થઈ ગયું", types.IntentDone, 90},
		{"done only alternate phrase", "મારું કામ પતી ગયું છે", types.IntentDone, 90},
		{"pending only", "કામ પૂર્ણ નથી", types.IntentPending, 90},
		{"pending only baki", "હજી બાકી છે", types.IntentPending, 90},
		{"both signals", "થઈ ગયું પણ થોડું બાકી છે", types.IntentUnclear, 40},
		{"neither", "વાત કરવી છે", types.IntentUnclear, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			norm := Normalize(tc.utterance)
			label, conf := Classify(norm)
			if label != tc.label {
				t.Errorf("label = %s, want %s (normalized %q)", label, tc.label, norm)
			}
			if conf != tc.confidence {
				t.Errorf("confidence = %d, want %d", conf, tc.confidence)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	norm := Normalize("કામ થઈ ગયું")
	l1, c1 := Classify(norm)
	for i := 0; i < 10; i++ {
		l2, c2 := Classify(norm)
		if l1 != l2 || c1 != c2 {
			t.Fatalf("classification changed between runs: %s/%d vs %s/%d", l1, c1, l2, c2)
		}
	}
}

func TestClassifyMixedLanguage(t *testing.T) {
	// Transliterated and English loanwords go through the domain
	// dictionary before matching.
	cases := []struct {
		utterance string
		label     types.IntentLabel
	}{
		{"kaam thai gayu", types.IntentDone},
		{"work is done", types.IntentDone},
		{"kaam baki che", types.IntentPending},
		{"not completed", types.IntentUnclear}, // "નથી" + "પતી ગયું": contradictory
	}

	for _, tc := range cases {
		label, _ := Classify(Normalize(tc.utterance))
		if label != tc.label {
			t.Errorf("Classify(%q) = %s, want %s", tc.utterance, label, tc.label)
		}
	}
}

func TestNormalizeStripsFillers(t *testing.T) {
	if got := Normalize("હા ઓકે હા"); got != "" {
		t.Errorf("expected fillers to normalize to empty, got %q", got)
	}
	if got := Normalize("હા, કામ બાકી!"); got != "કામ બાકી" {
		t.Errorf("unexpected normalization: %q", got)
	}
}

func TestIsBusyRequiresTwoSignals(t *testing.T) {
	cases := []struct {
		name      string
		utterance string
		busy      bool
	}{
		{"two signals", "હું અત્યારે મીટિંગ માં છું", true},
		{"busy plus later", "વ્યસ્ત છું પછી વાત કરીએ", true},
		{"transliterated", "busy chu pachhi call karo", true},
		{"single signal", "પછી વાત કરીએ", false},
		{"no signal", "કામ થઈ ગયું", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsBusy(Normalize(tc.utterance)); got != tc.busy {
				t.Errorf("IsBusy = %v, want %v", got, tc.busy)
			}
		})
	}
}

func TestBusyWinsOverTaskKeywords(t *testing.T) {
	// An utterance carrying both task-status and busy signals still
	// reads as busy; the state machine checks deferral first.
	norm := Normalize("કામ થઈ ગયું પણ અત્યારે સમય નથી")
	if !IsBusy(norm) {
		t.Error("expected busy intent to be detected alongside task keywords")
	}
}
