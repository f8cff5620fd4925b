package intent

import (
	"strings"

	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// Confidence levels produced by Classify. Contradictory signals score
// higher than a total miss: they still carry partial understanding.
const (
	ConfidenceMatch     = 90
	ConfidenceAmbiguous = 40
	ConfidenceNoSignal  = 30
)

// doneSignals are phrases indicating the administrative task is finished.
// Full phrases, not bare words: "પૂર્ણ" alone also appears in "પૂર્ણ નથી"
// (not complete), which must read as pending.
var doneSignals = []string{
	"થઈ ગયું",
	"પતી ગયું",
	"પૂર્ણ થયું",
	"પૂરું થયું",
	"મળી ગયું",
	"થઈ ગઈ",
}

// pendingSignals indicate the task is still open.
var pendingSignals = []string{
	"નથી",
	"બાકી",
	"અધૂરું",
	"પેન્ડિંગ",
	"રાહ જોઉં",
	"હજી",
}

// Classify maps a normalized utterance to an intent label with a 0-100
// confidence. Pure and deterministic; keyword tables are data, adding a
// signal never changes this logic.
func Classify(norm string) (types.IntentLabel, int) {
	done := matchesAny(norm, doneSignals)
	pending := matchesAny(norm, pendingSignals)

	switch {
	case done && pending:
		return types.IntentUnclear, ConfidenceAmbiguous
	case done:
		return types.IntentDone, ConfidenceMatch
	case pending:
		return types.IntentPending, ConfidenceMatch
	default:
		return types.IntentUnclear, ConfidenceNoSignal
	}
}

func matchesAny(norm string, signals []string) bool {
	for _, s := range signals {
		if strings.Contains(norm, s) {
			return true
		}
	}
	return false
}
