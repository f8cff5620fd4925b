package dialog

import "github.com/RuhiModi/exotel-voice-agent/internal/types"

// NextOnUnclear maps the running unclear counter to the next recovery
// state. The mapping is total and monotone: once a session escalates it
// never returns to the automated flow.
func NextOnUnclear(count int) types.DialogState {
	switch {
	case count <= 1:
		return types.StateRetryTaskCheck
	case count == 2:
		return types.StateConfirmTask
	default:
		return types.StateEscalate
	}
}
