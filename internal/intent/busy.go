package intent

import "strings"

// busySignals indicate the caller wants to defer the conversation.
var busySignals = []string{
	"વ્યસ્ત",
	"પછી",
	"અત્યારે",
	"સમય",
	"મીટિંગ",
	"બહાર",
	"કામમાં",
	"ફ્રી નથી",
	"કૉલ કરો",
}

// MinBusySignals is the number of distinct busy keywords required before
// the deferral branch fires. Two, not one: short acknowledgements like
// "અત્યારે કરું" must not be read as a callback request.
const MinBusySignals = 2

// IsBusy reports whether the normalized utterance carries at least
// MinBusySignals independent busy keywords.
func IsBusy(norm string) bool {
	count := 0
	for _, s := range busySignals {
		if strings.Contains(norm, s) {
			count++
			if count >= MinBusySignals {
				return true
			}
		}
	}
	return false
}
