package dialog

import "github.com/RuhiModi/exotel-voice-agent/internal/types"

// prompts holds the fixed Gujarati prompt spoken on entry to each state.
// Keys double as stable cache keys for synthesized audio.
var prompts = map[types.DialogState]string{
	types.StateIntro:           "નમસ્તે, હું સરકારી સેવા કેન્દ્ર તરફથી બોલું છું. શું આપની પાસે બે મિનિટ છે?",
	types.StateTaskCheck:       "આપનું અરજીનું કામ પૂર્ણ થયું છે કે હજી બાકી છે?",
	types.StateTaskDone:        "સરસ! આપનો સમય આપવા બદલ આભાર. નમસ્તે.",
	types.StateTaskPending:     "સમજાયું. કૃપા કરીને ટૂંકમાં જણાવો કે શું અડચણ આવી રહી છે?",
	types.StateProblemRecorded: "આપની સમસ્યા નોંધી લીધી છે. અમારી ટીમ તેના પર કામ કરશે. આભાર.",
	types.StateRetryTaskCheck:  "માફ કરશો, ફરી પૂછું છું. આપનું કામ પૂર્ણ થયું છે કે બાકી છે?",
	types.StateConfirmTask:     "ચોક્કસ કરવા માટે, કૃપા કરીને માત્ર 'થઈ ગયું' અથવા 'બાકી છે' કહો.",
	types.StateEscalate:        "કોઈ વાંધો નહીં. અમારા પ્રતિનિધિ આપનો સંપર્ક કરશે. આભાર.",
	types.StateCallbackTime:    "ઠીક છે. અમે ક્યારે ફરી કૉલ કરીએ? સમય જણાવો.",
	types.StateCallbackConfirm: "આભાર, અમે તે સમયે ફરી કૉલ કરીશું. નમસ્તે.",
}

// Prompt returns the agent line for a state.
func Prompt(state types.DialogState) string {
	return prompts[state]
}

// PromptStates lists every state with a prompt, used to pre-warm the
// audio cache at startup.
func PromptStates() []types.DialogState {
	states := make([]types.DialogState, 0, len(prompts))
	for s := range prompts {
		states = append(states, s)
	}
	return states
}
