package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/calllog"
	"github.com/RuhiModi/exotel-voice-agent/internal/dialog"
	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/session"
	"github.com/RuhiModi/exotel-voice-agent/internal/telephony"
	"github.com/RuhiModi/exotel-voice-agent/internal/tts"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

// WebhookHandler serves the telephony provider callbacks that drive a
// call: answer, per-utterance turns, and the terminal status signal.
type WebhookHandler struct {
	sessions    *session.Store
	machine     *dialog.Machine
	closer      *calllog.Logger
	audio       *tts.Cache
	countryCode string
	logger      zerolog.Logger
}

// NewWebhookHandler creates the webhook handler. countryCode must match
// the dispatcher's so sessions created here carry the same normalized
// phone as dispatcher-created ones.
func NewWebhookHandler(sessions *session.Store, machine *dialog.Machine, closer *calllog.Logger, audio *tts.Cache, countryCode string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		sessions:    sessions,
		machine:     machine,
		closer:      closer,
		audio:       audio,
		countryCode: countryCode,
		logger:      logger,
	}
}

// voiceRequest is the provider payload for the entry and turn webhooks.
type voiceRequest struct {
	CallSid      string `json:"CallSid"`
	From         string `json:"From,omitempty"`
	To           string `json:"To,omitempty"`
	SpeechResult string `json:"SpeechResult,omitempty"`
	Language     string `json:"Language,omitempty"`
}

// statusRequest is the provider payload for the status callback.
type statusRequest struct {
	CallSid string `json:"CallSid"`
	Status  string `json:"Status"` // completed | failed | busy | no-answer
}

// instruction is what the provider does next. action is "listen" (play
// the prompt, gather speech, call the turn webhook again) or "hangup".
type instruction struct {
	Action   string `json:"action"`
	Prompt   string `json:"prompt,omitempty"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// HandleVoice handles POST /webhook/voice, fired when a call is answered.
// The session normally exists already (dispatcher-created); it is created
// here only for calls that did not originate from the dispatcher.
func (h *WebhookHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CallSid == "" {
		http.Error(w, "invalid voice webhook body", http.StatusBadRequest)
		return
	}

	sess, ok := h.sessions.Get(req.CallSid)
	if !ok {
		if req.From == "" {
			// No session and no caller number: stale delivery.
			h.respond(w, instruction{Action: "hangup"})
			return
		}
		var err error
		sess, err = h.sessions.Create(req.CallSid, telephony.NormalizePhone(req.From, h.countryCode), "")
		if err != nil {
			// Lost the race with a concurrent delivery; use the winner's.
			sess, ok = h.sessions.Get(req.CallSid)
			if !ok {
				h.respond(w, instruction{Action: "hangup"})
				return
			}
		}
	}

	prompt := dialog.Prompt(types.StateIntro)

	sess.Lock()
	if len(sess.AgentTranscript) == 0 {
		sess.Greet(prompt)
	}
	sess.Unlock()

	h.logger.Info().Str("call_id", req.CallSid).Msg("call answered")
	h.respondPrompt(w, "listen", types.StateIntro, prompt)
}

// HandleGather handles POST /webhook/gather, one dialogue turn. An
// unknown or already-closed call id always answers with a hangup
// instruction and never creates a session.
func (h *WebhookHandler) HandleGather(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CallSid == "" {
		http.Error(w, "invalid gather webhook body", http.StatusBadRequest)
		return
	}

	sess, ok := h.sessions.Get(req.CallSid)
	if !ok {
		h.logger.Debug().Str("call_id", req.CallSid).Msg("turn for unknown session, hanging up")
		h.respond(w, instruction{Action: "hangup"})
		return
	}

	metrics.Get().RecordTurn()

	sess.Lock()
	out := h.machine.Next(r.Context(), sess.State, sess.UnclearCount, req.SpeechResult)
	sess.ApplyTurn(out, req.SpeechResult)
	sess.Unlock()

	switch out.Next {
	case types.StateEscalate:
		metrics.Get().RecordEscalation()
	case types.StateCallbackTime:
		metrics.Get().RecordCallback()
	}

	h.logger.Debug().
		Str("call_id", req.CallSid).
		Str("state", string(out.Next)).
		Int("unclear", out.UnclearCount).
		Bool("hangup", out.Hangup).
		Msg("turn processed")

	if out.Hangup {
		if out.Result != "" {
			h.closer.Finalize(sess, out.Result)
		}
		h.respondPrompt(w, "hangup", out.Next, out.Prompt)
		return
	}

	h.respondPrompt(w, "listen", out.Next, out.Prompt)
}

// HandleStatus handles POST /webhook/status, the provider's out-of-band
// termination signal. Races against an in-flight terminal turn are
// settled by the session's one-shot guard: exactly one record is written.
func (h *WebhookHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CallSid == "" {
		http.Error(w, "invalid status webhook body", http.StatusBadRequest)
		return
	}

	sess, ok := h.sessions.Get(req.CallSid)
	if !ok {
		// Already closed by the dialogue; nothing to do.
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.closer.Finalize(sess, types.ResultAbandoned) {
		h.logger.Info().
			Str("call_id", req.CallSid).
			Str("provider_status", req.Status).
			Msg("call ended before reaching a terminal state")
	}
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) respondPrompt(w http.ResponseWriter, action string, state types.DialogState, prompt string) {
	inst := instruction{Action: action, Prompt: prompt}
	if prompt != "" {
		if url, ok := h.audio.Get(string(state), prompt); ok {
			inst.AudioURL = url
		}
	}
	h.respond(w, inst)
}

func (h *WebhookHandler) respond(w http.ResponseWriter, inst instruction) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(inst)
}
