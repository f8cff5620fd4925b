package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Metrics holds all application metrics
type Metrics struct {
	mu sync.RWMutex

	// Dispatch metrics
	CallsDispatchedTotal  int64
	DispatchFailuresTotal int64
	BatchesScheduledTotal int64

	// Dialogue metrics
	TurnsTotal            int64
	EscalationsTotal      int64
	CallbacksTotal        int64
	DegenerateInputsTotal int64

	// Advisory classifier metrics
	AdvisorCallsTotal    int64
	AdvisorFailuresTotal int64

	// Call log metrics
	LogWritesTotal   int64
	LogFailuresTotal int64

	sessionsClosedByResult map[string]int64

	// activeSessions reads the live session count at scrape time
	activeSessions func() int

	startTime time.Time
}

// Global metrics instance
var instance *Metrics
var once sync.Once

// Get returns the singleton metrics instance
func Get() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			sessionsClosedByResult: make(map[string]int64),
			startTime:              time.Now(),
		}
	})
	return instance
}

// SetSessionGauge registers the live session counter read by the handler
func (m *Metrics) SetSessionGauge(fn func() int) {
	m.mu.Lock()
	m.activeSessions = fn
	m.mu.Unlock()
}

// RecordDispatch increments the outbound call counter
func (m *Metrics) RecordDispatch() {
	m.mu.Lock()
	m.CallsDispatchedTotal++
	m.mu.Unlock()
}

// RecordDispatchFailure increments the failed dispatch counter
func (m *Metrics) RecordDispatchFailure() {
	m.mu.Lock()
	m.DispatchFailuresTotal++
	m.mu.Unlock()
}

// RecordBatch increments the scheduled batch counter
func (m *Metrics) RecordBatch() {
	m.mu.Lock()
	m.BatchesScheduledTotal++
	m.mu.Unlock()
}

// RecordTurn increments the dialogue turn counter
func (m *Metrics) RecordTurn() {
	m.mu.Lock()
	m.TurnsTotal++
	m.mu.Unlock()
}

// RecordEscalation increments the human-handoff counter
func (m *Metrics) RecordEscalation() {
	m.mu.Lock()
	m.EscalationsTotal++
	m.mu.Unlock()
}

// RecordCallback increments the callback-scheduled counter
func (m *Metrics) RecordCallback() {
	m.mu.Lock()
	m.CallbacksTotal++
	m.mu.Unlock()
}

// RecordDegenerateInput counts empty or too-short utterances
func (m *Metrics) RecordDegenerateInput() {
	m.mu.Lock()
	m.DegenerateInputsTotal++
	m.mu.Unlock()
}

// RecordAdvisorCall counts advisory classifier invocations
func (m *Metrics) RecordAdvisorCall() {
	m.mu.Lock()
	m.AdvisorCallsTotal++
	m.mu.Unlock()
}

// RecordAdvisorFailure counts swallowed advisory classifier errors
func (m *Metrics) RecordAdvisorFailure() {
	m.mu.Lock()
	m.AdvisorFailuresTotal++
	m.mu.Unlock()
}

// RecordLogWrite counts persisted call records
func (m *Metrics) RecordLogWrite() {
	m.mu.Lock()
	m.LogWritesTotal++
	m.mu.Unlock()
}

// RecordLogFailure counts call records lost after retry
func (m *Metrics) RecordLogFailure() {
	m.mu.Lock()
	m.LogFailuresTotal++
	m.mu.Unlock()
}

// RecordSessionClosed counts closed sessions by terminal result
func (m *Metrics) RecordSessionClosed(result string) {
	m.mu.Lock()
	m.sessionsClosedByResult[result]++
	m.mu.Unlock()
}

// Handler returns an HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m.mu.RLock()
		defer m.mu.RUnlock()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		write := func(name string, value interface{}, labels ...string) {
			labelStr := ""
			if len(labels) > 0 {
				labelStr = "{"
				for i := 0; i < len(labels); i += 2 {
					if i > 0 {
						labelStr += ","
					}
					labelStr += labels[i] + "=\"" + labels[i+1] + "\""
				}
				labelStr += "}"
			}

			switch v := value.(type) {
			case int:
				w.Write([]byte(name + labelStr + " " + strconv.Itoa(v) + "\n"))
			case int64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatInt(v, 10) + "\n"))
			case float64:
				w.Write([]byte(name + labelStr + " " + strconv.FormatFloat(v, 'f', 6, 64) + "\n"))
			}
		}

		write("voiceagent_uptime_seconds", time.Since(m.startTime).Seconds())

		write("voiceagent_calls_dispatched_total", m.CallsDispatchedTotal)
		write("voiceagent_dispatch_failures_total", m.DispatchFailuresTotal)
		write("voiceagent_batches_scheduled_total", m.BatchesScheduledTotal)

		write("voiceagent_turns_total", m.TurnsTotal)
		write("voiceagent_escalations_total", m.EscalationsTotal)
		write("voiceagent_callbacks_total", m.CallbacksTotal)
		write("voiceagent_degenerate_inputs_total", m.DegenerateInputsTotal)

		write("voiceagent_advisor_calls_total", m.AdvisorCallsTotal)
		write("voiceagent_advisor_failures_total", m.AdvisorFailuresTotal)

		write("voiceagent_call_log_writes_total", m.LogWritesTotal)
		write("voiceagent_call_log_failures_total", m.LogFailuresTotal)

		for result, count := range m.sessionsClosedByResult {
			write("voiceagent_sessions_closed_total", count, "result", result)
		}

		if m.activeSessions != nil {
			write("voiceagent_active_sessions", m.activeSessions())
		}
	}
}
