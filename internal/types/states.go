package types

// DialogState is a node in the dialogue graph. A call is always in exactly
// one state; transitions happen once per caller turn.
type DialogState string

const (
	StateIntro           DialogState = "INTRO"
	StateTaskCheck       DialogState = "TASK_CHECK"
	StateTaskDone        DialogState = "TASK_DONE"
	StateTaskPending     DialogState = "TASK_PENDING"
	StateProblemRecorded DialogState = "PROBLEM_RECORDED"
	StateRetryTaskCheck  DialogState = "RETRY_TASK_CHECK"
	StateConfirmTask     DialogState = "CONFIRM_TASK"
	StateEscalate        DialogState = "ESCALATE"
	StateCallbackTime    DialogState = "CALLBACK_TIME"
	StateCallbackConfirm DialogState = "CALLBACK_CONFIRM"
)

// IntentLabel is the output of the keyword classifier.
type IntentLabel string

const (
	IntentDone    IntentLabel = "DONE"
	IntentPending IntentLabel = "PENDING"
	IntentUnclear IntentLabel = "UNCLEAR"
)

// Result labels written to the call log when a session closes.
const (
	ResultCompleted       = "completed"
	ResultProblemRecorded = "problem_recorded"
	ResultEscalated       = "escalated"
	ResultCallback        = "callback_scheduled"
	ResultAbandoned       = "abandoned"
)

// DispatchStatus tracks one outbound number inside a campaign batch.
type DispatchStatus string

const (
	DispatchScheduled DispatchStatus = "Scheduled"
	DispatchInitiated DispatchStatus = "Initiated"
	DispatchFailed    DispatchStatus = "Failed"
	DispatchCompleted DispatchStatus = "Completed"
)
