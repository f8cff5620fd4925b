package types

import "time"

// TurnTrace is one agent/caller exchange, kept in order for the call log.
type TurnTrace struct {
	State DialogState `json:"state" dynamodbav:"State"`
	Agent string      `json:"agent" dynamodbav:"Agent"`
	User  string      `json:"user" dynamodbav:"User"`
}

// CallRecord is the terminal row persisted once per closed session.
type CallRecord struct {
	DateKey         string      `json:"dateKey" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	CallID          string      `json:"callId" dynamodbav:"CallID"`   // sort key
	Phone           string      `json:"phone" dynamodbav:"Phone"`
	BatchID         string      `json:"batchId,omitempty" dynamodbav:"BatchID"`
	StartedAt       string      `json:"startedAt" dynamodbav:"StartedAt"` // RFC3339
	EndedAt         string      `json:"endedAt" dynamodbav:"EndedAt"`     // RFC3339
	DurationSecs    float64     `json:"durationSecs" dynamodbav:"DurationSecs"`
	Result          string      `json:"result" dynamodbav:"Result"`
	FinalState      DialogState `json:"finalState" dynamodbav:"FinalState"`
	Confidence      int         `json:"confidence" dynamodbav:"Confidence"`
	AgentTranscript []string    `json:"agentTranscript" dynamodbav:"AgentTranscript"`
	UserTranscript  []string    `json:"userTranscript" dynamodbav:"UserTranscript"`
	CallbackTime    string      `json:"callbackTime,omitempty" dynamodbav:"CallbackTime"`
	Trace           []TurnTrace `json:"trace,omitempty" dynamodbav:"Trace"`
}

// DispatchRow tracks one phone number inside a bulk campaign.
// Key is (BatchID, Phone) so concurrent bulk updates never touch
// unrelated rows.
type DispatchRow struct {
	BatchID   string         `json:"batchId" dynamodbav:"BatchID"` // partition key
	Phone     string         `json:"phone" dynamodbav:"Phone"`     // sort key
	CallID    string         `json:"callId,omitempty" dynamodbav:"CallID"`
	Status    DispatchStatus `json:"status" dynamodbav:"Status"`
	UpdatedAt time.Time      `json:"updatedAt" dynamodbav:"UpdatedAt,unixtime"`
}
