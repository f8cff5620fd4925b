package storage

import "github.com/RuhiModi/exotel-voice-agent/internal/types"

// Store defines the persistence interface for closed-call records and
// bulk dispatch tracking rows.
type Store interface {
	SaveCallRecord(record types.CallRecord) error
	GetCallRecords(dateKey string) ([]types.CallRecord, error)
	PutDispatchRow(row types.DispatchRow) error
	UpdateDispatchStatus(batchID, phone string, status types.DispatchStatus, callID string) error
	GetBatch(batchID string) ([]types.DispatchRow, error)
}

// NoopStore is a no-op implementation when DynamoDB is disabled
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) SaveCallRecord(_ types.CallRecord) error                               { return nil }
func (s *NoopStore) GetCallRecords(_ string) ([]types.CallRecord, error)                   { return nil, nil }
func (s *NoopStore) PutDispatchRow(_ types.DispatchRow) error                              { return nil }
func (s *NoopStore) UpdateDispatchStatus(_, _ string, _ types.DispatchStatus, _ string) error { return nil }
func (s *NoopStore) GetBatch(_ string) ([]types.DispatchRow, error)                        { return nil, nil }
