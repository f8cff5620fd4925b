package calllog

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/RuhiModi/exotel-voice-agent/internal/session"
	"github.com/RuhiModi/exotel-voice-agent/internal/types"
)

type fakeRecordStore struct {
	mu       sync.Mutex
	records  []types.CallRecord
	failures int // number of SaveCallRecord calls to fail before succeeding
	saved    chan struct{}
}

func newFakeRecordStore(failures int) *fakeRecordStore {
	return &fakeRecordStore{failures: failures, saved: make(chan struct{}, 8)}
}

func (f *fakeRecordStore) SaveCallRecord(rec types.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.saved <- struct{}{} }()
	if f.failures > 0 {
		f.failures--
		return errors.New("provisioned throughput exceeded")
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecordStore) stored() []types.CallRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.CallRecord(nil), f.records...)
}

type fakeTracker struct {
	mu      sync.Mutex
	updates []string
}

func (f *fakeTracker) UpdateDispatchStatus(batchID, phone string, status types.DispatchStatus, callID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, batchID+"/"+phone+"/"+string(status))
	return nil
}

func waitSaved(t *testing.T, ch chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for store write %d of %d", i+1, n)
		}
	}
}

func TestFinalizeWritesOneRecordAndEvicts(t *testing.T) {
	store := newFakeRecordStore(0)
	sessions := session.NewStore()
	l := New(store, sessions, nil, zerolog.Nop())

	s, _ := sessions.Create("call-1", "9876543210", "")

	if !l.Finalize(s, types.ResultCompleted) {
		t.Fatal("first finalize should win")
	}
	if _, ok := sessions.Get("call-1"); ok {
		t.Error("session still addressable after finalize")
	}

	waitSaved(t, store.saved, 1)
	recs := store.stored()
	if len(recs) != 1 {
		t.Fatalf("records written = %d, want 1", len(recs))
	}
	if recs[0].CallID != "call-1" || recs[0].Result != types.ResultCompleted {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestFinalizeSecondCallerLoses(t *testing.T) {
	store := newFakeRecordStore(0)
	sessions := session.NewStore()
	l := New(store, sessions, nil, zerolog.Nop())

	s, _ := sessions.Create("call-1", "111", "")

	if !l.Finalize(s, types.ResultEscalated) {
		t.Fatal("first finalize should win")
	}
	// The status callback races in after the turn path already closed the
	// session but still holds the same pointer.
	if l.Finalize(s, types.ResultAbandoned) {
		t.Fatal("second finalize must lose the terminal guard")
	}

	waitSaved(t, store.saved, 1)
	recs := store.stored()
	if len(recs) != 1 {
		t.Fatalf("records written = %d, want exactly 1", len(recs))
	}
	if recs[0].Result != types.ResultEscalated {
		t.Errorf("record result = %s, want the first caller's", recs[0].Result)
	}
}

func TestFinalizeConcurrentPathsWriteOnce(t *testing.T) {
	store := newFakeRecordStore(0)
	sessions := session.NewStore()
	l := New(store, sessions, nil, zerolog.Nop())

	s, _ := sessions.Create("call-1", "111", "")

	var wg sync.WaitGroup
	wins := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- l.Finalize(s, types.ResultAbandoned)
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for w := range wins {
		if w {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("finalize won %d times, want 1", won)
	}

	waitSaved(t, store.saved, 1)
	if n := len(store.stored()); n != 1 {
		t.Fatalf("records written = %d, want 1", n)
	}
}

func TestPersistRetriesOnce(t *testing.T) {
	store := newFakeRecordStore(1)
	sessions := session.NewStore()
	l := New(store, sessions, nil, zerolog.Nop())
	l.retryIn = time.Millisecond

	s, _ := sessions.Create("call-1", "111", "")
	l.Finalize(s, types.ResultCompleted)

	waitSaved(t, store.saved, 2)
	recs := store.stored()
	if len(recs) != 1 {
		t.Fatalf("records after retry = %d, want 1", len(recs))
	}
}

func TestPersistGivesUpAfterRetry(t *testing.T) {
	store := newFakeRecordStore(2)
	sessions := session.NewStore()
	l := New(store, sessions, nil, zerolog.Nop())
	l.retryIn = time.Millisecond

	s, _ := sessions.Create("call-1", "111", "")
	if !l.Finalize(s, types.ResultCompleted) {
		t.Fatal("finalize should still win even if the write fails")
	}

	waitSaved(t, store.saved, 2)
	if n := len(store.stored()); n != 0 {
		t.Fatalf("records written = %d, want 0 after both attempts failed", n)
	}
	// The session is gone either way; teardown never depends on the sink.
	if _, ok := sessions.Get("call-1"); ok {
		t.Error("session not evicted on write failure")
	}
}

func TestFinalizeMarksDispatchRow(t *testing.T) {
	store := newFakeRecordStore(0)
	tracker := &fakeTracker{}
	sessions := session.NewStore()
	l := New(store, sessions, tracker, zerolog.Nop())

	s, _ := sessions.Create("call-1", "9876543210", "batch-7")
	l.Finalize(s, types.ResultCompleted)

	waitSaved(t, store.saved, 1)
	// The tracker update runs after the save on the same goroutine; give
	// it a beat.
	deadline := time.Now().Add(time.Second)
	for {
		tracker.mu.Lock()
		n := len(tracker.updates)
		tracker.mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if len(tracker.updates) != 1 {
		t.Fatalf("tracker updates = %d, want 1", len(tracker.updates))
	}
	want := "batch-7/9876543210/" + string(types.DispatchCompleted)
	if tracker.updates[0] != want {
		t.Errorf("tracker update = %s, want %s", tracker.updates[0], want)
	}
}
