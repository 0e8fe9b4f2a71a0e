package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrConflict indicates a write lost a race with another write to the same
// (student, subject) record.
var ErrConflict = errors.New("progress record modified concurrently")

type recordKey struct {
	student, subject string
}

// MemoryStore is an in-process Store, used by tests and as a scratch store
// for dry runs. It applies the same version check as the SQLite store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[recordKey]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]Record)}
}

// GetProgress returns every record of the student. The degree is not used to
// filter: callers resolve against a single degree's graph, which ignores
// subjects it does not contain.
func (m *MemoryStore) GetProgress(_ context.Context, studentID, _ string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var recs []Record
	for k, r := range m.records {
		if k.student == studentID {
			recs = append(recs, r)
		}
	}
	return NewSnapshot(studentID, recs...)
}

// SaveProgress stores rec if its Version directly follows the stored version.
func (m *MemoryStore) SaveProgress(_ context.Context, rec Record) error {
	if err := checkState(rec.SubjectID, rec.State); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	k := recordKey{rec.StudentID, rec.SubjectID}
	current, ok := m.records[k]
	var stored int64
	if ok {
		stored = current.Version
	}
	if rec.Version != stored+1 {
		return fmt.Errorf("%w: %s/%s stored version %d, write version %d",
			ErrConflict, rec.StudentID, rec.SubjectID, stored, rec.Version)
	}
	m.records[k] = rec
	return nil
}
