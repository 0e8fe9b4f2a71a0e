// Package progress defines a student's per-subject progress records and the
// narrow interfaces through which they are read and persisted.
package progress

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/abhisek/syllabus/internal/curriculum"
)

// Record is a student's standing in one subject. At most one exists per
// (student, subject) pair.
type Record struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	SubjectID string           `json:"subject_id"`
	State     curriculum.State `json:"state"`
	// Version is the modification marker: 1 on creation, incremented on every
	// write. A missing record has version 0.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot is a consistent, read-only view of one student's records.
type Snapshot struct {
	StudentID string
	records   map[string]Record
}

// NewSnapshot builds a snapshot from the given records. Records for other
// students are ignored; when a subject appears twice the later record wins.
// A record holding a state outside the four defined ones is rejected with
// curriculum.ErrUnknownState.
func NewSnapshot(studentID string, records ...Record) (Snapshot, error) {
	snap := Snapshot{StudentID: studentID, records: make(map[string]Record, len(records))}
	for _, r := range records {
		if r.StudentID != studentID {
			continue
		}
		if err := checkState(r.SubjectID, r.State); err != nil {
			return Snapshot{}, err
		}
		snap.records[r.SubjectID] = r
	}
	return snap, nil
}

// FromStates builds a snapshot from a plain subject→state mapping, as
// supplied by collaborators that do not track record metadata.
func FromStates(studentID string, states map[string]curriculum.State) (Snapshot, error) {
	snap := Snapshot{StudentID: studentID, records: make(map[string]Record, len(states))}
	for subjectID, st := range states {
		if err := checkState(subjectID, st); err != nil {
			return Snapshot{}, err
		}
		snap.records[subjectID] = Record{StudentID: studentID, SubjectID: subjectID, State: st}
	}
	return snap, nil
}

func checkState(subjectID string, st curriculum.State) error {
	if !st.Valid() {
		return fmt.Errorf("%w: subject %q has state %d", curriculum.ErrUnknownState, subjectID, int(st))
	}
	return nil
}

// State returns the recorded state of a subject. A subject without a record
// is Pending: absence of a record is the Pending state, not an error.
func (s Snapshot) State(subjectID string) curriculum.State {
	if r, ok := s.records[subjectID]; ok {
		return r.State
	}
	return curriculum.StatePending
}

// Record returns the stored record for a subject, if any.
func (s Snapshot) Record(subjectID string) (Record, bool) {
	r, ok := s.records[subjectID]
	return r, ok
}

// States returns a copy of the recorded subject→state mapping.
func (s Snapshot) States() map[string]curriculum.State {
	out := make(map[string]curriculum.State, len(s.records))
	for id, r := range s.records {
		out[id] = r.State
	}
	return out
}

// Records returns a copy of the recorded subject→record mapping.
func (s Snapshot) Records() map[string]Record {
	return maps.Clone(s.records)
}

// Len returns the number of stored records.
func (s Snapshot) Len() int { return len(s.records) }

// Provider supplies a consistent snapshot of a student's progress within a degree.
type Provider interface {
	GetProgress(ctx context.Context, studentID, degreeID string) (Snapshot, error)
}

// Sink persists a progress record. Implementations must enforce at most one
// record per (student, subject) and reject writes whose Version does not
// directly follow the stored one.
type Sink interface {
	SaveProgress(ctx context.Context, rec Record) error
}

// Store combines both sides of the progress contract.
type Store interface {
	Provider
	Sink
}
