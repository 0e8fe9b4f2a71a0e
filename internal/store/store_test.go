package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/progress"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seededStore returns a store holding the sample degree and student "s1".
func seededStore(t *testing.T) *Store {
	t.Helper()
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDegree(ctx, curriculum.SampleDegree()))
	_, err := s.CreateStudent(ctx, Student{ID: "s1", Name: "Ada", DegreeID: "ing-sistemas"})
	require.NoError(t, err)
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.SaveDegree(context.Background(), curriculum.SampleDegree()))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()
	list, err := s2.ListDegrees(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDegree_SaveAndLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	want := curriculum.SampleDegree()
	require.NoError(t, s.SaveDegree(ctx, want))

	got, err := s.Degree(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Name, got.Name)
	require.Len(t, got.Subjects, len(want.Subjects))
	for i := range want.Subjects {
		assert.Equal(t, want.Subjects[i].ID, got.Subjects[i].ID)
		assert.Equal(t, want.Subjects[i].Term, got.Subjects[i].Term)
	}
	assert.Equal(t, want.Edges, got.Edges)
}

func TestDegree_SaveReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	d := curriculum.SampleDegree()
	require.NoError(t, s.SaveDegree(ctx, d))

	d.Name = "Sistemas (plan 2023)"
	d.Subjects = d.Subjects[:3]
	d.Edges = nil
	require.NoError(t, s.SaveDegree(ctx, d))

	got, err := s.Degree(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sistemas (plan 2023)", got.Name)
	assert.Len(t, got.Subjects, 3)
	assert.Empty(t, got.Edges)
}

func TestDegree_InvalidGraphNotSaved(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	err := s.SaveDegree(ctx, curriculum.Degree{
		ID:       "bad",
		Name:     "Bad",
		Subjects: []curriculum.Subject{{ID: "A", Term: 1}},
		Edges:    []curriculum.Edge{{SubjectID: "A", PrerequisiteID: "A"}},
	})
	assert.ErrorIs(t, err, curriculum.ErrSelfReference)

	_, err = s.Degree(ctx, "bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDegrees(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveDegree(ctx, curriculum.SampleDegree()))
	require.NoError(t, s.SaveDegree(ctx, curriculum.Degree{
		ID: "arq", Name: "Arquitectura",
		Subjects: []curriculum.Subject{{ID: "dib", Name: "Dibujo", Term: 1}},
	}))

	list, err := s.ListDegrees(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DegreeSummary{
		{ID: "arq", Name: "Arquitectura", Subjects: 1},
		{ID: "ing-sistemas", Name: "Ingeniería en Sistemas", Subjects: 7},
	}, list)
}

func TestStudent_CreateAndGet(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	st, err := s.Student(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ing-sistemas", st.DegreeID)
	assert.False(t, st.CreatedAt.IsZero())

	_, err = s.CreateStudent(ctx, Student{ID: "s1", Name: "Again", DegreeID: "ing-sistemas"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = s.CreateStudent(ctx, Student{ID: "s2", DegreeID: "medicina"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Student(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgress_EmptySnapshot(t *testing.T) {
	s := seededStore(t)
	snap, err := s.GetProgress(context.Background(), "s1", "ing-sistemas")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, curriculum.StatePending, snap.State("am1"))
}

func TestProgress_CreateUpdateAndHistory(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	at := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	rec := progress.Record{ID: "r1", StudentID: "s1", SubjectID: "am1", State: curriculum.StateInProgress, Version: 1, UpdatedAt: at}
	require.NoError(t, s.SaveProgress(ctx, rec))

	rec.State = curriculum.StateRegularized
	rec.Version = 2
	rec.UpdatedAt = at.Add(time.Hour)
	require.NoError(t, s.SaveProgress(ctx, rec))

	snap, err := s.GetProgress(ctx, "s1", "ing-sistemas")
	require.NoError(t, err)
	got, ok := snap.Record("am1")
	require.True(t, ok)
	assert.Equal(t, rec, got)

	hist, err := s.History(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, curriculum.StatePending, hist[0].From)
	assert.Equal(t, curriculum.StateInProgress, hist[0].To)
	assert.Equal(t, curriculum.StateInProgress, hist[1].From)
	assert.Equal(t, curriculum.StateRegularized, hist[1].To)
	assert.Less(t, hist[0].Sequence, hist[1].Sequence)

	limited, err := s.History(ctx, "s1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, hist[1], limited[0], "limit keeps the most recent transition")

	limited, err = s.History(ctx, "s1", 5)
	require.NoError(t, err)
	assert.Equal(t, hist, limited)
}

func TestProgress_SnapshotScopedToDegree(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveProgress(ctx, progress.Record{
		ID: "r1", StudentID: "s1", SubjectID: "not-in-degree", State: curriculum.StateApproved, Version: 1, UpdatedAt: time.Now(),
	}))

	snap, err := s.GetProgress(ctx, "s1", "ing-sistemas")
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestProgress_Conflicts(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	rec := progress.Record{ID: "r1", StudentID: "s1", SubjectID: "am1", State: curriculum.StateInProgress, Version: 1, UpdatedAt: time.Now()}
	require.NoError(t, s.SaveProgress(ctx, rec))

	// Second create for the same pair.
	dup := rec
	dup.ID = "r2"
	assert.ErrorIs(t, s.SaveProgress(ctx, dup), ErrConflict)

	// Stale update: stored version is 1, write claims to follow version 2.
	stale := rec
	stale.Version = 3
	stale.State = curriculum.StateApproved
	assert.ErrorIs(t, s.SaveProgress(ctx, stale), ErrConflict)

	// Update of a record that does not exist.
	missing := progress.Record{ID: "r3", StudentID: "s1", SubjectID: "am2", State: curriculum.StateRegularized, Version: 2, UpdatedAt: time.Now()}
	assert.ErrorIs(t, s.SaveProgress(ctx, missing), ErrConflict)

	hist, err := s.History(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, hist, 1, "rejected writes must not be logged")
}

func TestProgress_ConcurrentCreateSingleWinner(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins, conflicts int
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := s.SaveProgress(ctx, progress.Record{
				ID:        "r" + string(rune('a'+i)),
				StudentID: "s1",
				SubjectID: "am1",
				State:     curriculum.StateInProgress,
				Version:   1,
				UpdatedAt: time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
	assert.Equal(t, 7, conflicts)
}

func TestProgress_RejectsInvalidRecords(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	assert.Error(t, s.SaveProgress(ctx, progress.Record{StudentID: "s1", SubjectID: "am1", Version: 0}))
	assert.ErrorIs(t, s.SaveProgress(ctx, progress.Record{StudentID: "s1", SubjectID: "am1", State: curriculum.State(8), Version: 1}),
		curriculum.ErrUnknownState)
}

func TestDefaultDBPath_Env(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("SYLLABUS_DB", p)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.DirExists(t, filepath.Dir(p))
}

func TestDefaultDBPath_XDG(t *testing.T) {
	t.Setenv("SYLLABUS_DB", "")
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "syllabus", "syllabus.db"), got)
}
