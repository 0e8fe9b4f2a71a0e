package store

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/syllabus/internal/curriculum"
)

// TransitionEvent is one accepted state change, kept as an append-only log.
type TransitionEvent struct {
	Sequence  int64
	StudentID string
	SubjectID string
	From      curriculum.State
	To        curriculum.State
	Version   int64
	At        time.Time
}

// sequenceCounter hands out the global monotonic sequence number of the
// transitions log. Uses raw SQL because the increment has to happen in the
// same transaction as the progress write it describes; RETURNING makes the
// increment atomic at the database level.
type sequenceCounter struct{}

// newSequenceCounter ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next returns the next sequence number and increments the counter within tx.
func (sc *sequenceCounter) Next(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

func (s *Store) appendTransition(ctx context.Context, tx *sql.Tx, ev TransitionEvent) error {
	seq, err := s.seq.Next(ctx, tx)
	if err != nil {
		return err
	}
	query, args := s.b.Insert("transitions").
		Columns("sequence", "student_id", "subject_id", "from_state", "to_state", "version", "at").
		Values(seq, ev.StudentID, ev.SubjectID, ev.From.String(), ev.To.String(), ev.Version, formatTime(ev.At)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append transition: %w", err)
	}
	return nil
}

// History returns a student's accepted transitions, oldest first. A positive
// limit keeps only the most recent limit transitions; 0 returns all of them.
func (s *Store) History(ctx context.Context, studentID string, limit int) ([]TransitionEvent, error) {
	sel := s.b.Select("sequence", "student_id", "subject_id", "from_state", "to_state", "version", "at").
		From(s.b.Table("transitions")).
		Where(entsql.EQ("student_id", studentID))
	if limit > 0 {
		sel = sel.OrderBy(entsql.Desc("sequence")).Limit(limit)
	} else {
		sel = sel.OrderBy("sequence")
	}
	query, args := sel.Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []TransitionEvent
	for rows.Next() {
		var (
			ev       TransitionEvent
			from, to string
			at       string
		)
		if err := rows.Scan(&ev.Sequence, &ev.StudentID, &ev.SubjectID, &from, &to, &ev.Version, &at); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if ev.From, err = curriculum.ParseState(from); err != nil {
			return nil, err
		}
		if ev.To, err = curriculum.ParseState(to); err != nil {
			return nil, err
		}
		if ev.At, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 {
		slices.Reverse(out)
	}
	return out, nil
}
