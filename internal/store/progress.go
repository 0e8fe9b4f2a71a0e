package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/progress"
)

var _ progress.Store = (*Store)(nil)

// GetProgress returns the student's records for subjects of the given degree,
// read in a single transaction.
func (s *Store) GetProgress(ctx context.Context, studentID, degreeID string) (progress.Snapshot, error) {
	p := s.b.Table("progress_records").As("p")
	sub := s.b.Table("subjects").As("s")
	query, args := s.b.Select(p.C("id"), p.C("subject_id"), p.C("state"), p.C("version"), p.C("updated_at")).
		From(p).
		Join(sub).On(p.C("subject_id"), sub.C("id")).
		Where(entsql.And(
			entsql.EQ(p.C("student_id"), studentID),
			entsql.EQ(sub.C("degree_id"), degreeID),
		)).
		OrderBy(sub.C("position")).
		Query()

	var recs []progress.Record
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query progress: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			r := progress.Record{StudentID: studentID}
			var state, updated string
			if err := rows.Scan(&r.ID, &r.SubjectID, &state, &r.Version, &updated); err != nil {
				return fmt.Errorf("scan progress: %w", err)
			}
			if r.State, err = curriculum.ParseState(state); err != nil {
				return err
			}
			if r.UpdatedAt, err = parseTime(updated); err != nil {
				return err
			}
			recs = append(recs, r)
		}
		return rows.Err()
	})
	if err != nil {
		return progress.Snapshot{}, err
	}
	return progress.NewSnapshot(studentID, recs...)
}

// SaveProgress writes a record produced by the transition validator.
// Version 1 creates the record and fails with ErrConflict if one already
// exists; later versions update only when the stored version is exactly
// rec.Version-1. Every accepted write is appended to the transitions log.
func (s *Store) SaveProgress(ctx context.Context, rec progress.Record) error {
	if rec.Version < 1 {
		return fmt.Errorf("save progress: invalid version %d", rec.Version)
	}
	if !rec.State.Valid() {
		return fmt.Errorf("save progress: %w: %d", curriculum.ErrUnknownState, int(rec.State))
	}

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		from := curriculum.StatePending
		if rec.Version == 1 {
			query, args := s.b.Insert("progress_records").
				Columns("id", "student_id", "subject_id", "state", "version", "updated_at").
				Values(rec.ID, rec.StudentID, rec.SubjectID, rec.State.String(), rec.Version, formatTime(rec.UpdatedAt)).
				OnConflict(entsql.ConflictColumns("student_id", "subject_id"), entsql.DoNothing()).
				Query()
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("insert progress: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return fmt.Errorf("insert progress: %w", err)
			} else if n == 0 {
				return fmt.Errorf("%w: %s/%s already has a record", ErrConflict, rec.StudentID, rec.SubjectID)
			}
		} else {
			var err error
			from, err = s.storedState(ctx, tx, rec)
			if err != nil {
				return err
			}
			query, args := s.b.Update("progress_records").
				Set("state", rec.State.String()).
				Set("version", rec.Version).
				Set("updated_at", formatTime(rec.UpdatedAt)).
				Where(entsql.And(
					entsql.EQ("student_id", rec.StudentID),
					entsql.EQ("subject_id", rec.SubjectID),
					entsql.EQ("version", rec.Version-1),
				)).
				Query()
			res, err := tx.ExecContext(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("update progress: %w", err)
			}
			if n, err := res.RowsAffected(); err != nil {
				return fmt.Errorf("update progress: %w", err)
			} else if n == 0 {
				return fmt.Errorf("%w: %s/%s is not at version %d", ErrConflict, rec.StudentID, rec.SubjectID, rec.Version-1)
			}
		}

		return s.appendTransition(ctx, tx, TransitionEvent{
			StudentID: rec.StudentID,
			SubjectID: rec.SubjectID,
			From:      from,
			To:        rec.State,
			Version:   rec.Version,
			At:        rec.UpdatedAt,
		})
	})
}

// storedState returns the state currently stored for rec's (student, subject),
// or ErrConflict if no record at rec.Version-1 exists.
func (s *Store) storedState(ctx context.Context, tx *sql.Tx, rec progress.Record) (curriculum.State, error) {
	query, args := s.b.Select("state").
		From(s.b.Table("progress_records")).
		Where(entsql.And(
			entsql.EQ("student_id", rec.StudentID),
			entsql.EQ("subject_id", rec.SubjectID),
			entsql.EQ("version", rec.Version-1),
		)).
		Query()
	var state string
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return curriculum.StatePending, fmt.Errorf("%w: %s/%s is not at version %d",
				ErrConflict, rec.StudentID, rec.SubjectID, rec.Version-1)
		}
		return curriculum.StatePending, fmt.Errorf("query stored state: %w", err)
	}
	return curriculum.ParseState(state)
}
