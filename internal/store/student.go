package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Student is a learner enrolled in exactly one degree.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DegreeID  string    `json:"degree_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateStudent registers a student in an existing degree.
func (s *Store) CreateStudent(ctx context.Context, st Student) (Student, error) {
	if st.CreatedAt.IsZero() {
		st.CreatedAt = s.now()
	}
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		var degreeID string
		query, args := s.b.Select("id").From(s.b.Table("degrees")).Where(entsql.EQ("id", st.DegreeID)).Query()
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&degreeID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("degree %q: %w", st.DegreeID, ErrNotFound)
			}
			return fmt.Errorf("query degree: %w", err)
		}

		query, args = s.b.Insert("students").
			Columns("id", "name", "degree_id", "created_at").
			Values(st.ID, st.Name, st.DegreeID, formatTime(st.CreatedAt)).
			OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert student: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("student %q: %w", st.ID, ErrAlreadyExists)
		}
		return nil
	})
	return st, err
}

// Student returns a student by ID.
func (s *Store) Student(ctx context.Context, id string) (Student, error) {
	query, args := s.b.Select("id", "name", "degree_id", "created_at").
		From(s.b.Table("students")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		st      Student
		created string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&st.ID, &st.Name, &st.DegreeID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Student{}, fmt.Errorf("student %q: %w", id, ErrNotFound)
		}
		return Student{}, fmt.Errorf("query student: %w", err)
	}
	if st.CreatedAt, err = parseTime(created); err != nil {
		return Student{}, err
	}
	return st, nil
}
