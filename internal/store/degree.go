package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/syllabus/internal/curriculum"
)

// DegreeSummary is a catalog entry.
type DegreeSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Subjects int    `json:"subjects"`
}

// SaveDegree stores a degree, replacing any subjects and edges previously
// saved under the same ID. The degree is validated with curriculum.Load
// first, so graphs that fail validation never reach the database.
func (s *Store) SaveDegree(ctx context.Context, d curriculum.Degree) error {
	if _, err := curriculum.Load(d); err != nil {
		return err
	}

	return s.withWriteTx(ctx, func(tx *sql.Tx) error {
		query, args := s.b.Insert("degrees").
			Columns("id", "name", "updated_at").
			Values(d.ID, d.Name, formatTime(s.now())).
			OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert degree: %w", err)
		}

		for _, table := range []string{"edges", "subjects"} {
			query, args := s.b.Delete(table).Where(entsql.EQ("degree_id", d.ID)).Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		if len(d.Subjects) > 0 {
			ins := s.b.Insert("subjects").Columns("degree_id", "id", "name", "term", "position")
			for i, sub := range d.Subjects {
				ins = ins.Values(d.ID, sub.ID, sub.Name, sub.Term, i)
			}
			query, args := ins.Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert subjects: %w", err)
			}
		}

		if len(d.Edges) > 0 {
			ins := s.b.Insert("edges").Columns("degree_id", "position", "subject_id", "prerequisite_id", "class", "min_state")
			for i, e := range d.Edges {
				ins = ins.Values(d.ID, i, e.SubjectID, e.PrerequisiteID, e.Class.String(), e.MinState.String())
			}
			query, args := ins.Query()
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert edges: %w", err)
			}
		}
		return nil
	})
}

// Degree loads a stored degree with subjects and edges in their saved order.
func (s *Store) Degree(ctx context.Context, id string) (curriculum.Degree, error) {
	var d curriculum.Degree
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		query, args := s.b.Select("id", "name").
			From(s.b.Table("degrees")).
			Where(entsql.EQ("id", id)).
			Query()
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&d.ID, &d.Name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("degree %q: %w", id, ErrNotFound)
			}
			return fmt.Errorf("query degree: %w", err)
		}

		subjects, err := s.degreeSubjects(ctx, tx, id)
		if err != nil {
			return err
		}
		d.Subjects = subjects

		edges, err := s.degreeEdges(ctx, tx, id)
		if err != nil {
			return err
		}
		d.Edges = edges
		return nil
	})
	return d, err
}

func (s *Store) degreeSubjects(ctx context.Context, tx *sql.Tx, degreeID string) ([]curriculum.Subject, error) {
	query, args := s.b.Select("id", "name", "term").
		From(s.b.Table("subjects")).
		Where(entsql.EQ("degree_id", degreeID)).
		OrderBy("position").
		Query()
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var out []curriculum.Subject
	for rows.Next() {
		sub := curriculum.Subject{DegreeID: degreeID}
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Term); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *Store) degreeEdges(ctx context.Context, tx *sql.Tx, degreeID string) ([]curriculum.Edge, error) {
	query, args := s.b.Select("subject_id", "prerequisite_id", "class", "min_state").
		From(s.b.Table("edges")).
		Where(entsql.EQ("degree_id", degreeID)).
		OrderBy("position").
		Query()
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var out []curriculum.Edge
	for rows.Next() {
		var (
			e            curriculum.Edge
			class, state string
		)
		if err := rows.Scan(&e.SubjectID, &e.PrerequisiteID, &class, &state); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		if e.Class, err = curriculum.ParseClass(class); err != nil {
			return nil, err
		}
		if e.MinState, err = curriculum.ParseState(state); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListDegrees returns every stored degree ordered by name.
func (s *Store) ListDegrees(ctx context.Context) ([]DegreeSummary, error) {
	d := s.b.Table("degrees").As("d")
	sub := s.b.Table("subjects").As("s")
	query, args := s.b.Select(d.C("id"), d.C("name"), entsql.Count(sub.C("id"))).
		From(d).
		LeftJoin(sub).On(d.C("id"), sub.C("degree_id")).
		GroupBy(d.C("id"), d.C("name")).
		OrderBy(d.C("name")).
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query degrees: %w", err)
	}
	defer rows.Close()

	var out []DegreeSummary
	for rows.Next() {
		var ds DegreeSummary
		if err := rows.Scan(&ds.ID, &ds.Name, &ds.Subjects); err != nil {
			return nil, fmt.Errorf("scan degree: %w", err)
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}
