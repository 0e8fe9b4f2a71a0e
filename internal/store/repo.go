package store

import (
	"context"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/progress"
)

// Catalog manages stored degrees.
type Catalog interface {
	// SaveDegree validates and stores a degree, replacing an existing one with the same ID.
	SaveDegree(ctx context.Context, d curriculum.Degree) error

	// Degree returns a stored degree, or ErrNotFound.
	Degree(ctx context.Context, id string) (curriculum.Degree, error)

	// ListDegrees returns all stored degrees.
	ListDegrees(ctx context.Context) ([]DegreeSummary, error)
}

// Students manages student registrations.
type Students interface {
	// CreateStudent registers a student in an existing degree.
	CreateStudent(ctx context.Context, st Student) (Student, error)

	// Student returns a student, or ErrNotFound.
	Student(ctx context.Context, id string) (Student, error)
}

// TransitionLog provides read access to accepted transitions.
type TransitionLog interface {
	// History returns a student's transitions, oldest first. limit 0 means all.
	History(ctx context.Context, studentID string, limit int) ([]TransitionEvent, error)
}

// Repository is everything the tracker needs from storage.
type Repository interface {
	Catalog
	Students
	TransitionLog
	progress.Store
}

var _ Repository = (*Store)(nil)
