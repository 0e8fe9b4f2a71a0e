package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/eligibility"
	"github.com/abhisek/syllabus/internal/logging"
	"github.com/abhisek/syllabus/internal/metrics"
	"github.com/abhisek/syllabus/internal/progress"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/transition"
)

// Service ties stored degrees, student progress and the transition rules
// together. It is safe for concurrent use.
type Service struct {
	repo      store.Repository
	validator *transition.Validator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	retry     RetryConfig

	mu     sync.RWMutex
	graphs map[string]*curriculum.Graph
	// gens counts imports per degree. A graph is only cached if no import
	// happened while it was being loaded.
	gens map[string]uint64
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithValidator(v *transition.Validator) Option {
	return func(s *Service) { s.validator = v }
}

// NewService creates a tracker over repo.
func NewService(repo store.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		retry:  DefaultRetryConfig(),
		graphs: make(map[string]*curriculum.Graph),
		gens:   make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.validator == nil {
		s.validator = transition.NewValidator()
	}
	return s
}

// StudentReport is a student's eligibility over their degree.
type StudentReport struct {
	Student store.Student
	Graph   *curriculum.Graph
	Report  *eligibility.Report
}

// ImportDegree validates and stores d, replacing any degree with the same ID.
func (s *Service) ImportDegree(ctx context.Context, d curriculum.Degree) error {
	err := s.repo.SaveDegree(ctx, d)
	var gerr *curriculum.GraphError
	switch {
	case errors.As(err, &gerr):
		s.metrics.ObserveGraphLoad(false)
		s.logger.Warn("degree rejected", "degree", d.ID, "problems", len(gerr.Problems))
		return err
	case err != nil:
		return err
	}
	s.metrics.ObserveGraphLoad(true)

	s.mu.Lock()
	s.gens[d.ID]++
	delete(s.graphs, d.ID)
	s.mu.Unlock()

	s.logger.Info("degree imported", "degree", d.ID, "subjects", len(d.Subjects), "edges", len(d.Edges))
	return nil
}

// SeedSample imports the built-in sample degree.
func (s *Service) SeedSample(ctx context.Context) (curriculum.Degree, error) {
	d := curriculum.SampleDegree()
	return d, s.ImportDegree(ctx, d)
}

// Degrees lists stored degrees.
func (s *Service) Degrees(ctx context.Context) ([]store.DegreeSummary, error) {
	return s.repo.ListDegrees(ctx)
}

// Graph returns the loaded graph of a stored degree. Graphs are read-only
// once loaded and are cached until the degree is re-imported.
func (s *Service) Graph(ctx context.Context, degreeID string) (*curriculum.Graph, error) {
	s.mu.RLock()
	g, ok := s.graphs[degreeID]
	gen := s.gens[degreeID]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	d, err := s.repo.Degree(ctx, degreeID)
	if err != nil {
		return nil, err
	}
	g, err = curriculum.Load(d)
	if err != nil {
		s.metrics.ObserveGraphLoad(false)
		return nil, err
	}
	s.metrics.ObserveGraphLoad(true)

	s.mu.Lock()
	if s.gens[degreeID] == gen {
		s.graphs[degreeID] = g
	}
	s.mu.Unlock()
	return g, nil
}

// AddStudent registers a student in an existing degree.
func (s *Service) AddStudent(ctx context.Context, st store.Student) (store.Student, error) {
	st, err := s.repo.CreateStudent(ctx, st)
	if err != nil {
		return store.Student{}, err
	}
	s.logger.Info("student added", "student", st.ID, "degree", st.DegreeID)
	return st, nil
}

// Report resolves the eligibility of every subject in the student's degree.
func (s *Service) Report(ctx context.Context, studentID string) (*StudentReport, error) {
	start := time.Now()
	st, err := s.repo.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	g, err := s.Graph(ctx, st.DegreeID)
	if err != nil {
		return nil, err
	}
	snap, err := s.repo.GetProgress(ctx, st.ID, st.DegreeID)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	report := eligibility.Resolve(g, snap)
	s.metrics.ObserveReport(time.Since(start))
	return &StudentReport{Student: st, Graph: g, Report: report}, nil
}

// Advance moves one subject to target if the state machine and the
// prerequisites allow it, and persists the new record. A write that loses to
// a concurrent one is retried against the fresh progress.
func (s *Service) Advance(ctx context.Context, studentID, subjectID string, target curriculum.State) (progress.Record, error) {
	var rec progress.Record
	err := s.withRetry(ctx, func() error {
		var err error
		rec, err = s.advance(ctx, studentID, subjectID, target)
		return err
	})
	result := Outcome(err)
	s.metrics.ObserveTransition(result)

	log := s.logger.With("student", studentID, "subject", subjectID, "to", target.String())
	if err != nil {
		log.Info("transition rejected", "outcome", result, "error", err)
		return progress.Record{}, err
	}
	log.Info("transition accepted", "version", rec.Version)
	return rec, nil
}

func (s *Service) advance(ctx context.Context, studentID, subjectID string, target curriculum.State) (progress.Record, error) {
	sr, err := s.Report(ctx, studentID)
	if err != nil {
		return progress.Record{}, err
	}
	rec, err := s.validator.RequestTransition(studentID, subjectID, target, sr.Report)
	if err != nil {
		return progress.Record{}, err
	}
	if err := s.repo.SaveProgress(ctx, rec); err != nil {
		return progress.Record{}, err
	}
	return rec, nil
}

// History returns a student's accepted transitions, oldest first.
func (s *Service) History(ctx context.Context, studentID string, limit int) ([]store.TransitionEvent, error) {
	if _, err := s.repo.Student(ctx, studentID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, studentID, limit)
}

// Outcome classifies the result of Advance for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, transition.ErrTerminalState):
		return "terminal_state"
	case errors.Is(err, transition.ErrIllegalStateJump):
		return "illegal_state_jump"
	case errors.Is(err, transition.ErrPrerequisitesNotMet):
		return "prerequisites_not_met"
	case errors.Is(err, transition.ErrExamPrerequisitesNotMet):
		return "exam_prerequisites_not_met"
	case errors.Is(err, store.ErrConflict):
		return "conflict"
	case errors.Is(err, store.ErrNotFound), errors.Is(err, curriculum.ErrUnknownSubject):
		return "not_found"
	}
	return "error"
}
