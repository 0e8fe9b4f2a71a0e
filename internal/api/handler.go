package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/metrics"
	"github.com/abhisek/syllabus/internal/progress"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/tracker"
)

// Service is the tracker behavior the HTTP layer depends on.
type Service interface {
	Degrees(ctx context.Context) ([]store.DegreeSummary, error)
	Graph(ctx context.Context, degreeID string) (*curriculum.Graph, error)
	AddStudent(ctx context.Context, st store.Student) (store.Student, error)
	Report(ctx context.Context, studentID string) (*tracker.StudentReport, error)
	Advance(ctx context.Context, studentID, subjectID string, target curriculum.State) (progress.Record, error)
	History(ctx context.Context, studentID string, limit int) ([]store.TransitionEvent, error)
}

// Handler wires the HTTP endpoints to the tracker service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/degrees", h.HandleListDegrees)
	r.Get("/degrees/{degreeID}", h.HandleGetDegree)
	r.Get("/states", h.HandleListStates)
	r.Post("/students", h.HandleCreateStudent)
	r.Get("/students/{studentID}/subjects", h.HandleListSubjects)
	r.Put("/students/{studentID}/subjects/{subjectID}/status", h.HandleUpdateStatus)
	r.Get("/students/{studentID}/history", h.HandleHistory)
}

// NewRouter builds the full router: API endpoints plus /metrics when m is set.
func NewRouter(h *Handler, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	h.Register(r)
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.InfoContext(r.Context(), "http request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// HandleListDegrees handles GET /degrees.
func (h *Handler) HandleListDegrees(w http.ResponseWriter, r *http.Request) {
	degrees, err := h.service.Degrees(r.Context())
	if err != nil {
		h.fail(w, r, "list degrees failed", err)
		return
	}
	if degrees == nil {
		degrees = []store.DegreeSummary{}
	}
	WriteJSON(w, http.StatusOK, degrees)
}

// HandleGetDegree handles GET /degrees/{degreeID}.
func (h *Handler) HandleGetDegree(w http.ResponseWriter, r *http.Request) {
	g, err := h.service.Graph(r.Context(), chi.URLParam(r, "degreeID"))
	if err != nil {
		h.fail(w, r, "get degree failed", err)
		return
	}
	WriteJSON(w, http.StatusOK, FromGraph(g))
}

// HandleListStates handles GET /states.
func (h *Handler) HandleListStates(w http.ResponseWriter, r *http.Request) {
	states := curriculum.AllStates()
	resp := make([]StateResponse, len(states))
	for i, s := range states {
		resp[i] = StateResponse{Name: s, Label: s.Label(), Rank: curriculum.Rank(s)}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// HandleCreateStudent handles POST /students.
func (h *Handler) HandleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, badRequest{msg: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, err)
		return
	}
	st, err := h.service.AddStudent(r.Context(), store.Student{ID: req.ID, Name: req.Name, DegreeID: req.DegreeID})
	if err != nil {
		h.fail(w, r, "create student failed", err)
		return
	}
	WriteJSON(w, http.StatusCreated, st)
}

// HandleListSubjects handles GET /students/{studentID}/subjects.
func (h *Handler) HandleListSubjects(w http.ResponseWriter, r *http.Request) {
	sr, err := h.service.Report(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		h.fail(w, r, "report failed", err)
		return
	}
	WriteJSON(w, http.StatusOK, FromReport(sr))
}

// HandleUpdateStatus handles PUT /students/{studentID}/subjects/{subjectID}/status.
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, badRequest{msg: "body must be {\"state\": <state name>}"})
		return
	}
	target, err := curriculum.ParseState(req.State)
	if err != nil {
		WriteError(w, badRequest{msg: err.Error()})
		return
	}

	rec, err := h.service.Advance(r.Context(), chi.URLParam(r, "studentID"), chi.URLParam(r, "subjectID"), target)
	if err != nil {
		h.fail(w, r, "status update rejected", err)
		return
	}
	WriteJSON(w, http.StatusOK, rec)
}

// HandleHistory handles GET /students/{studentID}/history?limit=N. A limit
// keeps the N most recent transitions, still listed oldest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, badRequest{msg: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	events, err := h.service.History(r.Context(), chi.URLParam(r, "studentID"), limit)
	if err != nil {
		h.fail(w, r, "history failed", err)
		return
	}
	resp := make([]TransitionResponse, len(events))
	for i, ev := range events {
		resp[i] = FromEvent(ev)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status, _ := errorResponse(err)
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, msg,
		"request_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	WriteError(w, err)
}
