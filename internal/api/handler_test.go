package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syllabus/internal/curriculum"
	"github.com/abhisek/syllabus/internal/logging"
	"github.com/abhisek/syllabus/internal/metrics"
	"github.com/abhisek/syllabus/internal/store"
	"github.com/abhisek/syllabus/internal/tracker"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := metrics.New()
	svc := tracker.NewService(st, tracker.WithMetrics(m))
	ctx := context.Background()
	_, err = svc.SeedSample(ctx)
	require.NoError(t, err)
	_, err = svc.AddStudent(ctx, store.Student{ID: "s1", Name: "Ada", DegreeID: "ing-sistemas"})
	require.NoError(t, err)

	return NewRouter(New(svc, logging.Discard()), m)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func TestListDegrees(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/degrees", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[[]store.DegreeSummary](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "ing-sistemas", got[0].ID)
	assert.Equal(t, 7, got[0].Subjects)
}

func TestGetDegree(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodGet, "/degrees/ing-sistemas", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[DegreeResponse](t, w)
	assert.Len(t, got.Subjects, 7)
	assert.Len(t, got.Edges, 9)
	assert.Equal(t, "aga", got.StudyOrder[0])
	assert.Len(t, got.StudyOrder, 7)

	w = do(t, h, http.MethodGet, "/degrees/medicina", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListStates(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/states", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	require.Len(t, got, 4)
	assert.Equal(t, "Pending", got[0]["name"])
	assert.Equal(t, "Approved", got[3]["name"])
	assert.Equal(t, float64(3), got[3]["rank"])
}

func TestListSubjects(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodGet, "/students/s1/subjects", "")
	require.Equal(t, http.StatusOK, w.Code)

	got := decode[ReportResponse](t, w)
	assert.Equal(t, "ing-sistemas", got.DegreeID)
	require.Len(t, got.Subjects, 7)
	assert.Equal(t, 7, got.Summary[curriculum.StatePending])

	byID := map[string]SubjectStatus{}
	for _, s := range got.Subjects {
		byID[s.ID] = s
	}
	assert.True(t, byID["am1"].CanEnroll)
	assert.False(t, byID["am2"].CanEnroll)
	assert.Equal(t, []curriculum.Requirement{{SubjectID: "am1", State: curriculum.StateRegularized}}, byID["am2"].UnmetEnroll)

	w = do(t, h, http.MethodGet, "/students/ghost/subjects", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"enroll", "/students/s1/subjects/am1/status", `{"state":"InProgress"}`, http.StatusOK, ""},
		{"regularize", "/students/s1/subjects/am1/status", `{"state":"regularized"}`, http.StatusOK, ""},
		{"skip ahead", "/students/s1/subjects/fis1/status", `{"state":"Approved"}`, http.StatusConflict, CodeIllegalTransition},
		{"prerequisites", "/students/s1/subjects/pye/status", `{"state":"InProgress"}`, http.StatusUnprocessableEntity, CodePrerequisitesNotMet},
		{"unknown state", "/students/s1/subjects/am1/status", `{"state":"Graduated"}`, http.StatusBadRequest, CodeBadRequest},
		{"bad body", "/students/s1/subjects/am1/status", `not json`, http.StatusBadRequest, CodeBadRequest},
		{"unknown subject", "/students/s1/subjects/xyz/status", `{"state":"InProgress"}`, http.StatusNotFound, CodeNotFound},
		{"unknown student", "/students/ghost/subjects/am1/status", `{"state":"InProgress"}`, http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPut, tt.path, tt.body)
			require.Equal(t, tt.wantStatus, w.Code, "body: %s", w.Body.String())
			if tt.wantCode != "" {
				got := decode[ErrorResponse](t, w)
				assert.Equal(t, tt.wantCode, got.Error)
			}
		})
	}
}

func TestUpdateStatus_UnmetDetail(t *testing.T) {
	h := newTestRouter(t)
	w := do(t, h, http.MethodPut, "/students/s1/subjects/an/status", `{"state":"InProgress"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	got := decode[ErrorResponse](t, w)
	assert.Equal(t, []curriculum.Requirement{
		{SubjectID: "am2", State: curriculum.StateRegularized},
		{SubjectID: "aga", State: curriculum.StateApproved},
	}, got.Unmet)
}

func TestCreateStudentAndHistory(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/students", `{"id":"s2","name":"Grace","degree_id":"ing-sistemas"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/students", `{"id":"s2","name":"Grace again","degree_id":"ing-sistemas"}`)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	dup := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeAlreadyExists, dup.Error)
	assert.Contains(t, dup.Description, `"s2"`)

	w = do(t, h, http.MethodPost, "/students", `{"id":"s3","degree_id":"medicina"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/students", `{"name":"nobody"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, state := range []string{"InProgress", "Regularized", "Approved"} {
		w = do(t, h, http.MethodPut, "/students/s2/subjects/aga/status", `{"state":"`+state+`"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	// The limit keeps the most recent transitions, oldest first.
	w = do(t, h, http.MethodGet, "/students/s2/history?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]TransitionResponse](t, w)
	require.Len(t, got, 2)
	assert.Equal(t, curriculum.StateInProgress, got[0].From)
	assert.Equal(t, curriculum.StateApproved, got[1].To)

	w = do(t, h, http.MethodGet, "/students/s2/history?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPut, "/students/s1/subjects/fis1/status", `{"state":"Approved"}`)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `syllabus_transitions_total{outcome="illegal_state_jump"} 1`)
}

func TestWriteError_InvalidCurriculumBeforeNotFound(t *testing.T) {
	// An empty subject ID is reported under the unknown-subject kind, but as
	// part of a rejected curriculum it is a 422, not a missing resource.
	_, err := curriculum.Load(curriculum.Degree{
		ID:       "broken",
		Subjects: []curriculum.Subject{{ID: "", Term: 1}},
	})
	require.ErrorIs(t, err, curriculum.ErrUnknownSubject)

	w := httptest.NewRecorder()
	WriteError(w, err)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, CodeInvalidCurriculum, decode[ErrorResponse](t, w).Error)
}

func TestWriteError_InternalOmitsDescription(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, assert.AnError)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	got := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeInternal, got.Error)
	assert.Empty(t, got.Description)
}
