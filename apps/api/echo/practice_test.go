package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core/quiz"
)

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) quiz.Snapshot {
	t.Helper()
	var snap quiz.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func TestPracticeApi_start(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	stdToken := app.studentToken(t, std)

	t.Run("empty bank", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/practice", stdToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("admin cannot practice", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/practice", app.adminToken(t))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("starts presenting the first question", func(t *testing.T) {
		q1 := app.createQuestion(t, "Q1?", "A", "Cardiology", "Easy")
		app.createQuestion(t, "Q2?", "B", "Pharmacology", "Medium")

		rec := app.do(http.MethodPost, "/v1/practice", stdToken)
		require.Equal(t, http.StatusCreated, rec.Code)

		snap := decodeSnapshot(t, rec)
		assert.NotEmpty(t, snap.SessionID)
		assert.Equal(t, quiz.StatePresenting, snap.State)
		assert.Equal(t, 0, snap.Index)
		assert.Equal(t, 2, snap.Total)
		assert.Equal(t, q1.ID, snap.Question.ID)
		assert.Nil(t, snap.Verdict)
	})
}

func TestPracticeApi_answerFlow(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	stdToken := app.studentToken(t, std)

	app.createQuestion(t, "Q1?", "A", "Cardiology", "Easy")
	app.createQuestion(t, "Q2?", "B", "Pharmacology", "Medium")

	rec := app.do(http.MethodPost, "/v1/practice", stdToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	sessID := decodeSnapshot(t, rec).SessionID
	path := func(suffix string) string { return fmt.Sprintf("/v1/practice/%s%s", sessID, suffix) }

	t.Run("submit before selecting", func(t *testing.T) {
		rec := app.do(http.MethodPost, path("/submit"), stdToken)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("next before submitting", func(t *testing.T) {
		rec := app.do(http.MethodPost, path("/next"), stdToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid selection", func(t *testing.T) {
		rec := app.do(http.MethodPut, path("/selection"), stdToken, marshallObj(t, SelectAnswerRequest{Selection: "E"}))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("select and submit", func(t *testing.T) {
		rec := app.do(http.MethodPut, path("/selection"), stdToken, marshallObj(t, SelectAnswerRequest{Selection: "A"}))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "A", decodeSnapshot(t, rec).Selection)

		rec = app.do(http.MethodPost, path("/submit"), stdToken)
		require.Equal(t, http.StatusOK, rec.Code)

		snap := decodeSnapshot(t, rec)
		assert.Equal(t, quiz.StateSubmitted, snap.State)
		require.NotNil(t, snap.Verdict)
		assert.True(t, snap.Verdict.IsCorrect)
		assert.Equal(t, 1, snap.Stats.QuestionsAnswered)
		assert.Equal(t, 100, snap.Stats.Accuracy)
	})

	t.Run("no reselect or resubmit", func(t *testing.T) {
		rec := app.do(http.MethodPut, path("/selection"), stdToken, marshallObj(t, SelectAnswerRequest{Selection: "B"}))
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = app.do(http.MethodPost, path("/submit"), stdToken)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("next advances and clears", func(t *testing.T) {
		rec := app.do(http.MethodPost, path("/next"), stdToken)
		require.Equal(t, http.StatusOK, rec.Code)

		snap := decodeSnapshot(t, rec)
		assert.Equal(t, quiz.StatePresenting, snap.State)
		assert.Equal(t, 1, snap.Index)
		assert.Empty(t, snap.Selection)
		assert.Nil(t, snap.Verdict)
	})

	t.Run("wraps to the first question", func(t *testing.T) {
		rec := app.do(http.MethodPut, path("/selection"), stdToken, marshallObj(t, SelectAnswerRequest{Selection: "C"}))
		require.Equal(t, http.StatusOK, rec.Code)
		rec = app.do(http.MethodPost, path("/submit"), stdToken)
		require.Equal(t, http.StatusOK, rec.Code)
		rec = app.do(http.MethodPost, path("/next"), stdToken)
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, 0, decodeSnapshot(t, rec).Index)
	})

	t.Run("end", func(t *testing.T) {
		rec := app.do(http.MethodDelete, path(""), stdToken)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = app.do(http.MethodGet, path(""), stdToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPracticeApi_ownership(t *testing.T) {
	app := setupApp(t)
	std1 := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	std2 := app.createStudent(t, "Ben", "ben@test.cd", "s3cr3t-pwd")
	app.createQuestion(t, "Q1?", "A", "Cardiology", "Easy")

	rec := app.do(http.MethodPost, "/v1/practice", app.studentToken(t, std1))
	require.Equal(t, http.StatusCreated, rec.Code)
	sessID := decodeSnapshot(t, rec).SessionID
	path := "/v1/practice/" + sessID

	t.Run("another student sees 404", func(t *testing.T) {
		rec := app.do(http.MethodGet, path, app.studentToken(t, std2))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin may inspect", func(t *testing.T) {
		rec := app.do(http.MethodGet, path, app.adminToken(t))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/practice/nope", app.studentToken(t, std1))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPracticeApi_staleQuestion(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	stdToken := app.studentToken(t, std)

	q1 := app.createQuestion(t, "Q1?", "A", "Cardiology", "Easy")
	app.createQuestion(t, "Q2?", "B", "Pharmacology", "Medium")

	rec := app.do(http.MethodPost, "/v1/practice", stdToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	sessID := decodeSnapshot(t, rec).SessionID
	path := func(suffix string) string { return fmt.Sprintf("/v1/practice/%s%s", sessID, suffix) }

	// current question vanishes mid-session
	deleted, err := app.qstSvc.Delete(q1.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	rec = app.do(http.MethodPut, path("/selection"), stdToken, marshallObj(t, SelectAnswerRequest{Selection: "A"}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(http.MethodPost, path("/submit"), stdToken)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// session recovered with a fresh question list
	rec = app.do(http.MethodGet, path(""), stdToken)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, quiz.StatePresenting, snap.State)
	assert.Equal(t, 1, snap.Total)
	assert.Empty(t, snap.Selection)
}
