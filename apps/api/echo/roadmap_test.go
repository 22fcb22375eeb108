package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core/roadmap"
)

func TestRoadmapApi_generate(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	stdToken := app.studentToken(t, std)

	future := time.Now().AddDate(0, 3, 0).Format("2006-01-02")

	t.Run("anonymous", func(t *testing.T) {
		body := marshallObj(t, roadmap.PlanRequest{ExamDate: future, WeakAreas: "Cardiology", HoursPerDay: 4})
		rec := app.do(http.MethodPost, "/v1/roadmaps", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("generates a personalized plan", func(t *testing.T) {
		body := marshallObj(t, roadmap.PlanRequest{ExamDate: future, WeakAreas: "Cardiology, Pharmacology", HoursPerDay: 4})
		rec := app.do(http.MethodPost, "/v1/roadmaps", stdToken, body)
		require.Equal(t, http.StatusCreated, rec.Code)

		var plan roadmap.Roadmap
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
		assert.NotEmpty(t, plan.ID)
		assert.Equal(t, "USMLE Step 1 - Personalized Plan", plan.Title)
		require.Len(t, plan.Modules, 3)
		assert.Equal(t, "Week 1: Cardiology", plan.Modules[0].Title)
	})

	tests := []httpTest{
		{
			name:     "missing fields",
			body:     marshallObj(t, roadmap.PlanRequest{}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed date",
			body:     marshallObj(t, roadmap.PlanRequest{ExamDate: "03/12/2026", WeakAreas: "Cardiology", HoursPerDay: 4}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "past date",
			body:     marshallObj(t, roadmap.PlanRequest{ExamDate: "2020-01-01", WeakAreas: "Cardiology", HoursPerDay: 4}),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "hours out of range",
			body:     marshallObj(t, roadmap.PlanRequest{ExamDate: future, WeakAreas: "Cardiology", HoursPerDay: 20}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/v1/roadmaps", stdToken, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
