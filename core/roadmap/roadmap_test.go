package roadmap

import (
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	return validate
}

func TestPlanRequest_Validate(t *testing.T) {
	validate := newValidate(t)
	future := time.Now().AddDate(0, 3, 0).Format("2006-01-02")

	t.Run("valid", func(t *testing.T) {
		req := PlanRequest{ExamDate: " " + future + " ", WeakAreas: "Cardiology, Pharmacology", HoursPerDay: 4}
		require.NoError(t, req.Validate(validate))
		assert.Equal(t, future, req.ExamDate)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := PlanRequest{}
		assert.Error(t, req.Validate(validate))
	})

	t.Run("hours out of range", func(t *testing.T) {
		req := PlanRequest{ExamDate: future, WeakAreas: "Cardiology", HoursPerDay: 20}
		assert.Error(t, req.Validate(validate))
	})

	t.Run("malformed date", func(t *testing.T) {
		req := PlanRequest{ExamDate: "03/12/2026", WeakAreas: "Cardiology", HoursPerDay: 4}
		err := req.Validate(validate)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "exam_date", vErr.Fields[0].Field)
	})

	t.Run("past date", func(t *testing.T) {
		req := PlanRequest{ExamDate: "2020-01-01", WeakAreas: "Cardiology", HoursPerDay: 4}
		err := req.Validate(validate)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "exam_date", vErr.Fields[0].Field)
	})
}
