// Package roadmap models AI-generated study plans. The generator itself is
// an external collaborator; this package owns the request validation and the
// document shape.
package roadmap

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

const dateLayout = "2006-01-02"

var (
	ErrGenerationFailed = errors.New("roadmap generation failed")

	errExamDateFormat = "exam date must be a YYYY-MM-DD date"
	errExamDatePast   = "exam date must be in the future"
)

type (
	// PlanRequest is the student's input to the generator.
	PlanRequest struct {
		ExamDate    string `json:"exam_date" validate:"required"`
		WeakAreas   string `json:"weak_areas" validate:"required,min=3"` // comma-separated
		HoursPerDay int    `json:"hours_per_day" validate:"required,gte=1,lte=16"`
	}

	Module struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Status      string `json:"status,omitempty"`
	}

	Roadmap struct {
		ID      string   `json:"id"`
		Title   string   `json:"title"`
		Modules []Module `json:"modules"`
	}

	// Generator produces a roadmap for a validated request. Implementations
	// must return ErrGenerationFailed (wrapped) on malformed upstream output
	// rather than surfacing a parse panic.
	Generator interface {
		Generate(ctx context.Context, req PlanRequest) (Roadmap, error)
	}
)

func (pr *PlanRequest) Validate(validate *validator.Validate) error {
	pr.ExamDate = core.CleanString(pr.ExamDate)
	pr.WeakAreas = core.CleanString(pr.WeakAreas)

	if err := validate.Struct(pr); err != nil {
		return err
	}

	examDate, err := time.Parse(dateLayout, pr.ExamDate)
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "exam_date", Error: errExamDateFormat})
	}
	if !examDate.After(time.Now()) {
		return core.NewValidationError(nil, core.FieldError{Field: "exam_date", Error: errExamDatePast})
	}
	return nil
}
