package roadmapsvc

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/doctorprep/backend/core/roadmap"
)

const moduleStatusPending = "PENDING"

type cannedGenerator struct{}

var _ roadmap.Generator = (*cannedGenerator)(nil)

// NewCannedGenerator returns a generator that builds a fixed three-week plan,
// personalized only by the student's first weak area. Used when no OpenAI key
// is configured.
func NewCannedGenerator() roadmap.Generator {
	return &cannedGenerator{}
}

func (g *cannedGenerator) Generate(_ context.Context, req roadmap.PlanRequest) (roadmap.Roadmap, error) {
	focus := "Foundations"
	if areas := strings.Split(req.WeakAreas, ","); len(areas) > 0 {
		if first := strings.TrimSpace(areas[0]); first != "" {
			focus = first
		}
	}

	return roadmap.Roadmap{
		ID:    uuid.New().String(),
		Title: "USMLE Step 1 - Personalized Plan",
		Modules: []roadmap.Module{
			{
				Title:       "Week 1: " + focus,
				Description: "Targeted review of your weakest area with daily question blocks.",
				Status:      moduleStatusPending,
			},
			{
				Title:       "Week 2: Systems Review",
				Description: "Organ system sweeps with mixed-difficulty practice sets.",
				Status:      moduleStatusPending,
			},
			{
				Title:       "Week 3: Pathology Integration",
				Description: "Cross-topic cases tying pathology back to physiology and pharm.",
				Status:      moduleStatusPending,
			},
		},
	}, nil
}
