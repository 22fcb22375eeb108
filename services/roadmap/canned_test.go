package roadmapsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core/roadmap"
)

func TestCannedGenerator(t *testing.T) {
	gen := NewCannedGenerator()

	t.Run("personalizes first weak area", func(t *testing.T) {
		plan, err := gen.Generate(context.Background(), roadmap.PlanRequest{
			ExamDate: "2027-01-15", WeakAreas: " Cardiology , Pharmacology", HoursPerDay: 4,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, plan.ID)
		assert.Equal(t, "USMLE Step 1 - Personalized Plan", plan.Title)
		require.Len(t, plan.Modules, 3)
		assert.Equal(t, "Week 1: Cardiology", plan.Modules[0].Title)
		assert.Equal(t, "Week 2: Systems Review", plan.Modules[1].Title)
		assert.Equal(t, "Week 3: Pathology Integration", plan.Modules[2].Title)
		for _, m := range plan.Modules {
			assert.Equal(t, moduleStatusPending, m.Status)
		}
	})

	t.Run("falls back to Foundations", func(t *testing.T) {
		plan, err := gen.Generate(context.Background(), roadmap.PlanRequest{
			ExamDate: "2027-01-15", WeakAreas: " , ", HoursPerDay: 4,
		})
		require.NoError(t, err)
		assert.Equal(t, "Week 1: Foundations", plan.Modules[0].Title)
	})

	t.Run("ids are unique", func(t *testing.T) {
		req := roadmap.PlanRequest{ExamDate: "2027-01-15", WeakAreas: "Cardiology", HoursPerDay: 4}
		p1, err := gen.Generate(context.Background(), req)
		require.NoError(t, err)
		p2, err := gen.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.NotEqual(t, p1.ID, p2.ID)
	})
}
