package question

import (
	"testing"

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
	InitValidators(validate, translator)
	return validate
}

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	questions []Question
	answers   []StudentAnswer
}

var _ Repository = (*fakeRepo)(nil)

func (r *fakeRepo) CreateQuestion(q Question) (Question, error) {
	maxID := 0
	for _, existing := range r.questions {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	q.ID = maxID + 1
	r.questions = append(r.questions, q)
	return q, nil
}

func (r *fakeRepo) QueryAllQuestions() ([]Question, error) {
	return append([]Question{}, r.questions...), nil
}

func (r *fakeRepo) GetQuestionByID(id int) (Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (r *fakeRepo) UpdateQuestion(q Question) (Question, error) {
	for i, existing := range r.questions {
		if existing.ID == q.ID {
			r.questions[i] = q
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (r *fakeRepo) DeleteQuestion(id int) (bool, error) {
	for i, existing := range r.questions {
		if existing.ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CreateAnswer(a StudentAnswer) (StudentAnswer, error) {
	r.answers = append(r.answers, a)
	return a, nil
}

func (r *fakeRepo) QueryAnswersByStudent(studentID int) ([]StudentAnswer, error) {
	answers := make([]StudentAnswer, 0)
	for _, a := range r.answers {
		if a.StudentID == studentID {
			answers = append(answers, a)
		}
	}
	return answers, nil
}

func (r *fakeRepo) Reload() error { return nil }

func newTestService(t *testing.T, questions ...NewQuestion) (Service, *fakeRepo) {
	t.Helper()
	repo := &fakeRepo{}
	svc := NewService(repo)
	for _, nq := range questions {
		_, err := svc.Create(nq)
		require.NoError(t, err)
	}
	return svc, repo
}

func newQuestion(text, correct, category, difficulty string) NewQuestion {
	return NewQuestion{
		Text:          text,
		Options:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		CorrectAnswer: correct,
		Category:      category,
		Difficulty:    difficulty,
		Explanation:   "because " + correct,
	}
}

func TestService_SubmitAnswer(t *testing.T) {
	svc, repo := newTestService(t, newQuestion("q1", "B", "Cardiology", DifficultyEasy))

	t.Run("correct answer", func(t *testing.T) {
		verdict, err := svc.SubmitAnswer(1, 1, "B")
		require.NoError(t, err)
		assert.True(t, verdict.IsCorrect)
		assert.Equal(t, "B", verdict.CorrectAnswer)
		assert.Equal(t, "because B", verdict.Explanation)
	})

	t.Run("wrong answer still reveals explanation", func(t *testing.T) {
		verdict, err := svc.SubmitAnswer(1, 1, "A")
		require.NoError(t, err)
		assert.False(t, verdict.IsCorrect)
		assert.Equal(t, "B", verdict.CorrectAnswer)
		assert.Equal(t, "because B", verdict.Explanation)
	})

	t.Run("invalid label", func(t *testing.T) {
		_, err := svc.SubmitAnswer(1, 1, "E")
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Len(t, repo.answers, 2) // nothing appended
	})

	t.Run("unknown question appends nothing", func(t *testing.T) {
		_, err := svc.SubmitAnswer(1, 404, "A")
		assert.Equal(t, ErrNotFound, err)
		assert.Len(t, repo.answers, 2)
	})

	t.Run("resubmission appends a new record", func(t *testing.T) {
		_, err := svc.SubmitAnswer(1, 1, "B")
		require.NoError(t, err)
		assert.Len(t, repo.answers, 3)
	})
}

func TestService_StudentStats(t *testing.T) {
	svc, _ := newTestService(t,
		newQuestion("q1", "A", "Cardiology", DifficultyEasy),
		newQuestion("q2", "B", "Anatomy", DifficultyMedium),
		newQuestion("q3", "C", "Cardiology", DifficultyHard),
	)

	t.Run("zero answers means zero accuracy", func(t *testing.T) {
		stats, err := svc.StudentStats(1)
		require.NoError(t, err)
		assert.Equal(t, StudentStats{}, stats)
	})

	submit := func(studentID, questionID int, label string) {
		_, err := svc.SubmitAnswer(studentID, questionID, label)
		require.NoError(t, err)
	}
	submit(1, 1, "A") // correct
	submit(1, 2, "A") // wrong
	submit(1, 3, "C") // correct
	submit(2, 1, "D") // another student, wrong

	t.Run("accuracy is rounded", func(t *testing.T) {
		stats, err := svc.StudentStats(1)
		require.NoError(t, err)
		// 2/3 -> 66.67 -> 67
		assert.Equal(t, StudentStats{QuestionsAnswered: 3, CorrectAnswers: 2, Accuracy: 67}, stats)
	})

	t.Run("stats are per student", func(t *testing.T) {
		stats, err := svc.StudentStats(2)
		require.NoError(t, err)
		assert.Equal(t, StudentStats{QuestionsAnswered: 1, CorrectAnswers: 0, Accuracy: 0}, stats)
	})
}

func TestService_Filters(t *testing.T) {
	svc, _ := newTestService(t,
		newQuestion("q1", "A", "Cardiology", DifficultyEasy),
		newQuestion("q2", "B", "Anatomy", DifficultyMedium),
		newQuestion("q3", "C", "Cardiology", DifficultyHard),
	)

	byCategory, err := svc.FilterByCategory("Cardiology")
	require.NoError(t, err)
	require.Len(t, byCategory, 2)
	assert.Equal(t, "q1", byCategory[0].Text)
	assert.Equal(t, "q3", byCategory[1].Text)

	byDifficulty, err := svc.FilterByDifficulty(DifficultyMedium)
	require.NoError(t, err)
	require.Len(t, byDifficulty, 1)
	assert.Equal(t, "q2", byDifficulty[0].Text)

	none, err := svc.FilterByCategory("Pharmacology")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestService_CategoriesFirstSeenOrder(t *testing.T) {
	svc, _ := newTestService(t,
		newQuestion("q1", "A", "Cardiology", DifficultyEasy),
		newQuestion("q2", "B", "Anatomy", DifficultyMedium),
		newQuestion("q3", "C", "Cardiology", DifficultyHard),
		newQuestion("q4", "D", "Immunology", DifficultyEasy),
	)

	categories, err := svc.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology", "Anatomy", "Immunology"}, categories)
}

func TestService_UpdateMergesUnsetFields(t *testing.T) {
	svc, _ := newTestService(t, newQuestion("q1", "A", "Cardiology", DifficultyEasy))

	orig, err := svc.GetByID(1)
	require.NoError(t, err)

	uq := UpdateQuestion{CorrectAnswer: "C"}
	// handler flow: Validate fills unset fields from orig before Update
	require.NoError(t, uq.Validate(orig, newValidate(t)))

	updated, err := svc.Update(1, uq)
	require.NoError(t, err)
	assert.Equal(t, "q1", updated.Text)
	assert.Equal(t, "C", updated.CorrectAnswer)
	assert.Equal(t, "Cardiology", updated.Category)
	assert.Equal(t, orig.Options, updated.Options)
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt) || updated.UpdatedAt.Equal(orig.UpdatedAt))
}

func TestService_UpdateExplanationExplicitlyCleared(t *testing.T) {
	svc, _ := newTestService(t, newQuestion("q1", "A", "Cardiology", DifficultyEasy))

	orig, err := svc.GetByID(1)
	require.NoError(t, err)
	require.NotEmpty(t, orig.Explanation)

	empty := ""
	uq := UpdateQuestion{Explanation: &empty}
	require.NoError(t, uq.Validate(orig, newValidate(t)))

	updated, err := svc.Update(1, uq)
	require.NoError(t, err)
	assert.Empty(t, updated.Explanation)
}

func TestService_Delete(t *testing.T) {
	svc, _ := newTestService(t, newQuestion("q1", "A", "Cardiology", DifficultyEasy))

	deleted, err := svc.Delete(1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestComputeAccuracy(t *testing.T) {
	tests := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{5, 5, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, computeAccuracy(tt.correct, tt.total), "%d/%d", tt.correct, tt.total)
	}
}
