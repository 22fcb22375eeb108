package recordstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/core/student"
	"github.com/doctorprep/backend/storage/kvstore"
)

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func newTestStore(t *testing.T) (*kvstore.Store, *kvstore.MemBackend) {
	t.Helper()
	backend := kvstore.NewMemBackend()
	return kvstore.NewStore(backend, testLogger{}), backend
}

func createQuestion(t *testing.T, repo question.Repository, text string) question.Question {
	t.Helper()
	now := time.Now().UTC()
	q, err := repo.CreateQuestion(question.Question{
		Text:          text,
		Options:       map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
		CorrectAnswer: "A",
		Category:      "Cardiology",
		Difficulty:    question.DifficultyEasy,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	return q
}

func TestQuestionRepo_IDAssignment(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewQuestionRepository(store)
	require.NoError(t, err)

	q1 := createQuestion(t, repo, "one")
	q2 := createQuestion(t, repo, "two")
	q3 := createQuestion(t, repo, "three")
	assert.Equal(t, 1, q1.ID)
	assert.Equal(t, 2, q2.ID)
	assert.Equal(t, 3, q3.ID)

	// deleting the newest frees its id for reuse
	deleted, err := repo.DeleteQuestion(q3.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	q4 := createQuestion(t, repo, "four")
	assert.Equal(t, 3, q4.ID)

	// deleting a middle record does not renumber the rest
	deleted, err = repo.DeleteQuestion(q2.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := repo.QueryAllQuestions()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []int{q1.ID, q4.ID}, []int{all[0].ID, all[1].ID})
}

func TestQuestionRepo_DeleteTwice(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewQuestionRepository(store)
	require.NoError(t, err)

	q := createQuestion(t, repo, "one")

	deleted, err := repo.DeleteQuestion(q.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteQuestion(q.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestQuestionRepo_PersistsAcrossReload(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewQuestionRepository(store)
	require.NoError(t, err)

	q := createQuestion(t, repo, "one")
	_, err = repo.CreateAnswer(question.StudentAnswer{
		StudentID: 7, QuestionID: q.ID, SelectedAnswer: "A", IsCorrect: true, AnsweredAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Reload())

	got, err := repo.GetQuestionByID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Text, got.Text)

	answers, err := repo.QueryAnswersByStudent(7)
	require.NoError(t, err)
	assert.Len(t, answers, 1)
}

func TestQuestionRepo_AnswerLogAppendOnly(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewQuestionRepository(store)
	require.NoError(t, err)

	q := createQuestion(t, repo, "one")
	for _, label := range []string{"A", "B", "A"} {
		_, err = repo.CreateAnswer(question.StudentAnswer{
			StudentID: 1, QuestionID: q.ID, SelectedAnswer: label, IsCorrect: label == "A",
		})
		require.NoError(t, err)
	}

	answers, err := repo.QueryAnswersByStudent(1)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, "A", answers[0].SelectedAnswer)
	assert.Equal(t, "B", answers[1].SelectedAnswer)

	answers, err = repo.QueryAnswersByStudent(2)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func createStudent(t *testing.T, repo student.Repository, name, email string) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std := student.Student{
		Name: name, Email: email, Plan: student.PlanFree, Status: student.StatusActive,
		JoinDate: now, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, std.SetPassword("s3cr3t-pwd"))
	std, err := repo.CreateStudent(std)
	require.NoError(t, err)
	return std
}

func TestStudentRepo_EmailUniqueness(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewStudentRepository(store)
	require.NoError(t, err)

	std := createStudent(t, repo, "Awa", "awa@test.cd")

	assert.Equal(t, student.ErrEmailExists, repo.CheckEmailUniqueness("awa@test.cd"))
	assert.NoError(t, repo.CheckEmailUniqueness("other@test.cd"))
	// the student themselves is excluded on update
	assert.NoError(t, repo.CheckEmailUniqueness("awa@test.cd", std))
}

func TestStudentRepo_UpdateMergesSetFields(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewStudentRepository(store)
	require.NoError(t, err)

	std := createStudent(t, repo, "Awa", "awa@test.cd")

	progress := 40
	updated, err := repo.UpdateStudent(student.Student{
		ID:        std.ID,
		Plan:      student.PlanPro,
		UpdatedAt: time.Now().UTC(),
	}, &progress)
	require.NoError(t, err)

	assert.Equal(t, "Awa", updated.Name)
	assert.Equal(t, "awa@test.cd", updated.Email)
	assert.Equal(t, student.PlanPro, updated.Plan)
	assert.Equal(t, 40, updated.Progress)
	assert.Equal(t, std.PasswordHash, updated.PasswordHash)
}

func TestStudentRepo_UpdateUnknownStudent(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewStudentRepository(store)
	require.NoError(t, err)

	_, err = repo.UpdateStudent(student.Student{ID: 404}, nil)
	assert.Equal(t, student.ErrNotFound, err)
}

func TestStudentRepo_DeleteMultiple(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewStudentRepository(store)
	require.NoError(t, err)

	std1 := createStudent(t, repo, "One", "one@test.cd")
	std2 := createStudent(t, repo, "Two", "two@test.cd")
	std3 := createStudent(t, repo, "Three", "three@test.cd")

	require.NoError(t, repo.DeleteStudentsByID(std1.ID, std3.ID))

	all, err := repo.QueryAllStudents()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, std2.ID, all[0].ID)
}

func TestStudentRepo_Progress(t *testing.T) {
	store, _ := newTestStore(t)
	repo, err := NewStudentRepository(store)
	require.NoError(t, err)

	std := createStudent(t, repo, "Awa", "awa@test.cd")

	_, err = repo.GetProgress(std.ID)
	assert.Equal(t, student.ErrProgressNotFound, err)

	saved, err := repo.SaveProgress(student.Progress{
		StudentID: std.ID, DailyStreak: 3, QuestionsAnswered: 10, CorrectAnswers: 7, Accuracy: 70,
		LastActiveDate: time.Now().UTC(), StudyDays: []string{"2026-08-30", "2026-08-31"},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Reload())

	got, err := repo.GetProgress(std.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.DailyStreak, got.DailyStreak)
	assert.Equal(t, saved.StudyDays, got.StudyDays)
}
