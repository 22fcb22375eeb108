package question

import (
	"time"

	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

var (
	// errors
	ErrNotFound = errors.New("question not found")
)

type (
	Repository interface {
		// CreateQuestion assigns a fresh id (max existing + 1) and appends.
		CreateQuestion(q Question) (Question, error)
		// QueryAllQuestions returns questions in insertion order.
		QueryAllQuestions() ([]Question, error)
		GetQuestionByID(id int) (Question, error)
		// UpdateQuestion replaces the stored record matching q.ID.
		UpdateQuestion(q Question) (Question, error)
		// DeleteQuestion reports whether a matching record existed.
		DeleteQuestion(id int) (bool, error)

		// CreateAnswer appends to the answer log. The log is never rewritten.
		CreateAnswer(a StudentAnswer) (StudentAnswer, error)
		QueryAnswersByStudent(studentID int) ([]StudentAnswer, error)

		// Reload discards any cached state and re-reads from the backend.
		Reload() error
	}

	Service interface {
		QueryAll() ([]Question, error)
		GetByID(id int) (Question, error)
		FilterByCategory(category string) ([]Question, error)
		FilterByDifficulty(difficulty string) ([]Question, error)
		Categories() ([]string, error)
		Create(nq NewQuestion) (Question, error)
		Update(id int, uq UpdateQuestion) (Question, error)
		Delete(id int) (bool, error)

		SubmitAnswer(studentID, questionID int, selectedAnswer string) (Verdict, error)
		StudentStats(studentID int) (StudentStats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) QueryAll() ([]Question, error) {
	return svc.repo.QueryAllQuestions()
}

func (svc *service) GetByID(id int) (Question, error) {
	return svc.repo.GetQuestionByID(id)
}

func (svc *service) FilterByCategory(category string) ([]Question, error) {
	all, err := svc.repo.QueryAllQuestions()
	if err != nil {
		return nil, err
	}
	matches := make([]Question, 0, len(all))
	for _, q := range all {
		if q.Category == category {
			matches = append(matches, q)
		}
	}
	return matches, nil
}

func (svc *service) FilterByDifficulty(difficulty string) ([]Question, error) {
	all, err := svc.repo.QueryAllQuestions()
	if err != nil {
		return nil, err
	}
	matches := make([]Question, 0, len(all))
	for _, q := range all {
		if q.Difficulty == difficulty {
			matches = append(matches, q)
		}
	}
	return matches, nil
}

func (svc *service) Categories() ([]string, error) {
	all, err := svc.repo.QueryAllQuestions()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(all))
	categories := make([]string, 0, len(all))
	for _, q := range all {
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, q.Category)
		}
	}
	return categories, nil
}

func (svc *service) Create(nq NewQuestion) (Question, error) {
	now := time.Now().UTC()
	return svc.repo.CreateQuestion(Question{
		Text:          nq.Text,
		Options:       nq.Options,
		CorrectAnswer: nq.CorrectAnswer,
		Category:      nq.Category,
		Difficulty:    nq.Difficulty,
		Explanation:   nq.Explanation,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (svc *service) Update(id int, uq UpdateQuestion) (Question, error) {
	orig, err := svc.repo.GetQuestionByID(id)
	if err != nil {
		return Question{}, err
	}
	return svc.repo.UpdateQuestion(uq.Merged(orig))
}

func (svc *service) Delete(id int) (bool, error) {
	return svc.repo.DeleteQuestion(id)
}

// SubmitAnswer scores a submission, appends it to the answer log and returns
// the verdict. A missing question returns ErrNotFound and appends nothing.
func (svc *service) SubmitAnswer(studentID, questionID int, selectedAnswer string) (Verdict, error) {
	if !ValidLabel(selectedAnswer) {
		return Verdict{}, core.NewValidationError(nil,
			core.FieldError{Field: "selected_answer", Error: labelText})
	}

	q, err := svc.repo.GetQuestionByID(questionID)
	if err != nil {
		return Verdict{}, err
	}

	isCorrect := selectedAnswer == q.CorrectAnswer
	if _, err = svc.repo.CreateAnswer(StudentAnswer{
		StudentID:      studentID,
		QuestionID:     questionID,
		SelectedAnswer: selectedAnswer,
		IsCorrect:      isCorrect,
		AnsweredAt:     time.Now().UTC(),
	}); err != nil {
		return Verdict{}, errors.Wrap(err, "recording answer")
	}

	return Verdict{
		IsCorrect:     isCorrect,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}, nil
}

// StudentStats aggregates the full answer log for one student. Linear in the
// log size, which is fine at this data scale.
func (svc *service) StudentStats(studentID int) (StudentStats, error) {
	answers, err := svc.repo.QueryAnswersByStudent(studentID)
	if err != nil {
		return StudentStats{}, err
	}
	var correct int
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	return StudentStats{
		QuestionsAnswered: len(answers),
		CorrectAnswers:    correct,
		Accuracy:          computeAccuracy(correct, len(answers)),
	}, nil
}

func computeAccuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
