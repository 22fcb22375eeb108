package recordstore

import (
	"sync"

	"github.com/doctorprep/backend/core/question"
	"github.com/doctorprep/backend/storage/kvstore"
)

type questionRepo struct {
	mu        sync.RWMutex
	store     *kvstore.Store
	questions []question.Question
	answers   []question.StudentAnswer
}

var _ question.Repository = (*questionRepo)(nil)

// NewQuestionRepository loads the question and answer collections, seeding
// empty ones when absent.
func NewQuestionRepository(store *kvstore.Store) (question.Repository, error) {
	repo := &questionRepo{store: store}
	if err := repo.Reload(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (repo *questionRepo) Reload() error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	questions := []question.Question{}
	if err := repo.store.Load(questionsCollection, &questions, []question.Question{}); err != nil {
		return err
	}
	answers := []question.StudentAnswer{}
	if err := repo.store.Load(answersCollection, &answers, []question.StudentAnswer{}); err != nil {
		return err
	}
	repo.questions = questions
	repo.answers = answers
	return nil
}

func (repo *questionRepo) CreateQuestion(q question.Question) (question.Question, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	maxID := 0
	for _, existing := range repo.questions {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	q.ID = maxID + 1
	repo.questions = append(repo.questions, q)
	repo.store.Save(questionsCollection, repo.questions)
	return q, nil
}

func (repo *questionRepo) QueryAllQuestions() ([]question.Question, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	questions := make([]question.Question, len(repo.questions))
	copy(questions, repo.questions)
	return questions, nil
}

func (repo *questionRepo) GetQuestionByID(id int) (question.Question, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, q := range repo.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return question.Question{}, question.ErrNotFound
}

func (repo *questionRepo) UpdateQuestion(q question.Question) (question.Question, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.questions {
		if existing.ID == q.ID {
			repo.questions[i] = q
			repo.store.Save(questionsCollection, repo.questions)
			return q, nil
		}
	}
	return question.Question{}, question.ErrNotFound
}

func (repo *questionRepo) DeleteQuestion(id int) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, existing := range repo.questions {
		if existing.ID == id {
			repo.questions = append(repo.questions[:i], repo.questions[i+1:]...)
			repo.store.Save(questionsCollection, repo.questions)
			return true, nil
		}
	}
	return false, nil
}

func (repo *questionRepo) CreateAnswer(a question.StudentAnswer) (question.StudentAnswer, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.answers = append(repo.answers, a)
	repo.store.Save(answersCollection, repo.answers)
	return a, nil
}

func (repo *questionRepo) QueryAnswersByStudent(studentID int) ([]question.StudentAnswer, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	answers := make([]question.StudentAnswer, 0, len(repo.answers))
	for _, a := range repo.answers {
		if a.StudentID == studentID {
			answers = append(answers, a)
		}
	}
	return answers, nil
}
