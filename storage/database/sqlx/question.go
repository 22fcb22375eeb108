package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/question"
)

type questionRepo struct {
	db *sqlx.DB
}

var _ question.Repository = (*questionRepo)(nil)

func NewQuestionRepository(db *sqlx.DB) question.Repository {
	return &questionRepo{db: db}
}

type questionRow struct {
	ID            int       `db:"id"`
	Text          string    `db:"text"`
	Options       []byte    `db:"options"`
	CorrectAnswer string    `db:"correct_answer"`
	Category      string    `db:"category"`
	Difficulty    string    `db:"difficulty"`
	Explanation   string    `db:"explanation"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (row questionRow) toQuestion() (question.Question, error) {
	q := question.Question{
		ID:            row.ID,
		Text:          row.Text,
		CorrectAnswer: row.CorrectAnswer,
		Category:      row.Category,
		Difficulty:    row.Difficulty,
		Explanation:   row.Explanation,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	col := jsonColumn{v: &q.Options}
	if err := col.Scan(row.Options); err != nil {
		return question.Question{}, errors.Wrap(err, "decoding options")
	}
	return q, nil
}

type answerRow struct {
	StudentID      int       `db:"student_id"`
	QuestionID     int       `db:"question_id"`
	SelectedAnswer string    `db:"selected_answer"`
	IsCorrect      bool      `db:"is_correct"`
	AnsweredAt     time.Time `db:"answered_at"`
}

func (repo *questionRepo) CreateQuestion(q question.Question) (question.Question, error) {
	query := `
	INSERT INTO questions (id, text, options, correct_answer, category, difficulty, explanation, created_at, updated_at)
	VALUES ((SELECT coalesce(max(id), 0) + 1 FROM questions), $1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`
	err := repo.db.QueryRow(
		query, q.Text, jsonColumn{v: q.Options}, q.CorrectAnswer, q.Category,
		q.Difficulty, q.Explanation, q.CreatedAt, q.UpdatedAt,
	).Scan(&q.ID)
	if err != nil {
		return question.Question{}, errors.Wrap(err, "creating question")
	}
	return q, nil
}

func (repo *questionRepo) QueryAllQuestions() ([]question.Question, error) {
	var rows []questionRow
	if err := repo.db.Select(&rows, "SELECT * FROM questions ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying questions")
	}
	questions := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		q, err := row.toQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo *questionRepo) GetQuestionByID(id int) (question.Question, error) {
	var row questionRow
	if err := repo.db.Get(&row, "SELECT * FROM questions WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return question.Question{}, question.ErrNotFound
		}
		return question.Question{}, errors.Wrap(err, "getting question")
	}
	return row.toQuestion()
}

func (repo *questionRepo) UpdateQuestion(q question.Question) (question.Question, error) {
	query := `
	UPDATE questions
	SET text = $2, options = $3, correct_answer = $4, category = $5, difficulty = $6, explanation = $7, updated_at = $8
	WHERE id = $1`
	res, err := repo.db.Exec(
		query, q.ID, q.Text, jsonColumn{v: q.Options}, q.CorrectAnswer,
		q.Category, q.Difficulty, q.Explanation, q.UpdatedAt,
	)
	if err != nil {
		return question.Question{}, errors.Wrap(err, "updating question")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return question.Question{}, question.ErrNotFound
	}
	return q, nil
}

func (repo *questionRepo) DeleteQuestion(id int) (bool, error) {
	res, err := repo.db.Exec("DELETE FROM questions WHERE id = $1", id)
	if err != nil {
		return false, errors.Wrap(err, "deleting question")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "deleting question")
	}
	return n > 0, nil
}

func (repo *questionRepo) CreateAnswer(a question.StudentAnswer) (question.StudentAnswer, error) {
	query := `
	INSERT INTO student_answers (student_id, question_id, selected_answer, is_correct, answered_at)
	VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.Exec(query, a.StudentID, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.AnsweredAt)
	if err != nil {
		return question.StudentAnswer{}, errors.Wrap(err, "recording answer")
	}
	return a, nil
}

func (repo *questionRepo) QueryAnswersByStudent(studentID int) ([]question.StudentAnswer, error) {
	var rows []answerRow
	query := `
	SELECT student_id, question_id, selected_answer, is_correct, answered_at
	FROM student_answers WHERE student_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, studentID); err != nil {
		return nil, errors.Wrap(err, "querying answers")
	}
	answers := make([]question.StudentAnswer, 0, len(rows))
	for _, row := range rows {
		answers = append(answers, question.StudentAnswer(row))
	}
	return answers, nil
}

// Reload is a no-op; nothing is cached.
func (repo *questionRepo) Reload() error { return nil }
