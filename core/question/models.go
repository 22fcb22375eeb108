package question

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/doctorprep/backend/core"
)

// Answer labels
const (
	LabelA = "A"
	LabelB = "B"
	LabelC = "C"
	LabelD = "D"
)

// Difficulties
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

var (
	Labels       = []string{LabelA, LabelB, LabelC, LabelD}
	Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard}
)

type Question struct {
	ID            int               `json:"id"`
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"` // label -> text, labels A-D
	CorrectAnswer string            `json:"correct_answer"`
	Category      string            `json:"category"`
	Difficulty    string            `json:"difficulty"`
	Explanation   string            `json:"explanation,omitempty"`
	CreatedAt     time.Time         `json:"created_at"` // UTC
	UpdatedAt     time.Time         `json:"updated_at"` // UTC
}

// StudentAnswer is one submission against a question. The answer log is
// append-only; a student answering the same question again produces a new
// record.
type StudentAnswer struct {
	StudentID      int       `json:"student_id"`
	QuestionID     int       `json:"question_id"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	AnsweredAt     time.Time `json:"answered_at"` // UTC
}

// Verdict is the result of a submission. The explanation is always revealed,
// correct or not.
type Verdict struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

type StudentStats struct {
	QuestionsAnswered int `json:"questions_answered"`
	CorrectAnswers    int `json:"correct_answers"`
	Accuracy          int `json:"accuracy"` // 0-100
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Text          string            `json:"text" validate:"required"`
	Options       map[string]string `json:"options" validate:"required"`
	CorrectAnswer string            `json:"correct_answer" validate:"required,answerlabel"`
	Category      string            `json:"category" validate:"required"`
	Difficulty    string            `json:"difficulty" validate:"required,difficulty"`
	Explanation   string            `json:"explanation"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Text = core.CleanString(nq.Text)
	nq.Category = core.CleanString(nq.Category)
	return validate.Struct(nq)
}

// UpdateQuestion defines a partial update; unset fields retain their prior
// value. Edits never rewrite past answers, they only change future scoring.
type UpdateQuestion struct {
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer" validate:"omitempty,answerlabel"`
	Category      string            `json:"category"`
	Difficulty    string            `json:"difficulty" validate:"omitempty,difficulty"`
	Explanation   *string           `json:"explanation"`
}

// Validate merges unset fields from orig, then validates the combined result.
func (uq *UpdateQuestion) Validate(orig Question, validate *validator.Validate) error {
	text := core.CleanString(uq.Text)
	if text != "" {
		uq.Text = text
	} else {
		uq.Text = orig.Text
	}

	category := core.CleanString(uq.Category)
	if category != "" {
		uq.Category = category
	} else {
		uq.Category = orig.Category
	}

	if uq.Options == nil {
		uq.Options = orig.Options
	}
	if uq.CorrectAnswer == "" {
		uq.CorrectAnswer = orig.CorrectAnswer
	}
	if uq.Difficulty == "" {
		uq.Difficulty = orig.Difficulty
	}

	return validate.Struct(uq)
}

// Merged returns orig with this update applied. Validate must have been
// called first so the unset fields are already filled in.
func (uq *UpdateQuestion) Merged(orig Question) Question {
	q := orig
	q.Text = uq.Text
	q.Options = uq.Options
	q.CorrectAnswer = uq.CorrectAnswer
	q.Category = uq.Category
	q.Difficulty = uq.Difficulty
	if uq.Explanation != nil {
		q.Explanation = *uq.Explanation
	}
	q.UpdatedAt = time.Now().UTC()
	return q
}

// ValidLabel reports whether label is one of A-D.
func ValidLabel(label string) bool {
	for _, l := range Labels {
		if l == label {
			return true
		}
	}
	return false
}
