package student

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/go-playground/validator/v10"

	"github.com/doctorprep/backend/core"
)

// Plans
const (
	PlanFree          = "Free"
	PlanPro           = "Pro"
	PlanInstitutional = "Institutional"
)

// Statuses
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

var (
	Plans    = []string{PlanFree, PlanPro, PlanInstitutional}
	Statuses = []string{StatusActive, StatusInactive}
)

type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Plan         string    `json:"plan"`
	Progress     int       `json:"progress"` // course completion, 0-100
	JoinDate     time.Time `json:"join_date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s *Student) IsActive() bool {
	return s.Status == StatusActive
}

// Progress holds a student's practice aggregates. One record per student,
// created lazily via Service.GetOrCreateProgress.
type Progress struct {
	StudentID         int       `json:"student_id"`
	DailyStreak       int       `json:"daily_streak"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	Accuracy          int       `json:"accuracy"` // derived, 0-100
	LastActiveDate    time.Time `json:"last_active_date"`
	StudyDays         []string  `json:"study_days"` // "2006-01-02" dates
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Plan            string `json:"plan" validate:"omitempty,plan"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc Service) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name            string `json:"name"`
	Email           string `json:"email" validate:"omitempty,email"`
	Plan            string `json:"plan" validate:"omitempty,plan"`
	Status          string `json:"status" validate:"omitempty,studentstatus"`
	Progress        *int   `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (us *UpdateStudent) Validate(orig Student, validate *validator.Validate, svc Service) error {
	name := core.CleanString(us.Name)
	if name != "" {
		us.Name = name
	} else {
		us.Name = orig.Name
	}

	email := core.CleanString(us.Email, true /* lower */)
	if email != "" {
		us.Email = email
	} else {
		us.Email = orig.Email
	}

	if err := validate.Struct(us); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(us.Email, orig)
}

// UpdateProgress defines a partial update of a student's practice aggregates.
// Accuracy is recomputed, never set directly.
type UpdateProgress struct {
	DailyStreak       *int       `json:"daily_streak" validate:"omitempty,gte=0"`
	QuestionsAnswered *int       `json:"questions_answered" validate:"omitempty,gte=0"`
	CorrectAnswers    *int       `json:"correct_answers" validate:"omitempty,gte=0"`
	LastActiveDate    *time.Time `json:"last_active_date"`
	StudyDays         []string   `json:"study_days"`
}

func (up *UpdateProgress) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

type ResetStudentPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetStudentPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
