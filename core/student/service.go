package student

import (
	"fmt"
	"math"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
)

var (
	// errors
	ErrNotFound         = errors.New("student not found")
	ErrProgressNotFound = errors.New("student progress not found")
	ErrEmailExists      = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedStudents ...Student) error
		CreateStudent(s Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		// UpdateStudent only saves set fields; progress is applied when non-nil.
		UpdateStudent(s Student, progress *int) (Student, error)
		DeleteStudentsByID(ids ...int) error

		GetProgress(studentID int) (Progress, error)
		SaveProgress(p Progress) (Progress, error)

		// Reload discards any cached state and re-reads from the backend.
		Reload() error
	}

	Service interface {
		CheckEmailUniqueness(email string, excludedStudents ...Student) error
		Create(ns NewStudent) (Student, error)
		QueryAll() ([]Student, error)
		GetByID(id int) (Student, error)
		GetByEmail(email string) (Student, error)
		Update(id int, us UpdateStudent) (Student, error)
		Delete(ids ...int) error

		GetOrCreateProgress(studentID int) (Progress, error)
		UpdateProgress(studentID int, up UpdateProgress) (Progress, error)

		RequestPasswordReset(email string) error
		ResetPassword(rp ResetStudentPassword) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckEmailUniqueness(email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclStudents...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	plan := ns.Plan
	if plan == "" {
		plan = PlanFree
	}
	std := Student{
		Name:      ns.Name,
		Email:     ns.Email,
		Plan:      plan,
		Status:    StatusActive,
		JoinDate:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}
	std, err := svc.repo.CreateStudent(std)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeMail(std)
	return std, nil
}

func (svc *service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

func (svc *service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

func (svc *service) Update(id int, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		Name:      us.Name,
		Email:     us.Email,
		Plan:      us.Plan,
		Status:    us.Status,
		UpdatedAt: time.Now().UTC(),
	}
	if us.Password != "" {
		if err := std.SetPassword(us.Password); err != nil {
			return Student{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateStudent(std, us.Progress)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteStudentsByID(ids...)
}

// GetOrCreateProgress returns the student's practice aggregates, creating and
// persisting a zeroed record on first access.
func (svc *service) GetOrCreateProgress(studentID int) (Progress, error) {
	prog, err := svc.repo.GetProgress(studentID)
	if err == nil {
		return prog, nil
	}
	if errors.Cause(err) != ErrProgressNotFound {
		return Progress{}, err
	}
	return svc.repo.SaveProgress(Progress{
		StudentID:      studentID,
		LastActiveDate: time.Now().UTC(),
		StudyDays:      []string{},
	})
}

func (svc *service) UpdateProgress(studentID int, up UpdateProgress) (Progress, error) {
	prog, err := svc.GetOrCreateProgress(studentID)
	if err != nil {
		return Progress{}, err
	}

	if up.DailyStreak != nil {
		prog.DailyStreak = *up.DailyStreak
	}
	if up.QuestionsAnswered != nil {
		prog.QuestionsAnswered = *up.QuestionsAnswered
	}
	if up.CorrectAnswers != nil {
		prog.CorrectAnswers = *up.CorrectAnswers
	}
	if up.LastActiveDate != nil {
		prog.LastActiveDate = up.LastActiveDate.UTC()
	}
	if up.StudyDays != nil {
		prog.StudyDays = up.StudyDays
	}
	prog.Accuracy = ComputeAccuracy(prog.CorrectAnswers, prog.QuestionsAnswered)

	return svc.repo.SaveProgress(prog)
}

func (svc *service) RequestPasswordReset(email string) error {
	std, err := svc.GetByEmail(email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(std)
	return nil
}

func (svc *service) ResetPassword(rp ResetStudentPassword) error {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return errInvalidToken
	}
	std, err := svc.GetByID(uid)
	if err != nil {
		return err
	}
	if err = verifyToken(svc.conf, std, rp.Token); err != nil {
		return err
	}

	upd := Student{ID: std.ID, UpdatedAt: time.Now().UTC()}
	if err = upd.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	_, err = svc.repo.UpdateStudent(upd, nil)
	return err
}

func (svc *service) sendWelcomeMail(std Student) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Welcome to " + svc.conf.AppName,
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour %s account is ready. Sign in at %s and start practicing.\r\n",
			std.Name, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}

func (svc *service) sendPasswordResetMail(std Student) {
	token, err := MakeToken(svc.conf, std)
	if err != nil {
		return
	}
	url := fmt.Sprintf("%s/password-reset?t=%s&uid=%s", svc.conf.FrontendBaseURL, token, EncodeUID(std))
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Password Reset",
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\nFollow this link to reset your password:\r\n%s\r\n",
			std.Name, url,
		),
	})
}

// ComputeAccuracy returns round(correct/total*100), with the 0/0 case defined as 0.
func ComputeAccuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
