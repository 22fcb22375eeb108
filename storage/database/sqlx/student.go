package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/student"
)

type studentRepo struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepo)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepo{db: db}
}

type studentRow struct {
	ID           int       `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	Plan         string    `db:"plan"`
	Progress     int       `db:"progress"`
	JoinDate     time.Time `db:"join_date"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (row studentRow) toStudent() student.Student {
	return student.Student(row)
}

type progressRow struct {
	StudentID         int       `db:"student_id"`
	DailyStreak       int       `db:"daily_streak"`
	QuestionsAnswered int       `db:"questions_answered"`
	CorrectAnswers    int       `db:"correct_answers"`
	Accuracy          int       `db:"accuracy"`
	LastActiveDate    time.Time `db:"last_active_date"`
	StudyDays         []byte    `db:"study_days"`
}

func (row progressRow) toProgress() (student.Progress, error) {
	p := student.Progress{
		StudentID:         row.StudentID,
		DailyStreak:       row.DailyStreak,
		QuestionsAnswered: row.QuestionsAnswered,
		CorrectAnswers:    row.CorrectAnswers,
		Accuracy:          row.Accuracy,
		LastActiveDate:    row.LastActiveDate,
	}
	col := jsonColumn{v: &p.StudyDays}
	if err := col.Scan(row.StudyDays); err != nil {
		return student.Progress{}, errors.Wrap(err, "decoding study days")
	}
	return p, nil
}

func (repo *studentRepo) CheckEmailUniqueness(email string, exclStudents ...student.Student) error {
	excluded := make([]int, 0, len(exclStudents))
	for _, std := range exclStudents {
		excluded = append(excluded, std.ID)
	}

	query := "SELECT count(*) FROM students WHERE email = ?"
	args := []interface{}{email}
	if len(excluded) > 0 {
		var err error
		query, args, err = sqlx.In(query+" AND id NOT IN (?)", email, excluded)
		if err != nil {
			return errors.Wrap(err, "checking email")
		}
	}

	var count int
	if err := repo.db.Get(&count, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking email")
	}
	if count > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepo) CreateStudent(s student.Student) (student.Student, error) {
	query := `
	INSERT INTO students (id, name, email, password_hash, plan, progress, join_date, status, created_at, updated_at)
	VALUES ((SELECT coalesce(max(id), 0) + 1 FROM students), $1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id`
	err := repo.db.QueryRow(
		query, s.Name, s.Email, s.PasswordHash, s.Plan, s.Progress,
		s.JoinDate, s.Status, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return s, nil
}

func (repo *studentRepo) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Select(&rows, "SELECT * FROM students ORDER BY id"); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *studentRepo) GetStudentByID(id int) (student.Student, error) {
	return repo.getStudent("SELECT * FROM students WHERE id = $1", id)
}

func (repo *studentRepo) GetStudentByEmail(email string) (student.Student, error) {
	return repo.getStudent("SELECT * FROM students WHERE email = $1", email)
}

func (repo *studentRepo) getStudent(query string, arg interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.db.Get(&row, query, arg); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent(), nil
}

// UpdateStudent merges set fields into the stored record. Zero-valued fields
// are left untouched; progress is applied when non-nil.
func (repo *studentRepo) UpdateStudent(s student.Student, progress *int) (student.Student, error) {
	existing, err := repo.GetStudentByID(s.ID)
	if err != nil {
		return student.Student{}, err
	}
	if s.Name != "" {
		existing.Name = s.Name
	}
	if s.Email != "" {
		existing.Email = s.Email
	}
	if s.Plan != "" {
		existing.Plan = s.Plan
	}
	if s.Status != "" {
		existing.Status = s.Status
	}
	if len(s.PasswordHash) > 0 {
		existing.PasswordHash = s.PasswordHash
	}
	if progress != nil {
		existing.Progress = *progress
	}
	existing.UpdatedAt = s.UpdatedAt

	query := `
	UPDATE students
	SET name = $2, email = $3, password_hash = $4, plan = $5, progress = $6, status = $7, updated_at = $8
	WHERE id = $1`
	_, err = repo.db.Exec(
		query, existing.ID, existing.Name, existing.Email, existing.PasswordHash,
		existing.Plan, existing.Progress, existing.Status, existing.UpdatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return existing, nil
}

func (repo *studentRepo) DeleteStudentsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM students WHERE id IN (?)", ids)
	if err != nil {
		return errors.Wrap(err, "deleting students")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return nil
}

func (repo *studentRepo) GetProgress(studentID int) (student.Progress, error) {
	var row progressRow
	if err := repo.db.Get(&row, "SELECT * FROM student_progress WHERE student_id = $1", studentID); err != nil {
		if err == sql.ErrNoRows {
			return student.Progress{}, student.ErrProgressNotFound
		}
		return student.Progress{}, errors.Wrap(err, "getting progress")
	}
	return row.toProgress()
}

func (repo *studentRepo) SaveProgress(p student.Progress) (student.Progress, error) {
	query := `
	INSERT INTO student_progress (student_id, daily_streak, questions_answered, correct_answers, accuracy, last_active_date, study_days)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (student_id) DO UPDATE
	SET daily_streak = excluded.daily_streak,
	    questions_answered = excluded.questions_answered,
	    correct_answers = excluded.correct_answers,
	    accuracy = excluded.accuracy,
	    last_active_date = excluded.last_active_date,
	    study_days = excluded.study_days`
	_, err := repo.db.Exec(
		query, p.StudentID, p.DailyStreak, p.QuestionsAnswered, p.CorrectAnswers,
		p.Accuracy, p.LastActiveDate, jsonColumn{v: p.StudyDays},
	)
	if err != nil {
		return student.Progress{}, errors.Wrap(err, "saving progress")
	}
	return p, nil
}

// Reload is a no-op; nothing is cached.
func (repo *studentRepo) Reload() error { return nil }
