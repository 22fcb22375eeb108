// Package auth validates claimed identities against the student directory or
// the built-in administrator credential.
package auth

import (
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/student"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

var (
	// The three terminal failures. Distinct on purpose, for precise user
	// messaging; the UX/security trade-off is accepted.
	ErrStudentNotFound = errors.New("student not found")
	ErrAccountInactive = errors.New("account inactive")
	ErrInvalidPassword = errors.New("invalid password")
)

// Result is a successful authentication. Student is nil for the admin role.
type Result struct {
	Role    string           `json:"role"`
	Student *student.Student `json:"student,omitempty"`
}

type Authenticator struct {
	students   student.Service
	adminEmail string
	adminHash  []byte
}

// NewAuthenticator hashes the configured admin credential up front so every
// comparison, admin or student, goes through bcrypt.
func NewAuthenticator(conf *core.Config, students student.Service) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(conf.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing admin credential")
	}
	return &Authenticator{
		students:   students,
		adminEmail: core.CleanString(conf.Admin.Email, true /* lower */),
		adminHash:  hash,
	}, nil
}

// Authenticate checks a claimed identity and returns a role-tagged Result.
//
// The admin credential is checked first; it is not held in the student
// directory and is never returned by directory queries. For students, an
// Inactive status fails before any password comparison so a deactivated
// account never learns whether its password was right.
func (a *Authenticator) Authenticate(email, password string) (Result, error) {
	email = core.CleanString(email, true /* lower */)

	if email == a.adminEmail {
		if bcrypt.CompareHashAndPassword(a.adminHash, []byte(password)) == nil {
			return Result{Role: RoleAdmin}, nil
		}
	}

	std, err := a.students.GetByEmail(email)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return Result{}, ErrStudentNotFound
		}
		return Result{}, errors.Wrap(err, "finding student by email")
	}

	if !std.IsActive() {
		return Result{}, ErrAccountInactive
	}
	if err = std.CheckPassword(password); err != nil {
		return Result{}, ErrInvalidPassword
	}
	return Result{Role: RoleStudent, Student: &std}, nil
}
