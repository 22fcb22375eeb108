package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/student"
)

// fakeDirectory stubs student.Service; only GetByEmail matters here.
type fakeDirectory struct {
	student.Service
	students map[string]student.Student
}

func (d *fakeDirectory) GetByEmail(email string) (student.Student, error) {
	if std, ok := d.students[email]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func setup(t *testing.T) *Authenticator {
	t.Helper()

	active := student.Student{ID: 1, Name: "Awa", Email: "awa@test.cd", Status: student.StatusActive}
	require.NoError(t, active.SetPassword("s3cr3t-pwd"))

	inactive := student.Student{ID: 2, Name: "Ben", Email: "ben@test.cd", Status: student.StatusInactive}
	require.NoError(t, inactive.SetPassword("s3cr3t-pwd"))

	dir := &fakeDirectory{students: map[string]student.Student{
		active.Email:   active,
		inactive.Email: inactive,
	}}

	a, err := NewAuthenticator(core.NewTestConfig(), dir)
	require.NoError(t, err)
	return a
}

func TestAuthenticator_Authenticate(t *testing.T) {
	a := setup(t)

	t.Run("admin", func(t *testing.T) {
		res, err := a.Authenticate("admin@doctorprep.com", "admin123")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, res.Role)
		assert.Nil(t, res.Student)
	})

	t.Run("admin email is normalized", func(t *testing.T) {
		res, err := a.Authenticate("  ADMIN@DoctorPrep.com ", "admin123")
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, res.Role)
	})

	t.Run("admin with wrong password is not a student", func(t *testing.T) {
		_, err := a.Authenticate("admin@doctorprep.com", "wrong")
		assert.Equal(t, ErrStudentNotFound, err)
	})

	t.Run("active student", func(t *testing.T) {
		res, err := a.Authenticate("Awa@Test.cd", "s3cr3t-pwd")
		require.NoError(t, err)
		assert.Equal(t, RoleStudent, res.Role)
		require.NotNil(t, res.Student)
		assert.Equal(t, 1, res.Student.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate("awa@test.cd", "wrong")
		assert.Equal(t, ErrInvalidPassword, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate("nobody@test.cd", "s3cr3t-pwd")
		assert.Equal(t, ErrStudentNotFound, err)
	})

	t.Run("inactive account fails before password check", func(t *testing.T) {
		_, err := a.Authenticate("ben@test.cd", "s3cr3t-pwd")
		assert.Equal(t, ErrAccountInactive, err)

		_, err = a.Authenticate("ben@test.cd", "wrong")
		assert.Equal(t, ErrAccountInactive, err)
	})
}
