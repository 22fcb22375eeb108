package main

import (
	"time"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/student"
)

// addStudent updates or creates an active student.Student.
func (cli *commandLine) addStudent(name, email, pwd, plan string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	std, err := cli.stdRepo.GetStudentByEmail(email)
	if err != nil {
		if err != student.ErrNotFound {
			return err
		}
		std = student.Student{
			Name:      name,
			Email:     email,
			Plan:      plan,
			Status:    student.StatusActive,
			JoinDate:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err = std.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.stdRepo.CreateStudent(std)
		return err
	}

	upd := student.Student{
		ID:        std.ID,
		Name:      name,
		Plan:      plan,
		Status:    student.StatusActive,
		UpdatedAt: now,
	}
	if err = upd.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.stdRepo.UpdateStudent(upd, nil)
	return err
}
