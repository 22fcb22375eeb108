package main

import (
	"time"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/student"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	std, err := cli.stdRepo.GetStudentByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}

	upd := student.Student{ID: std.ID, UpdatedAt: time.Now().UTC()}
	if err = upd.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.stdRepo.UpdateStudent(upd, nil)
	return err
}
