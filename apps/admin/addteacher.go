package main

import (
	"context"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

// addTeacher creates a new identity.Teacher account.
func (cli *commandLine) addTeacher(fname, lname, email, pwd string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	if err := cli.idtRepo.CheckTeacherEmailUniqueness(ctx, email); err != nil {
		return err
	}

	tch := identity.Teacher{
		FirstName: core.CleanString(fname),
		LastName:  core.CleanString(lname),
		Email:     email,
	}
	if err := tch.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.idtRepo.CreateTeacher(ctx, tch); err != nil {
		return err
	}
	return nil
}
