package identity

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound    = errors.New("student or teacher not found")
	ErrEmailExists = errors.New("Email already exists")
)

type (
	Repository interface {
		CheckStudentEmailUniqueness(ctx context.Context, email string) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		// UpdateStudent writes the whole row back; last writer wins.
		UpdateStudent(ctx context.Context, std Student) (Student, error)

		CheckTeacherEmailUniqueness(ctx context.Context, email string) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
	}

	Service interface {
		RegisterStudent(ctx context.Context, ns NewStudent) (Student, error)
		RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error)
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
		UpdateStudentNames(ctx context.Context, us UpdateStudent) (Student, error)
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

func (svc *service) checkStudentEmail(ctx context.Context, email string) error {
	if err := svc.repo.CheckStudentEmailUniqueness(ctx, email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) checkTeacherEmail(ctx context.Context, email string) error {
	if err := svc.repo.CheckTeacherEmailUniqueness(ctx, email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) RegisterStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if err := svc.checkStudentEmail(ctx, ns.Email); err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	std := Student{
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "setting password")
	}
	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, err
	}
	svc.sendWelcomeMail(std.FirstName, std.Email)
	return std, nil
}

func (svc *service) RegisterTeacher(ctx context.Context, nt NewTeacher) (Teacher, error) {
	if err := svc.checkTeacherEmail(ctx, nt.Email); err != nil {
		return Teacher{}, err
	}
	now := time.Now().UTC()
	tch := Teacher{
		FirstName: nt.FirstName,
		LastName:  nt.LastName,
		Email:     nt.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tch.SetPassword(nt.Password); err != nil {
		return Teacher{}, errors.Wrap(err, "setting password")
	}
	tch, err := svc.repo.CreateTeacher(ctx, tch)
	if err != nil {
		return Teacher{}, err
	}
	svc.sendWelcomeMail(tch.FirstName, tch.Email)
	return tch, nil
}

func (svc *service) QueryAllStudents(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}

func (svc *service) GetStudentByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetStudentByEmail(ctx context.Context, email string) (Student, error) {
	return svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) GetTeacherByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *service) GetTeacherByEmail(ctx context.Context, email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}

// UpdateStudentNames applies the partial name update keyed by email,
// fetch-mutate-save; concurrent updates are last-writer-wins.
func (svc *service) UpdateStudentNames(ctx context.Context, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudentByEmail(ctx, us.Email)
	if err != nil {
		return Student{}, err
	}
	std.FirstName = us.FirstName
	std.LastName = us.LastName
	std.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *service) sendWelcomeMail(name, email string) {
	if svc.mailSvc == nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: name, Address: email}},
		Subject: "Welcome to " + svc.conf.AppName,
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account is ready. Head over to %s to get started.\n",
			name, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
}
