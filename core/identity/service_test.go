package identity_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
	"github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/storage/database/dummy"
	"github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (identity.Service, identity.Repository, *core.Config) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	repo := dummydb.NewIdentityRepository(db)
	conf := &core.Config{
		TestMode:        true,
		AppName:         "Darasa",
		FrontendBaseURL: "http://localhost:3000",
	}
	return identity.NewService(repo, emailsvc.NewConsoleService(conf), conf), repo, conf
}

func TestService_RegisterStudent(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	emailsvc.SentMessages = nil

	ns := identity.NewStudent{
		FirstName:       "John",
		LastName:        "Smith",
		Email:           "john@test.cd",
		Password:        "S3cret!pwd",
		PasswordConfirm: "S3cret!pwd",
	}
	std, err := svc.RegisterStudent(ctx, ns)
	if err != nil {
		t.Fatalf("RegisterStudent(): %v", err)
	}
	if std.ID == "" {
		t.Error("RegisterStudent() did not assign an ID")
	}
	if err := std.CheckPassword("S3cret!pwd"); err != nil {
		t.Error("RegisterStudent() did not hash the password")
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Errorf("RegisterStudent() sent %d mails, want 1", len(emailsvc.SentMessages))
	}

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, err := svc.RegisterStudent(ctx, ns)
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			t.Fatalf("RegisterStudent() error = %v, want *core.ValidationError", err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" || vErr.Fields[0].Error != identity.ErrEmailExists.Error() {
			t.Errorf("RegisterStudent() fields = %+v", vErr.Fields)
		}
	})

	t.Run("teacher email space is separate", func(t *testing.T) {
		// the same address can exist on both sides of the portal
		_, err := svc.RegisterTeacher(ctx, identity.NewTeacher{
			FirstName:       "John",
			LastName:        "Smith",
			Email:           "john@test.cd",
			Password:        "S3cret!pwd",
			PasswordConfirm: "S3cret!pwd",
		})
		if err != nil {
			t.Fatalf("RegisterTeacher(): %v", err)
		}
	})
}

func TestService_GetStudentByEmail(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	std := testutil.CreateStudent(t, repo, "John", "Smith", "john@test.cd", "S3cret!pwd")

	tests := []struct {
		name    string
		email   string
		wantErr error
	}{
		{name: "exact email", email: "john@test.cd"},
		{name: "email is case-folded", email: " John@Test.CD "},
		{name: "unknown email", email: "nope@test.cd", wantErr: identity.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetStudentByEmail(ctx, tt.email)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("GetStudentByEmail() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && got.ID != std.ID {
				t.Errorf("GetStudentByEmail() = %v, want %v", got.ID, std.ID)
			}
		})
	}
}

func TestService_UpdateStudentNames(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	std := testutil.CreateStudent(t, repo, "John", "Smith", "john@test.cd", "")

	got, err := svc.UpdateStudentNames(ctx, identity.UpdateStudent{
		Email:     "john@test.cd",
		FirstName: "Johnny",
		LastName:  "Smithers",
	})
	if err != nil {
		t.Fatalf("UpdateStudentNames(): %v", err)
	}
	if got.ID != std.ID || got.FirstName != "Johnny" || got.LastName != "Smithers" {
		t.Errorf("UpdateStudentNames() = %+v", got)
	}
	if got.Email != "john@test.cd" {
		t.Errorf("UpdateStudentNames() changed email to %v", got.Email)
	}

	if _, err := svc.UpdateStudentNames(ctx, identity.UpdateStudent{Email: "nope@test.cd", FirstName: "x", LastName: "y"}); errors.Cause(err) != identity.ErrNotFound {
		t.Errorf("UpdateStudentNames() error = %v, want %v", err, identity.ErrNotFound)
	}
}

func TestService_QueryAllStudents(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	students, err := svc.QueryAllStudents(ctx)
	if err != nil {
		t.Fatalf("QueryAllStudents(): %v", err)
	}
	if len(students) != 0 {
		t.Errorf("QueryAllStudents() = %v, want empty", students)
	}

	testutil.CreateStudent(t, repo, "John", "Smith", "john@test.cd", "")
	testutil.CreateStudent(t, repo, "Jane", "Smith", "jane@test.cd", "")
	testutil.CreateTeacher(t, repo, "Prof", "X", "profx@test.cd", "")

	students, err = svc.QueryAllStudents(ctx)
	if err != nil {
		t.Fatalf("QueryAllStudents(): %v", err)
	}
	if len(students) != 2 {
		t.Errorf("QueryAllStudents() len = %d, want 2", len(students))
	}
}
