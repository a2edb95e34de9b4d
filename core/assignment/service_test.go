package assignment_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/storage/database/dummy"
	"github.com/trezcool/darasa/tests"
)

func setup(t *testing.T) (assignment.Service, course.Service, *dummydb.DB) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	crsSvc := course.NewService(dummydb.NewCourseRepository(db), dummydb.NewIdentityRepository(db))
	asgSvc := assignment.NewService(dummydb.NewAssignmentRepository(db), crsSvc)
	return asgSvc, crsSvc, db
}

func TestService_AttachFile(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	asgRepo := dummydb.NewAssignmentRepository(db)
	asg := testutil.CreateAssignment(t, asgRepo, "crs1", "Homework 1")

	tests := []struct {
		name     string
		filename string
		size     int
		wantErr  bool
	}{
		{name: "pdf under the cap", filename: "essay.pdf", size: 9999999},
		{name: "exactly at the cap", filename: "essay.pdf", size: 10000000},
		{name: "one byte over the cap", filename: "essay.pdf", size: 10000001, wantErr: true},
		{name: "docx", filename: "notes.docx", size: 10},
		{name: "extension is case-insensitive", filename: "photo.JPG", size: 10},
		{name: "executable is rejected", filename: "virus.exe", size: 10, wantErr: true},
		{name: "no extension is rejected", filename: "README", size: 10, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att := core.Attachment{Filename: tt.filename, Content: bytes.Repeat([]byte("a"), tt.size)}
			err := svc.AttachFile(ctx, asg.ID, att)
			if tt.wantErr {
				if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
					t.Errorf("AttachFile() error = %v, want *core.ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AttachFile(): %v", err)
			}
			file, err := svc.GetFile(ctx, asg.ID)
			if err != nil {
				t.Fatalf("GetFile(): %v", err)
			}
			if len(file) != tt.size {
				t.Errorf("GetFile() len = %d, want %d", len(file), tt.size)
			}
		})
	}

	t.Run("rejected upload does not touch the stored blob", func(t *testing.T) {
		fresh := testutil.CreateAssignment(t, asgRepo, "crs1", "Homework 2")
		att := core.Attachment{Filename: "virus.exe", Content: []byte("boom")}
		if err := svc.AttachFile(ctx, fresh.ID, att); err == nil {
			t.Fatal("AttachFile() accepted a rejected upload")
		}
		if _, err := svc.GetFile(ctx, fresh.ID); errors.Cause(err) != assignment.ErrNotFound {
			t.Errorf("GetFile() error = %v, want %v", err, assignment.ErrNotFound)
		}
	})

	t.Run("missing assignment", func(t *testing.T) {
		att := core.Attachment{Filename: "essay.pdf", Content: []byte("ok")}
		if err := svc.AttachFile(ctx, "unknown", att); errors.Cause(err) != assignment.ErrNotFound {
			t.Errorf("AttachFile() error = %v, want %v", err, assignment.ErrNotFound)
		}
	})
}

func TestService_HasAttachment(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	asgRepo := dummydb.NewAssignmentRepository(db)
	asg := testutil.CreateAssignment(t, asgRepo, "crs1", "Homework 1")

	has, err := svc.HasAttachment(ctx, asg.ID)
	if err != nil {
		t.Fatalf("HasAttachment(): %v", err)
	}
	if has {
		t.Error("HasAttachment() = true before any upload")
	}

	if err := svc.AttachFile(ctx, asg.ID, core.Attachment{Filename: "essay.pdf", Content: []byte("ok")}); err != nil {
		t.Fatalf("AttachFile(): %v", err)
	}
	has, err = svc.HasAttachment(ctx, asg.ID)
	if err != nil {
		t.Fatalf("HasAttachment(): %v", err)
	}
	if !has {
		t.Error("HasAttachment() = false after upload")
	}

	// a missing assignment is a soft false, not an error
	has, err = svc.HasAttachment(ctx, "unknown")
	if err != nil {
		t.Fatalf("HasAttachment(): %v", err)
	}
	if has {
		t.Error("HasAttachment() = true for missing assignment")
	}
}

func TestService_Delete(t *testing.T) {
	svc, _, db := setup(t)
	ctx := context.Background()

	asgRepo := dummydb.NewAssignmentRepository(db)
	asg := testutil.CreateAssignment(t, asgRepo, "crs1", "Homework 1")

	deleted, found, err := svc.Delete(ctx, asg.ID)
	if err != nil || !found {
		t.Fatalf("Delete() found = %v, err = %v", found, err)
	}
	if deleted.ID != asg.ID {
		t.Errorf("Delete() = %v, want %v", deleted.ID, asg.ID)
	}

	if _, found, err := svc.Delete(ctx, asg.ID); err != nil || found {
		t.Errorf("Delete() twice found = %v, err = %v; want soft false", found, err)
	}
}

func TestService_QueryByCourse_orphans(t *testing.T) {
	asgSvc, crsSvc, db := setup(t)
	ctx := context.Background()

	idtRepo := dummydb.NewIdentityRepository(db)
	crsRepo := dummydb.NewCourseRepository(db)
	asgRepo := dummydb.NewAssignmentRepository(db)

	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane@test.cd", "")
	crs := testutil.CreateCourse(t, crsRepo, "Algorithms", "CS101", tch.ID)
	asg := testutil.CreateAssignment(t, asgRepo, crs.ID, "Homework 1")

	if _, found, err := crsSvc.Delete(ctx, crs.ID); err != nil || !found {
		t.Fatalf("course Delete() found = %v, err = %v", found, err)
	}

	// the assignment is orphaned, not deleted
	assignments, err := asgSvc.QueryByCourse(ctx, crs.ID)
	if err != nil {
		t.Fatalf("QueryByCourse(): %v", err)
	}
	if len(assignments) != 1 || assignments[0].ID != asg.ID {
		t.Errorf("QueryByCourse() = %+v, want the orphaned assignment", assignments)
	}
}

func TestService_CountEnrolled(t *testing.T) {
	asgSvc, _, db := setup(t)
	ctx := context.Background()

	idtRepo := dummydb.NewIdentityRepository(db)
	crsRepo := dummydb.NewCourseRepository(db)
	asgRepo := dummydb.NewAssignmentRepository(db)

	tch := testutil.CreateTeacher(t, idtRepo, "Jane", "Doe", "jane@test.cd", "")
	std := testutil.CreateStudent(t, idtRepo, "John", "Smith", "john@test.cd", "")
	crs := testutil.CreateCourse(t, crsRepo, "Algorithms", "CS101", tch.ID)
	asg := testutil.CreateAssignment(t, asgRepo, crs.ID, "Homework 1")
	testutil.EnrollStudent(t, crsRepo, crs.ID, std.ID)

	count, err := asgSvc.CountEnrolled(ctx, asg.ID)
	if err != nil {
		t.Fatalf("CountEnrolled(): %v", err)
	}
	if count != 1 {
		t.Errorf("CountEnrolled() = %d, want 1", count)
	}

	if _, err := asgSvc.CountEnrolled(ctx, "unknown"); errors.Cause(err) != assignment.ErrNotFound {
		t.Errorf("CountEnrolled() error = %v, want %v", err, assignment.ErrNotFound)
	}
}
