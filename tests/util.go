package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/identity"
	"github.com/trezcool/darasa/core/submission"
)

func CreateStudent(t *testing.T, repo identity.Repository, fname, lname, email, pwd string) identity.Student {
	t.Helper()

	tstamp := time.Now().UTC()
	std := identity.Student{
		FirstName: fname,
		LastName:  lname,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent(): %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent(): %v", err)
	}
	return std
}

func CreateTeacher(t *testing.T, repo identity.Repository, fname, lname, email, pwd string) identity.Teacher {
	t.Helper()

	tstamp := time.Now().UTC()
	tch := identity.Teacher{
		FirstName: fname,
		LastName:  lname,
		Email:     email,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := tch.SetPassword(pwd); err != nil {
			t.Fatalf("CreateTeacher(): %v", err)
		}
	}
	tch, err := repo.CreateTeacher(context.Background(), tch)
	if err != nil {
		t.Fatalf("CreateTeacher(): %v", err)
	}
	return tch
}

func CreateCourse(t *testing.T, repo course.Repository, name, code, teacherID string) course.Course {
	t.Helper()

	tstamp := time.Now().UTC()
	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Name:      name,
		Code:      code,
		TeacherID: teacherID,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateCourse(): %v", err)
	}
	return crs
}

func EnrollStudent(t *testing.T, repo course.Repository, courseID, studentID string) course.Record {
	t.Helper()

	rec, err := repo.CreateRecord(context.Background(), course.Record{
		CourseID:  courseID,
		StudentID: studentID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("EnrollStudent(): %v", err)
	}
	return rec
}

func CreateAssignment(t *testing.T, repo assignment.Repository, courseID, title string) assignment.Assignment {
	t.Helper()

	tstamp := time.Now().UTC()
	asg, err := repo.CreateAssignment(context.Background(), assignment.Assignment{
		CourseID:  courseID,
		Title:     title,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateAssignment(): %v", err)
	}
	return asg
}

func CreateSubmission(t *testing.T, repo submission.Repository, assignmentID, studentID string) submission.Submission {
	t.Helper()

	tstamp := time.Now().UTC()
	sub, err := repo.CreateSubmission(context.Background(), submission.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		CreatedAt:    tstamp,
		UpdatedAt:    tstamp,
	})
	if err != nil {
		t.Fatalf("CreateSubmission(): %v", err)
	}
	return sub
}
