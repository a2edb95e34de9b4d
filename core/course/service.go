package course

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

var (
	// errors
	ErrNotFound   = errors.New("course not found")
	ErrCodeExists = errors.New("Code already exists")
)

type (
	Repository interface {
		CheckCodeUniqueness(ctx context.Context, code string) error
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		GetCourseByCode(ctx context.Context, code string) (Course, error)
		QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		// UpdateCourse writes the whole row back; last writer wins.
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCourse(ctx context.Context, id string) (Course, error)

		CreateRecord(ctx context.Context, rec Record) (Record, error)
		QueryRecordsByCourse(ctx context.Context, courseID string) ([]Record, error)
		QueryRecordsByStudent(ctx context.Context, studentID string) ([]Record, error)
		CountRecordsByCourse(ctx context.Context, courseID string) (int, error)
		// DeleteRecord removes a single Record matching the pair.
		DeleteRecord(ctx context.Context, courseID, studentID string) (Record, error)
	}

	// StudentResolver resolves enrolled identities for roster joins.
	// It must report an absent student with identity.ErrNotFound.
	StudentResolver interface {
		GetStudentByID(ctx context.Context, id string) (identity.Student, error)
	}

	Service interface {
		Create(ctx context.Context, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		QueryByTeacher(ctx context.Context, teacherID string) ([]Course, error)
		QueryByStudent(ctx context.Context, studentID string) ([]Course, error)
		LookupByCode(ctx context.Context, code string) (Course, bool, error)
		Rename(ctx context.Context, id string, rc RenameCourse) (Course, error)
		Delete(ctx context.Context, id string) (Course, bool, error)

		Enroll(ctx context.Context, nr NewRecord) (Record, error)
		CountEnrolled(ctx context.Context, courseID string) (int, error)
		QueryStudents(ctx context.Context, courseID string) ([]identity.Student, error)
		FindStudentsByName(ctx context.Context, courseID, firstName, lastName string) ([]identity.Student, error)
		Unenroll(ctx context.Context, courseID, studentID string) (Record, bool, error)
	}

	service struct {
		repo     Repository
		students StudentResolver
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, students StudentResolver) Service {
	return &service{
		repo:     repo,
		students: students,
	}
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if err := svc.repo.CheckCodeUniqueness(ctx, nc.Code); err != nil {
		if errors.Cause(err) == ErrCodeExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "course_code", Error: ErrCodeExists.Error()})
		}
		return Course{}, err
	}
	now := time.Now().UTC()
	crs := Course{
		Name:      nc.Name,
		Code:      nc.Code,
		TeacherID: nc.TeacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) QueryByTeacher(ctx context.Context, teacherID string) ([]Course, error) {
	return svc.repo.QueryCoursesByTeacher(ctx, teacherID)
}

// QueryByStudent joins Records back to their Courses one lookup at a time;
// any failed Course lookup aborts the whole query.
func (svc *service) QueryByStudent(ctx context.Context, studentID string) ([]Course, error) {
	recs, err := svc.repo.QueryRecordsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	courses := make([]Course, 0, len(recs))
	for _, rec := range recs {
		crs, err := svc.repo.GetCourseByID(ctx, rec.CourseID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving course %s", rec.CourseID)
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

// LookupByCode is the "join by code" lookup; a wrong code is expected user
// input, so an absent course is reported via `found`, not as an error.
func (svc *service) LookupByCode(ctx context.Context, code string) (Course, bool, error) {
	crs, err := svc.repo.GetCourseByCode(ctx, core.CleanString(code))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Course{}, false, nil
		}
		return Course{}, false, err
	}
	return crs, true, nil
}

func (svc *service) Rename(ctx context.Context, id string, rc RenameCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	crs.Name = rc.Name
	crs.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, crs)
}

// Delete hard-deletes the course. Assignments, Submissions and Records under
// it are left in place; reads against them fail as not-found later.
func (svc *service) Delete(ctx context.Context, id string) (Course, bool, error) {
	crs, err := svc.repo.DeleteCourse(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Course{}, false, nil
		}
		return Course{}, false, err
	}
	return crs, true, nil
}

// Enroll inserts the Record as-is. Pair uniqueness is declared but not
// enforced here nor by the store; callers are expected to check membership
// first.
func (svc *service) Enroll(ctx context.Context, nr NewRecord) (Record, error) {
	rec := Record{
		CourseID:  nr.CourseID,
		StudentID: nr.StudentID,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRecord(ctx, rec)
}

func (svc *service) CountEnrolled(ctx context.Context, courseID string) (int, error) {
	return svc.repo.CountRecordsByCourse(ctx, courseID)
}

// QueryStudents joins Records to Students one lookup at a time; any failed
// Student lookup aborts the whole roster.
func (svc *service) QueryStudents(ctx context.Context, courseID string) ([]identity.Student, error) {
	recs, err := svc.repo.QueryRecordsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students := make([]identity.Student, 0, len(recs))
	for _, rec := range recs {
		std, err := svc.students.GetStudentByID(ctx, rec.StudentID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving student %s", rec.StudentID)
		}
		students = append(students, std)
	}
	return students, nil
}

// FindStudentsByName does a case-insensitive exact match on both name fields,
// filtering in the join stage over every enrolled student.
func (svc *service) FindStudentsByName(ctx context.Context, courseID, firstName, lastName string) ([]identity.Student, error) {
	recs, err := svc.repo.QueryRecordsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students := make([]identity.Student, 0, len(recs))
	for _, rec := range recs {
		std, err := svc.students.GetStudentByID(ctx, rec.StudentID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving student %s", rec.StudentID)
		}
		if strings.EqualFold(std.FirstName, firstName) && strings.EqualFold(std.LastName, lastName) {
			students = append(students, std)
		}
	}
	return students, nil
}

// Unenroll deletes the single Record matching the pair; if the pair was
// duplicated, only one instance is removed per call.
func (svc *service) Unenroll(ctx context.Context, courseID, studentID string) (Record, bool, error) {
	rec, err := svc.repo.DeleteRecord(ctx, courseID, studentID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return rec, true, nil
}
