package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Course is owned by exactly one Teacher, by reference; deleting the teacher
// does not cascade here.
type Course struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"course_code"`
	TeacherID string    `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record is the enrollment bridge linking one Student to one Course.
// It carries no attributes beyond the two references.
type Record struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	StudentID string    `json:"student_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name      string `json:"name" validate:"required,notblank"`
	Code      string `json:"course_code" validate:"required,notblank"`
	TeacherID string `json:"teacher_id" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.TeacherID = core.CleanString(nc.TeacherID)
	return validate.Struct(nc)
}

// RenameCourse defines the only mutable Course field.
type RenameCourse struct {
	Name string `json:"name" validate:"required,notblank"`
}

func (rc *RenameCourse) Validate(validate *validator.Validate) error {
	rc.Name = core.CleanString(rc.Name)
	return validate.Struct(rc)
}

// NewRecord contains the pair to enroll.
type NewRecord struct {
	CourseID  string `json:"course_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.CourseID = core.CleanString(nr.CourseID)
	nr.StudentID = core.CleanString(nr.StudentID)
	return validate.Struct(nr)
}
