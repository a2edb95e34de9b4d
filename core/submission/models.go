package submission

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
)

// Submission is scoped to one (Assignment, Student) pair. An unset
// MarksObtained means "submitted, not graded yet"; read surfaces report it
// as 0.
type Submission struct {
	ID            string    `json:"id"`
	AssignmentID  string    `json:"assignment_id"`
	StudentID     string    `json:"student_id"`
	File          []byte    `json:"-"`
	FileName      string    `json:"file_name,omitempty"`
	MarksObtained null.Int  `json:"marks_obtained"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (s Submission) HasFile() bool {
	return len(s.File) > 0
}

// Marks reports the grade, defaulting to 0 when not graded yet.
func (s Submission) Marks() int {
	if !s.MarksObtained.Valid {
		return 0
	}
	return s.MarksObtained.Int
}

// NewSubmission contains the pair a submission is created for.
type NewSubmission struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	StudentID    string `json:"student_id" validate:"required"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentID = core.CleanString(ns.AssignmentID)
	ns.StudentID = core.CleanString(ns.StudentID)
	return validate.Struct(ns)
}

// GradebookRow is one line of the per-assignment grading view.
type GradebookRow struct {
	StudentID     string `json:"student_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	MarksObtained int    `json:"marks_obtained"`
}
