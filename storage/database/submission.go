package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/submission"
)

type submissionRepository struct {
	db core.DBExecutor
}

var _ submission.Repository = (*submissionRepository)(nil) // interface compliance check

func NewSubmissionRepository(db core.DBExecutor) *submissionRepository {
	return &submissionRepository{db: db}
}

type submissionRow struct {
	ID            string      `db:"id"`
	AssignmentID  string      `db:"assignment_id"`
	StudentID     string      `db:"student_id"`
	File          null.Bytes  `db:"file"`
	FileName      null.String `db:"file_name"`
	MarksObtained null.Int    `db:"marks_obtained"`
	CreatedAt     time.Time   `db:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at"`
}

func toSubmissionRow(sub submission.Submission) submissionRow {
	return submissionRow{
		ID:            sub.ID,
		AssignmentID:  sub.AssignmentID,
		StudentID:     sub.StudentID,
		File:          null.NewBytes(sub.File, len(sub.File) > 0),
		FileName:      null.NewString(sub.FileName, sub.FileName != ""),
		MarksObtained: sub.MarksObtained,
		CreatedAt:     sub.CreatedAt.UTC(),
		UpdatedAt:     sub.UpdatedAt.UTC(),
	}
}

func (r submissionRow) submission() submission.Submission {
	return submission.Submission{
		ID:            r.ID,
		AssignmentID:  r.AssignmentID,
		StudentID:     r.StudentID,
		File:          r.File.Bytes,
		FileName:      r.FileName.String,
		MarksObtained: r.MarksObtained,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (repo submissionRepository) CreateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	sub.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "submission" (id, assignment_id, student_id, file, file_name, marks_obtained, created_at, updated_at)
		VALUES (:id, :assignment_id, :student_id, :file, :file_name, :marks_obtained, :created_at, :updated_at)`,
		toSubmissionRow(sub))
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo submissionRepository) GetSubmissionByID(ctx context.Context, id string) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "submission" WHERE id = $1`, id); err != nil {
		return submission.Submission{}, trapNoRowsErr(err, submission.ErrNotFound, "getting submission")
	}
	return row.submission(), nil
}

// GetSubmissionByPair returns the oldest Submission matching the pair; the
// pair is intended to be unique but the table does not enforce it.
func (repo submissionRepository) GetSubmissionByPair(ctx context.Context, assignmentID, studentID string) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.GetContext(ctx, &row, `
		SELECT * FROM "submission"
		WHERE assignment_id = $1 AND student_id = $2
		ORDER BY created_at LIMIT 1`, assignmentID, studentID); err != nil {
		return submission.Submission{}, trapNoRowsErr(err, submission.ErrNotFound, "getting submission by pair")
	}
	return row.submission(), nil
}

func (repo submissionRepository) QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM "submission" WHERE assignment_id = $1`, assignmentID); err != nil {
		return nil, errors.Wrap(err, "querying submissions by assignment")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.submission())
	}
	return subs, nil
}

func (repo submissionRepository) UpdateSubmission(ctx context.Context, sub submission.Submission) (submission.Submission, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "submission"
		SET file = :file, file_name = :file_name, marks_obtained = :marks_obtained, updated_at = :updated_at
		WHERE id = :id`, toSubmissionRow(sub))
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}
