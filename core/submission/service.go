package submission

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

var ErrNotFound = errors.New("submission not found")

type (
	Repository interface {
		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		// GetSubmissionByPair returns the first Submission matching the pair.
		GetSubmissionByPair(ctx context.Context, assignmentID, studentID string) (Submission, error)
		QuerySubmissionsByAssignment(ctx context.Context, assignmentID string) ([]Submission, error)
		// UpdateSubmission writes the whole row back; last writer wins.
		UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	}

	// StudentResolver resolves submitting identities for the gradebook join.
	// It must report an absent student with identity.ErrNotFound.
	StudentResolver interface {
		GetStudentByID(ctx context.Context, id string) (identity.Student, error)
	}

	Service interface {
		Create(ctx context.Context, ns NewSubmission) (Submission, error)
		AttachFile(ctx context.Context, id string, att core.Attachment) error
		GetFileByIDs(ctx context.Context, assignmentID, studentID string) ([]byte, error)
		HasSubmitted(ctx context.Context, assignmentID, studentID string) (bool, error)
		GradebookView(ctx context.Context, assignmentID string) ([]GradebookRow, error)
		Grade(ctx context.Context, assignmentID, studentID string, marks int) error
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

// Create inserts the Submission as-is. Pair uniqueness is declared but not
// enforced here nor by the store; callers are expected to check HasSubmitted
// first.
func (svc *service) Create(ctx context.Context, ns NewSubmission) (Submission, error) {
	now := time.Now().UTC()
	sub := Submission{
		AssignmentID: ns.AssignmentID,
		StudentID:    ns.StudentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateSubmission(ctx, sub)
}

// AttachFile validates the upload policy before anything is persisted, then
// replaces any prior attachment whole.
func (svc *service) AttachFile(ctx context.Context, id string, att core.Attachment) error {
	if err := att.Validate(); err != nil {
		return err
	}
	sub, err := svc.repo.GetSubmissionByID(ctx, id)
	if err != nil {
		return err
	}
	sub.File = att.Content
	sub.FileName = att.Filename
	sub.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateSubmission(ctx, sub)
	return err
}

// GetFileByIDs returns the blob of the (first) Submission matching the pair.
// A missing submission and a present submission with no attachment are the
// same ErrNotFound to the caller.
func (svc *service) GetFileByIDs(ctx context.Context, assignmentID, studentID string) ([]byte, error) {
	sub, err := svc.repo.GetSubmissionByPair(ctx, assignmentID, studentID)
	if err != nil {
		return nil, err
	}
	if !sub.HasFile() {
		return nil, ErrNotFound
	}
	return sub.File, nil
}

func (svc *service) HasSubmitted(ctx context.Context, assignmentID, studentID string) (bool, error) {
	if _, err := svc.repo.GetSubmissionByPair(ctx, assignmentID, studentID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GradebookView resolves the submitting student of every Submission one
// lookup at a time; any failed resolve aborts the whole view.
func (svc *service) GradebookView(ctx context.Context, assignmentID string) ([]GradebookRow, error) {
	subs, err := svc.repo.QuerySubmissionsByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	rows := make([]GradebookRow, 0, len(subs))
	for _, sub := range subs {
		std, err := svc.students.GetStudentByID(ctx, sub.StudentID)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving student %s", sub.StudentID)
		}
		rows = append(rows, GradebookRow{
			StudentID:     sub.StudentID,
			FirstName:     std.FirstName,
			LastName:      std.LastName,
			MarksObtained: sub.Marks(),
		})
	}
	return rows, nil
}

// Grade locates the submission by the pair and overwrites its grade.
// Re-grading is idempotent; the last write wins.
func (svc *service) Grade(ctx context.Context, assignmentID, studentID string, marks int) error {
	sub, err := svc.repo.GetSubmissionByPair(ctx, assignmentID, studentID)
	if err != nil {
		return err
	}
	sub.MarksObtained = null.IntFrom(marks)
	sub.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateSubmission(ctx, sub)
	return err
}
