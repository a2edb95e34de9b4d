package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var ErrNotFound = errors.New("assignment not found")

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		QueryAssignmentsByCourse(ctx context.Context, courseID string) ([]Assignment, error)
		// UpdateAssignment writes the whole row back; last writer wins.
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		DeleteAssignment(ctx context.Context, id string) (Assignment, error)
	}

	// EnrollmentCounter reports how many students are enrolled in a course.
	EnrollmentCounter interface {
		CountEnrolled(ctx context.Context, courseID string) (int, error)
	}

	Service interface {
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		QueryByCourse(ctx context.Context, courseID string) ([]Assignment, error)
		AttachFile(ctx context.Context, id string, att core.Attachment) error
		GetFile(ctx context.Context, id string) ([]byte, error)
		HasAttachment(ctx context.Context, id string) (bool, error)
		Delete(ctx context.Context, id string) (Assignment, bool, error)
		CountEnrolled(ctx context.Context, id string) (int, error)
	}

	service struct {
		repo       Repository
		enrollment EnrollmentCounter
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, enrollment EnrollmentCounter) Service {
	return &service{
		repo:       repo,
		enrollment: enrollment,
	}
}

func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		CourseID:    na.CourseID,
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

// QueryByCourse does not check that the course still exists: assignments
// orphaned by a course deletion remain queryable by the stale course id.
func (svc *service) QueryByCourse(ctx context.Context, courseID string) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByCourse(ctx, courseID)
}

// AttachFile validates the upload policy before anything is persisted, then
// replaces any prior attachment whole.
func (svc *service) AttachFile(ctx context.Context, id string, att core.Attachment) error {
	if err := att.Validate(); err != nil {
		return err
	}
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return err
	}
	asg.File = att.Content
	asg.FileName = att.Filename
	asg.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateAssignment(ctx, asg)
	return err
}

// GetFile returns the attachment blob. A missing assignment and a present
// assignment with no attachment are the same ErrNotFound to the caller.
func (svc *service) GetFile(ctx context.Context, id string) ([]byte, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asg.HasFile() {
		return nil, ErrNotFound
	}
	return asg.File, nil
}

func (svc *service) HasAttachment(ctx context.Context, id string) (bool, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return asg.HasFile(), nil
}

// Delete hard-deletes the assignment; submissions under it are orphaned.
func (svc *service) Delete(ctx context.Context, id string) (Assignment, bool, error) {
	asg, err := svc.repo.DeleteAssignment(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Assignment{}, false, nil
		}
		return Assignment{}, false, err
	}
	return asg, true, nil
}

// CountEnrolled resolves the assignment's course then delegates to the
// enrollment ledger; used to show how many students can submit.
func (svc *service) CountEnrolled(ctx context.Context, id string) (int, error) {
	asg, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return svc.enrollment.CountEnrolled(ctx, asg.CourseID)
}
