package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db core.DBExecutor
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db core.DBExecutor) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Code      string    `db:"course_code"`
	TeacherID string    `db:"teacher_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r courseRow) course() course.Course {
	return course.Course(r)
}

type recordRow struct {
	ID        string    `db:"id"`
	CourseID  string    `db:"course_id"`
	StudentID string    `db:"student_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (r recordRow) record() course.Record {
	return course.Record(r)
}

func (repo courseRepository) CheckCodeUniqueness(ctx context.Context, code string) error {
	var exists bool
	if err := repo.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM "course" WHERE course_code = $1)`, code); err != nil {
		return errors.Wrap(err, "checking course code uniqueness")
	}
	if exists {
		return course.ErrCodeExists
	}
	return nil
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "course" (id, name, course_code, teacher_id, created_at, updated_at)
		VALUES (:id, :name, :course_code, :teacher_id, :created_at, :updated_at)`,
		courseRow(crs))
	if err != nil {
		if isUniqueViolation(err) {
			return course.Course{}, course.ErrCodeExists
		}
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "course" WHERE id = $1`, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return row.course(), nil
}

func (repo courseRepository) GetCourseByCode(ctx context.Context, code string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "course" WHERE course_code = $1`, code); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course by code")
	}
	return row.course(), nil
}

func (repo courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherID string) ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM "course" WHERE teacher_id = $1`, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying courses by teacher")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.course())
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "course"
		SET name = :name, course_code = :course_code, teacher_id = :teacher_id, updated_at = :updated_at
		WHERE id = :id`, courseRow(crs))
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) DeleteCourse(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row,
		`DELETE FROM "course" WHERE id = $1 RETURNING *`, id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "deleting course")
	}
	return row.course(), nil
}

func (repo courseRepository) CreateRecord(ctx context.Context, rec course.Record) (course.Record, error) {
	rec.ID = uuid.New().String()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO "record" (id, course_id, student_id, created_at)
		VALUES (:id, :course_id, :student_id, :created_at)`,
		recordRow(rec))
	if err != nil {
		return course.Record{}, errors.Wrap(err, "inserting record")
	}
	return rec, nil
}

func (repo courseRepository) QueryRecordsByCourse(ctx context.Context, courseID string) ([]course.Record, error) {
	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM "record" WHERE course_id = $1`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying records by course")
	}
	recs := make([]course.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}

func (repo courseRepository) QueryRecordsByStudent(ctx context.Context, studentID string) ([]course.Record, error) {
	var rows []recordRow
	if err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM "record" WHERE student_id = $1`, studentID); err != nil {
		return nil, errors.Wrap(err, "querying records by student")
	}
	recs := make([]course.Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.record())
	}
	return recs, nil
}

func (repo courseRepository) CountRecordsByCourse(ctx context.Context, courseID string) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM "record" WHERE course_id = $1`, courseID); err != nil {
		return 0, errors.Wrap(err, "counting records")
	}
	return count, nil
}

// DeleteRecord removes one Record matching the pair; duplicated pairs lose a
// single instance per call.
func (repo courseRepository) DeleteRecord(ctx context.Context, courseID, studentID string) (course.Record, error) {
	var row recordRow
	if err := repo.db.GetContext(ctx, &row, `
		DELETE FROM "record"
		WHERE id = (SELECT id FROM "record" WHERE course_id = $1 AND student_id = $2 LIMIT 1)
		RETURNING *`, courseID, studentID); err != nil {
		return course.Record{}, trapNoRowsErr(err, course.ErrNotFound, "deleting record")
	}
	return row.record(), nil
}
