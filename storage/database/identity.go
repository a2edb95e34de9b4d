package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/identity"
)

type identityRepository struct {
	db core.DBExecutor
}

var _ identity.Repository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db core.DBExecutor) *identityRepository {
	return &identityRepository{db: db}
}

type personRow struct {
	ID           string    `db:"id"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r personRow) student() identity.Student {
	return identity.Student{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func (r personRow) teacher() identity.Teacher {
	return identity.Teacher{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// isUniqueViolation reports whether err is the postgres unique_violation.
func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == "23505"
}

func (repo identityRepository) checkEmailUniqueness(ctx context.Context, table, email string) error {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM "` + table + `" WHERE email = $1)`
	if err := repo.db.GetContext(ctx, &exists, q, email); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return identity.ErrEmailExists
	}
	return nil
}

func (repo identityRepository) CheckStudentEmailUniqueness(ctx context.Context, email string) error {
	return repo.checkEmailUniqueness(ctx, "student", email)
}

func (repo identityRepository) CheckTeacherEmailUniqueness(ctx context.Context, email string) error {
	return repo.checkEmailUniqueness(ctx, "teacher", email)
}

const personInsert = ` (id, first_name, last_name, email, password_hash, created_at, updated_at)
	VALUES (:id, :first_name, :last_name, :email, :password_hash, :created_at, :updated_at)`

func (repo identityRepository) CreateStudent(ctx context.Context, std identity.Student) (identity.Student, error) {
	std.ID = uuid.New().String()
	row := personRow{std.ID, std.FirstName, std.LastName, std.Email, std.PasswordHash, std.CreatedAt, std.UpdatedAt}
	if _, err := repo.db.NamedExecContext(ctx, `INSERT INTO "student"`+personInsert, row); err != nil {
		if isUniqueViolation(err) {
			return identity.Student{}, identity.ErrEmailExists
		}
		return identity.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo identityRepository) CreateTeacher(ctx context.Context, tch identity.Teacher) (identity.Teacher, error) {
	tch.ID = uuid.New().String()
	row := personRow{tch.ID, tch.FirstName, tch.LastName, tch.Email, tch.PasswordHash, tch.CreatedAt, tch.UpdatedAt}
	if _, err := repo.db.NamedExecContext(ctx, `INSERT INTO "teacher"`+personInsert, row); err != nil {
		if isUniqueViolation(err) {
			return identity.Teacher{}, identity.ErrEmailExists
		}
		return identity.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

var defaultStudentOrdering = core.DBOrdering{Field: "created_at", Ascending: true}

func (repo identityRepository) QueryAllStudents(ctx context.Context) ([]identity.Student, error) {
	var rows []personRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "student" ORDER BY `+defaultStudentOrdering.String()); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]identity.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo identityRepository) GetStudentByID(ctx context.Context, id string) (identity.Student, error) {
	var row personRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "student" WHERE id = $1`, id); err != nil {
		return identity.Student{}, trapNoRowsErr(err, identity.ErrNotFound, "getting student")
	}
	return row.student(), nil
}

func (repo identityRepository) GetStudentByEmail(ctx context.Context, email string) (identity.Student, error) {
	var row personRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "student" WHERE email = $1`, email); err != nil {
		return identity.Student{}, trapNoRowsErr(err, identity.ErrNotFound, "getting student by email")
	}
	return row.student(), nil
}

func (repo identityRepository) GetTeacherByID(ctx context.Context, id string) (identity.Teacher, error) {
	var row personRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "teacher" WHERE id = $1`, id); err != nil {
		return identity.Teacher{}, trapNoRowsErr(err, identity.ErrNotFound, "getting teacher")
	}
	return row.teacher(), nil
}

func (repo identityRepository) GetTeacherByEmail(ctx context.Context, email string) (identity.Teacher, error) {
	var row personRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM "teacher" WHERE email = $1`, email); err != nil {
		return identity.Teacher{}, trapNoRowsErr(err, identity.ErrNotFound, "getting teacher by email")
	}
	return row.teacher(), nil
}

func (repo identityRepository) UpdateStudent(ctx context.Context, std identity.Student) (identity.Student, error) {
	row := personRow{std.ID, std.FirstName, std.LastName, std.Email, std.PasswordHash, std.CreatedAt, std.UpdatedAt}
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE "student"
		SET first_name = :first_name, last_name = :last_name, email = :email,
		    password_hash = :password_hash, updated_at = :updated_at
		WHERE id = :id`, row)
	if err != nil {
		return identity.Student{}, errors.Wrap(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return identity.Student{}, identity.ErrNotFound
	}
	return std, nil
}
