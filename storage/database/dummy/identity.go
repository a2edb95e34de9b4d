package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/identity"
)

type identityRepository struct {
	db *DB
}

var _ identity.Repository = (*identityRepository)(nil) // interface compliance check

func NewIdentityRepository(db *DB) identity.Repository {
	return &identityRepository{db: db}
}

func (repo *identityRepository) CheckStudentEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Email == email {
			return identity.ErrEmailExists
		}
	}
	return nil
}

func (repo *identityRepository) CheckTeacherEmailUniqueness(_ context.Context, email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.Email == email {
			return identity.ErrEmailExists
		}
	}
	return nil
}

func (repo *identityRepository) CreateStudent(_ context.Context, std identity.Student) (identity.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.students {
		if s.Email == std.Email {
			return identity.Student{}, identity.ErrEmailExists
		}
	}
	std.ID = uuid.New().String()
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *identityRepository) CreateTeacher(_ context.Context, tch identity.Teacher) (identity.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, t := range repo.db.teachers {
		if t.Email == tch.Email {
			return identity.Teacher{}, identity.ErrEmailExists
		}
	}
	tch.ID = uuid.New().String()
	repo.db.teachers[tch.ID] = &tch
	return tch, nil
}

func (repo *identityRepository) QueryAllStudents(_ context.Context) ([]identity.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]identity.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		students = append(students, *std)
	}
	return students, nil
}

func (repo *identityRepository) GetStudentByID(_ context.Context, id string) (identity.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return identity.Student{}, identity.ErrNotFound
}

func (repo *identityRepository) GetStudentByEmail(_ context.Context, email string) (identity.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.students {
		if std.Email == email {
			return *std, nil
		}
	}
	return identity.Student{}, identity.ErrNotFound
}

func (repo *identityRepository) GetTeacherByID(_ context.Context, id string) (identity.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.teachers[id]; ok {
		return *tch, nil
	}
	return identity.Teacher{}, identity.ErrNotFound
}

func (repo *identityRepository) GetTeacherByEmail(_ context.Context, email string) (identity.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.teachers {
		if tch.Email == email {
			return *tch, nil
		}
	}
	return identity.Teacher{}, identity.ErrNotFound
}

func (repo *identityRepository) UpdateStudent(_ context.Context, std identity.Student) (identity.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[std.ID]; !ok {
		return identity.Student{}, identity.ErrNotFound
	}
	repo.db.students[std.ID] = &std
	return std, nil
}
