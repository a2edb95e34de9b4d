package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CheckCodeUniqueness(_ context.Context, code string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.courses {
		if crs.Code == code {
			return course.ErrCodeExists
		}
	}
	return nil
}

func (repo *courseRepository) CreateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, c := range repo.db.courses {
		if c.Code == crs.Code {
			return course.Course{}, course.ErrCodeExists
		}
	}
	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) GetCourseByCode(_ context.Context, code string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, crs := range repo.db.courses {
		if crs.Code == code {
			return *crs, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCoursesByTeacher(_ context.Context, teacherID string) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0)
	for _, crs := range repo.db.courses {
		if crs.TeacherID == teacherID {
			courses = append(courses, *crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.courses[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs, ok := repo.db.courses[id]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	delete(repo.db.courses, id)
	return *crs, nil
}

func (repo *courseRepository) CreateRecord(_ context.Context, rec course.Record) (course.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// no pair uniqueness check: same gap as the real store
	rec.ID = uuid.New().String()
	repo.db.records[rec.ID] = &rec
	return rec, nil
}

func (repo *courseRepository) QueryRecordsByCourse(_ context.Context, courseID string) ([]course.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]course.Record, 0)
	for _, rec := range repo.db.records {
		if rec.CourseID == courseID {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *courseRepository) QueryRecordsByStudent(_ context.Context, studentID string) ([]course.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]course.Record, 0)
	for _, rec := range repo.db.records {
		if rec.StudentID == studentID {
			recs = append(recs, *rec)
		}
	}
	return recs, nil
}

func (repo *courseRepository) CountRecordsByCourse(_ context.Context, courseID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, rec := range repo.db.records {
		if rec.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (repo *courseRepository) DeleteRecord(_ context.Context, courseID, studentID string) (course.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for id, rec := range repo.db.records {
		if rec.CourseID == courseID && rec.StudentID == studentID {
			delete(repo.db.records, id)
			return *rec, nil
		}
	}
	return course.Record{}, course.ErrNotFound
}
