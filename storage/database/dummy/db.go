// Package dummydb provides in-memory repositories for tests and local
// development. Same semantics as the postgres repositories, including the
// deliberately unenforced enrollment/submission pair uniqueness.
package dummydb

import (
	"sync"

	"github.com/trezcool/darasa/core/assignment"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/identity"
	"github.com/trezcool/darasa/core/submission"
)

type DB struct {
	sync.RWMutex

	students    map[string]*identity.Student
	teachers    map[string]*identity.Teacher
	courses     map[string]*course.Course
	records     map[string]*course.Record
	assignments map[string]*assignment.Assignment
	submissions map[string]*submission.Submission
}

func Open() (*DB, error) {
	return &DB{
		students:    make(map[string]*identity.Student),
		teachers:    make(map[string]*identity.Teacher),
		courses:     make(map[string]*course.Course),
		records:     make(map[string]*course.Record),
		assignments: make(map[string]*assignment.Assignment),
		submissions: make(map[string]*submission.Submission),
	}, nil
}
