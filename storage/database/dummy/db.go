package dummydb

import (
	"sync"

	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/course"
	"github.com/aeroprep/aeroprep/core/exam"
	"github.com/aeroprep/aeroprep/core/question"
	"github.com/aeroprep/aeroprep/core/user"
)

type (
	DB struct {
		user     *userTable
		question *questionTable
		course   *courseTable
		exam     *examTable
		billing  *billingTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	questionTable struct {
		sync.RWMutex
		table map[string]*question.Question
	}

	courseTable struct {
		sync.RWMutex
		courses     map[string]*course.Course
		lessons     map[string]*course.Lesson
		enrollments map[string]course.Enrollment     // key: userID + "/" + courseID
		progress    map[string]course.LessonProgress // key: userID + "/" + lessonID
	}

	examTable struct {
		sync.RWMutex
		attempts map[string]*exam.Attempt
		answers  map[string]exam.Answer // key: attemptID + "/" + questionID
	}

	billingTable struct {
		sync.RWMutex
		plans map[string]*billing.Plan
		subs  map[string]*billing.Subscription
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		question: &questionTable{table: make(map[string]*question.Question)},
		course: &courseTable{
			courses:     make(map[string]*course.Course),
			lessons:     make(map[string]*course.Lesson),
			enrollments: make(map[string]course.Enrollment),
			progress:    make(map[string]course.LessonProgress),
		},
		exam: &examTable{
			attempts: make(map[string]*exam.Attempt),
			answers:  make(map[string]exam.Answer),
		},
		billing: &billingTable{
			plans: make(map[string]*billing.Plan),
			subs:  make(map[string]*billing.Subscription),
		},
	}
	return db, nil
}
