package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.courses[id]; ok {
		return *c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) GetCourseBySlug(ctx context.Context, slug string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, c := range repo.db.courses {
		if c.Slug == slug {
			return *c, nil
		}
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var courses []course.Course
	search := strings.ToLower(filter.Search)
	for _, c := range repo.db.courses {
		if search != "" && !strings.Contains(strings.ToLower(c.Title), search) {
			continue
		}
		if filter.Aircraft != "" && c.Aircraft != filter.Aircraft {
			continue
		}
		if filter.IsPublished != nil && c.IsPublished != *filter.IsPublished {
			continue
		}
		courses = append(courses, *c)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course, isPublished *bool) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.courses[c.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if isPublished != nil {
		c.IsPublished = *isPublished
	} else {
		c.IsPublished = orig.IsPublished
	}
	c.CreatedAt = orig.CreatedAt
	repo.db.courses[c.ID] = &c
	return c, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.courses, id)
	}
	return nil
}

func (repo *courseRepository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if l, ok := repo.db.lessons[id]; ok {
		return *l, nil
	}
	return course.Lesson{}, course.ErrLessonNotFound
}

func (repo *courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var lessons []course.Lesson
	for _, l := range repo.db.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, *l)
		}
	}
	sort.Slice(lessons, func(i, j int) bool {
		if lessons[i].Position != lessons[j].Position {
			return lessons[i].Position < lessons[j].Position
		}
		return lessons[i].CreatedAt.Before(lessons[j].CreatedAt)
	})
	return lessons, nil
}

func (repo *courseRepository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.lessons[l.ID]
	if !ok {
		return course.Lesson{}, course.ErrLessonNotFound
	}
	l.CourseID = orig.CourseID
	l.CreatedAt = orig.CreatedAt
	repo.db.lessons[l.ID] = &l
	return l, nil
}

func (repo *courseRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.lessons, id)
	}
	return nil
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, e course.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := e.UserID + "/" + e.CourseID
	if _, ok := repo.db.enrollments[key]; !ok {
		repo.db.enrollments[key] = e
	}
	return nil
}

func (repo *courseRepository) GetEnrollment(ctx context.Context, userID, courseID string) (course.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if e, ok := repo.db.enrollments[userID+"/"+courseID]; ok {
		return e, nil
	}
	return course.Enrollment{}, course.ErrNotFound
}

func (repo *courseRepository) SaveLessonProgress(ctx context.Context, p course.LessonProgress) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := p.UserID + "/" + p.LessonID
	if _, ok := repo.db.progress[key]; !ok {
		repo.db.progress[key] = p
	}
	return nil
}

func (repo *courseRepository) CountLessonProgress(ctx context.Context, userID, courseID string) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, p := range repo.db.progress {
		if p.UserID != userID {
			continue
		}
		if l, ok := repo.db.lessons[p.LessonID]; ok && l.CourseID == courseID {
			count++
		}
	}
	return count, nil
}
