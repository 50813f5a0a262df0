package course

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type accessStub struct {
	allowed map[string]bool
}

func (a accessStub) HasAccess(_ context.Context, userID string) (bool, error) {
	return a.allowed[userID], nil
}

type repoFake struct {
	courses     map[string]Course
	lessons     map[string]Lesson
	enrollments map[string]Enrollment     // userID|courseID
	progress    map[string]LessonProgress // userID|lessonID
}

func newRepoFake() *repoFake {
	return &repoFake{
		courses:     make(map[string]Course),
		lessons:     make(map[string]Lesson),
		enrollments: make(map[string]Enrollment),
		progress:    make(map[string]LessonProgress),
	}
}

func (r *repoFake) CreateCourse(_ context.Context, c Course) (Course, error) {
	r.courses[c.ID] = c
	return c, nil
}

func (r *repoFake) GetCourseByID(_ context.Context, id string) (Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return Course{}, ErrNotFound
	}
	return c, nil
}

func (r *repoFake) GetCourseBySlug(_ context.Context, slug string) (Course, error) {
	for _, c := range r.courses {
		if c.Slug == slug {
			return c, nil
		}
	}
	return Course{}, ErrNotFound
}

func (r *repoFake) QueryCourses(_ context.Context, filter QueryFilter, _ []core.DBOrdering) ([]Course, error) {
	var courses []Course
	for _, c := range r.courses {
		if filter.IsPublished != nil && c.IsPublished != *filter.IsPublished {
			continue
		}
		if filter.Aircraft != "" && c.Aircraft != filter.Aircraft {
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func (r *repoFake) UpdateCourse(_ context.Context, c Course, isPublished *bool) (Course, error) {
	stored, ok := r.courses[c.ID]
	if !ok {
		return Course{}, ErrNotFound
	}
	stored = c
	if isPublished != nil {
		stored.IsPublished = *isPublished
	}
	r.courses[c.ID] = stored
	return stored, nil
}

func (r *repoFake) DeleteCoursesByID(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.courses, id)
	}
	return nil
}

func (r *repoFake) CreateLesson(_ context.Context, l Lesson) (Lesson, error) {
	r.lessons[l.ID] = l
	return l, nil
}

func (r *repoFake) GetLessonByID(_ context.Context, id string) (Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return Lesson{}, ErrLessonNotFound
	}
	return l, nil
}

func (r *repoFake) QueryLessonsByCourse(_ context.Context, courseID string) ([]Lesson, error) {
	var lessons []Lesson
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, l)
		}
	}
	return lessons, nil
}

func (r *repoFake) UpdateLesson(_ context.Context, l Lesson) (Lesson, error) {
	if _, ok := r.lessons[l.ID]; !ok {
		return Lesson{}, ErrLessonNotFound
	}
	r.lessons[l.ID] = l
	return l, nil
}

func (r *repoFake) DeleteLessonsByID(_ context.Context, ids ...string) error {
	for _, id := range ids {
		delete(r.lessons, id)
	}
	return nil
}

func (r *repoFake) CreateEnrollment(_ context.Context, e Enrollment) error {
	r.enrollments[e.UserID+"|"+e.CourseID] = e
	return nil
}

func (r *repoFake) GetEnrollment(_ context.Context, userID, courseID string) (Enrollment, error) {
	e, ok := r.enrollments[userID+"|"+courseID]
	if !ok {
		return Enrollment{}, ErrNotFound
	}
	return e, nil
}

func (r *repoFake) SaveLessonProgress(_ context.Context, p LessonProgress) error {
	r.progress[p.UserID+"|"+p.LessonID] = p
	return nil
}

func (r *repoFake) CountLessonProgress(_ context.Context, userID, courseID string) (int, error) {
	var n int
	for _, p := range r.progress {
		if p.UserID != userID {
			continue
		}
		if l, ok := r.lessons[p.LessonID]; ok && l.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title, want string
	}{
		{"A320 Electrical Systems", "a320-electrical-systems"},
		{"  Fuel & Hydraulics!  ", "fuel-hydraulics"},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestService_createAndPublish(t *testing.T) {
	svc := NewService(nopLogger{}, newRepoFake(), accessStub{})
	ctx := context.Background()

	c, err := svc.Create(ctx, NewCourse{Title: "A320 Systems", Aircraft: question.AircraftA320Family})
	require.NoError(t, err)
	assert.Equal(t, "a320-systems", c.Slug)
	assert.True(t, c.IsPremium)
	assert.False(t, c.IsPublished)

	// duplicate title is a validation error
	_, err = svc.Create(ctx, NewCourse{Title: "A320 Systems", Aircraft: question.AircraftA320Family})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)

	c, err = svc.Publish(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, c.IsPublished)
}

func TestService_lessonsKeepStableOrder(t *testing.T) {
	repo := newRepoFake()
	svc := NewService(nopLogger{}, repo, accessStub{})
	ctx := context.Background()

	c, err := svc.Create(ctx, NewCourse{Title: "B737 Systems", Aircraft: question.AircraftB737Family})
	require.NoError(t, err)

	// without an explicit position, lessons append at the end
	l1, err := svc.AddLesson(ctx, c.ID, NewLesson{Title: "Electrical"})
	require.NoError(t, err)
	assert.Equal(t, 0, l1.Position)
	l2, err := svc.AddLesson(ctx, c.ID, NewLesson{Title: "Hydraulics"})
	require.NoError(t, err)
	assert.Equal(t, 1, l2.Position)

	pos := 0
	l2, err = svc.UpdateLesson(ctx, l2.ID, UpdateLesson{Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, 0, l2.Position)

	// lessons on an unknown course are rejected
	_, err = svc.AddLesson(ctx, "nope", NewLesson{Title: "Fuel"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_enrollmentGating(t *testing.T) {
	repo := newRepoFake()
	svc := NewService(nopLogger{}, repo, accessStub{allowed: map[string]bool{"subscribed": true}})
	ctx := context.Background()

	c, err := svc.Create(ctx, NewCourse{Title: "A320 Systems", Aircraft: question.AircraftA320Family})
	require.NoError(t, err)

	// unpublished course
	_, err = svc.Enroll(ctx, "subscribed", c.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = svc.Publish(ctx, c.ID)
	require.NoError(t, err)

	// premium course requires a live subscription
	_, err = svc.Enroll(ctx, "freeloader", c.ID)
	assert.ErrorIs(t, err, ErrSubscriptionRequired)

	enr, err := svc.Enroll(ctx, "subscribed", c.ID)
	require.NoError(t, err)

	// enrolling twice is a no-op
	again, err := svc.Enroll(ctx, "subscribed", c.ID)
	require.NoError(t, err)
	assert.Equal(t, enr.EnrolledAt, again.EnrolledAt)

	// free courses skip the gate
	free := false
	fc, err := svc.Create(ctx, NewCourse{Title: "Intro", Aircraft: question.AircraftGeneral, IsPremium: &free})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, fc.ID)
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, "freeloader", fc.ID)
	require.NoError(t, err)
}

func TestService_lessonProgress(t *testing.T) {
	repo := newRepoFake()
	svc := NewService(nopLogger{}, repo, accessStub{allowed: map[string]bool{"usr1": true}})
	ctx := context.Background()

	c, err := svc.Create(ctx, NewCourse{Title: "A320 Systems", Aircraft: question.AircraftA320Family})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, c.ID)
	require.NoError(t, err)

	l1, err := svc.AddLesson(ctx, c.ID, NewLesson{Title: "Electrical"})
	require.NoError(t, err)
	_, err = svc.AddLesson(ctx, c.ID, NewLesson{Title: "Hydraulics"})
	require.NoError(t, err)

	// completion requires enrollment
	err = svc.CompleteLesson(ctx, "usr1", l1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Enroll(ctx, "usr1", c.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CompleteLesson(ctx, "usr1", l1.ID))
	// completing twice does not double count
	require.NoError(t, svc.CompleteLesson(ctx, "usr1", l1.ID))

	prog, err := svc.Progress(ctx, "usr1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, prog.Completed)
	assert.Equal(t, 2, prog.Total)
	assert.InDelta(t, 50.0, prog.Percent, 0.001)
}
