package course

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
)

var (
	// errors
	ErrNotFound             = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrNotPublished         = errors.New("course is not published")
	ErrSubscriptionRequired = errors.New("an active subscription is required for this course")
	ErrSlugExists           = errors.New("a course with this title already exists")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, c Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		GetCourseBySlug(ctx context.Context, slug string) (Course, error)
		// QueryCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Course.Title.
		QueryCourses(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, c Course, isPublished *bool) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		CreateLesson(ctx context.Context, l Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		// QueryLessonsByCourse returns lessons ordered by Position, then CreatedAt.
		QueryLessonsByCourse(ctx context.Context, courseID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, l Lesson) (Lesson, error)
		DeleteLessonsByID(ctx context.Context, ids ...string) error

		CreateEnrollment(ctx context.Context, e Enrollment) error
		GetEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error)
		SaveLessonProgress(ctx context.Context, p LessonProgress) error
		CountLessonProgress(ctx context.Context, userID, courseID string) (int, error)
	}

	// AccessChecker reports whether a user may use premium content.
	AccessChecker interface {
		HasAccess(ctx context.Context, userID string) (bool, error)
	}

	Service interface {
		Create(ctx context.Context, nc NewCourse) (Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		GetBySlug(ctx context.Context, slug string) (Course, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		Publish(ctx context.Context, id string) (Course, error)
		Delete(ctx context.Context, ids ...string) error

		AddLesson(ctx context.Context, courseID string, nl NewLesson) (Lesson, error)
		Lessons(ctx context.Context, courseID string) ([]Lesson, error)
		UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error)
		DeleteLesson(ctx context.Context, ids ...string) error

		Enroll(ctx context.Context, userID, courseID string) (Enrollment, error)
		CompleteLesson(ctx context.Context, userID, lessonID string) error
		Progress(ctx context.Context, userID, courseID string) (CourseProgress, error)
	}

	service struct {
		repo   Repository
		access AccessChecker
		logger core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(logger core.Logger, repo Repository, access AccessChecker) *service {
	return &service{repo: repo, access: access, logger: logger}
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	c := Course{
		ID:          uuid.NewString(),
		Title:       nc.Title,
		Slug:        Slugify(nc.Title),
		Description: nc.Description,
		Aircraft:    nc.Aircraft,
		IsPremium:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if nc.IsPremium != nil {
		c.IsPremium = *nc.IsPremium
	}

	if _, err := svc.repo.GetCourseBySlug(ctx, c.Slug); err == nil {
		return Course{}, core.NewValidationError(ErrSlugExists, core.FieldError{Field: "title", Error: ErrSlugExists.Error()})
	} else if errors.Cause(err) != ErrNotFound {
		return Course{}, err
	}
	return svc.repo.CreateCourse(ctx, c)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Course, error) {
	return svc.repo.GetCourseBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Course, error) {
	filter.Clean()
	return svc.repo.QueryCourses(ctx, filter, ordering)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	orig, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	c := orig
	if uc.Title != "" && uc.Title != orig.Title {
		c.Title = uc.Title
		c.Slug = Slugify(uc.Title)
		if dup, err := svc.repo.GetCourseBySlug(ctx, c.Slug); err == nil && dup.ID != c.ID {
			return Course{}, core.NewValidationError(ErrSlugExists, core.FieldError{Field: "title", Error: ErrSlugExists.Error()})
		} else if err != nil && errors.Cause(err) != ErrNotFound {
			return Course{}, err
		}
	}
	if uc.Description != nil {
		c.Description = *uc.Description
	}
	if uc.Aircraft != "" {
		c.Aircraft = uc.Aircraft
	}
	if uc.IsPremium != nil {
		c.IsPremium = *uc.IsPremium
	}
	c.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCourse(ctx, c, nil)
}

func (svc *service) Publish(ctx context.Context, id string) (Course, error) {
	c, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	c.UpdatedAt = time.Now().UTC()
	published := true
	return svc.repo.UpdateCourse(ctx, c, &published)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

func (svc *service) AddLesson(ctx context.Context, courseID string, nl NewLesson) (Lesson, error) {
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Lesson{}, err
	}

	position := nl.Position
	if position == nil {
		// append at the end
		lessons, err := svc.repo.QueryLessonsByCourse(ctx, courseID)
		if err != nil {
			return Lesson{}, err
		}
		next := len(lessons)
		position = &next
	}

	now := time.Now().UTC()
	return svc.repo.CreateLesson(ctx, Lesson{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Title:     nl.Title,
		Body:      nl.Body,
		Position:  *position,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) Lessons(ctx context.Context, courseID string) ([]Lesson, error) {
	return svc.repo.QueryLessonsByCourse(ctx, courseID)
}

func (svc *service) UpdateLesson(ctx context.Context, id string, ul UpdateLesson) (Lesson, error) {
	orig, err := svc.repo.GetLessonByID(ctx, id)
	if err != nil {
		return Lesson{}, err
	}

	l := orig
	if ul.Title != "" {
		l.Title = ul.Title
	}
	if ul.Body != nil {
		l.Body = *ul.Body
	}
	if ul.Position != nil {
		l.Position = *ul.Position
	}
	l.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateLesson(ctx, l)
}

func (svc *service) DeleteLesson(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteLessonsByID(ctx, ids...)
}

func (svc *service) Enroll(ctx context.Context, userID, courseID string) (Enrollment, error) {
	c, err := svc.repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	if !c.IsPublished {
		return Enrollment{}, ErrNotPublished
	}
	if c.IsPremium {
		ok, err := svc.access.HasAccess(ctx, userID)
		if err != nil {
			return Enrollment{}, errors.Wrap(err, "checking subscription access")
		}
		if !ok {
			return Enrollment{}, ErrSubscriptionRequired
		}
	}

	// enrolling twice is a no-op
	if enr, err := svc.repo.GetEnrollment(ctx, userID, courseID); err == nil {
		return enr, nil
	} else if errors.Cause(err) != ErrNotFound {
		return Enrollment{}, err
	}

	enr := Enrollment{UserID: userID, CourseID: courseID, EnrolledAt: time.Now().UTC()}
	if err = svc.repo.CreateEnrollment(ctx, enr); err != nil {
		return Enrollment{}, err
	}
	return enr, nil
}

func (svc *service) CompleteLesson(ctx context.Context, userID, lessonID string) error {
	l, err := svc.repo.GetLessonByID(ctx, lessonID)
	if err != nil {
		return err
	}
	// completion requires enrollment
	if _, err = svc.repo.GetEnrollment(ctx, userID, l.CourseID); err != nil {
		return err
	}
	return svc.repo.SaveLessonProgress(ctx, LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: time.Now().UTC(),
	})
}

func (svc *service) Progress(ctx context.Context, userID, courseID string) (CourseProgress, error) {
	lessons, err := svc.repo.QueryLessonsByCourse(ctx, courseID)
	if err != nil {
		return CourseProgress{}, err
	}
	completed, err := svc.repo.CountLessonProgress(ctx, userID, courseID)
	if err != nil {
		return CourseProgress{}, err
	}

	prog := CourseProgress{CourseID: courseID, Completed: completed, Total: len(lessons)}
	if prog.Total > 0 {
		prog.Percent = float64(prog.Completed) / float64(prog.Total) * 100
	}
	return prog, nil
}
