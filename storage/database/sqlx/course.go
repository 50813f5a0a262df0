package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	const query = `
		INSERT INTO course (id, title, slug, description, aircraft, is_published, is_premium, created_at, updated_at)
		VALUES (:id, :title, :slug, :description, :aircraft, :is_published, :is_premium, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, c); err != nil {
		return course.Course{}, wrapDBErr(err, "inserting course")
	}
	return c, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	return repo.getCourse(ctx, "id = $1", id)
}

func (repo courseRepository) GetCourseBySlug(ctx context.Context, slug string) (course.Course, error) {
	return repo.getCourse(ctx, "slug = $1", slug)
}

func (repo courseRepository) getCourse(ctx context.Context, where string, arg interface{}) (course.Course, error) {
	var c course.Course
	if err := repo.db.GetContext(ctx, &c, `SELECT * FROM course WHERE `+where, arg); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "finding course")
	}
	return c, nil
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	query := `SELECT * FROM course`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		conds = append(conds, "title ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.Aircraft != "" {
		conds = append(conds, "aircraft = "+arg(filter.Aircraft))
	}
	if filter.IsPublished != nil {
		conds = append(conds, "is_published = "+arg(*filter.IsPublished))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(ordering, "created_at DESC")

	var courses []course.Course
	if err := repo.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying courses")
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, c course.Course, isPublished *bool) (course.Course, error) {
	query := `
		UPDATE course SET
			title = $2, slug = $3, description = $4, aircraft = $5, is_premium = $6, updated_at = $7`
	args := []interface{}{c.ID, c.Title, c.Slug, c.Description, c.Aircraft, c.IsPremium, c.UpdatedAt.UTC()}
	if isPublished != nil {
		query += `, is_published = $8`
		args = append(args, *isPublished)
	}
	query += ` WHERE id = $1 RETURNING *`

	var updated course.Course
	if err := repo.db.GetContext(ctx, &updated, query, args...); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "updating course")
	}
	return updated, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return wrapDBErr(err, "deleting courses")
	}
	return nil
}

func (repo courseRepository) CreateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	const query = `
		INSERT INTO lesson (id, course_id, title, body, position, created_at, updated_at)
		VALUES (:id, :course_id, :title, :body, :position, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, l); err != nil {
		return course.Lesson{}, wrapDBErr(err, "inserting lesson")
	}
	return l, nil
}

func (repo courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	var l course.Lesson
	if err := repo.db.GetContext(ctx, &l, `SELECT * FROM lesson WHERE id = $1`, id); err != nil {
		return course.Lesson{}, trapNoRowsErr(err, course.ErrLessonNotFound, "finding lesson")
	}
	return l, nil
}

func (repo courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	var lessons []course.Lesson
	query := `SELECT * FROM lesson WHERE course_id = $1 ORDER BY position ASC, created_at ASC`
	if err := repo.db.SelectContext(ctx, &lessons, query, courseID); err != nil {
		return nil, wrapDBErr(err, "querying lessons")
	}
	return lessons, nil
}

func (repo courseRepository) UpdateLesson(ctx context.Context, l course.Lesson) (course.Lesson, error) {
	const query = `
		UPDATE lesson SET title = $2, body = $3, position = $4, updated_at = $5
		WHERE id = $1 RETURNING *`
	var updated course.Lesson
	if err := repo.db.GetContext(ctx, &updated, query, l.ID, l.Title, l.Body, l.Position, l.UpdatedAt.UTC()); err != nil {
		return course.Lesson{}, trapNoRowsErr(err, course.ErrLessonNotFound, "updating lesson")
	}
	return updated, nil
}

func (repo courseRepository) DeleteLessonsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM lesson WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return wrapDBErr(err, "deleting lessons")
	}
	return nil
}

func (repo courseRepository) CreateEnrollment(ctx context.Context, e course.Enrollment) error {
	const query = `
		INSERT INTO enrollment (user_id, course_id, enrolled_at)
		VALUES (:user_id, :course_id, :enrolled_at)
		ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := repo.db.NamedExecContext(ctx, query, e); err != nil {
		return wrapDBErr(err, "inserting enrollment")
	}
	return nil
}

func (repo courseRepository) GetEnrollment(ctx context.Context, userID, courseID string) (course.Enrollment, error) {
	var e course.Enrollment
	query := `SELECT * FROM enrollment WHERE user_id = $1 AND course_id = $2`
	if err := repo.db.GetContext(ctx, &e, query, userID, courseID); err != nil {
		return course.Enrollment{}, trapNoRowsErr(err, course.ErrNotFound, "finding enrollment")
	}
	return e, nil
}

func (repo courseRepository) SaveLessonProgress(ctx context.Context, p course.LessonProgress) error {
	const query = `
		INSERT INTO lesson_progress (user_id, lesson_id, completed_at)
		VALUES (:user_id, :lesson_id, :completed_at)
		ON CONFLICT (user_id, lesson_id) DO NOTHING`
	if _, err := repo.db.NamedExecContext(ctx, query, p); err != nil {
		return wrapDBErr(err, "saving lesson progress")
	}
	return nil
}

func (repo courseRepository) CountLessonProgress(ctx context.Context, userID, courseID string) (int, error) {
	var count int
	const query = `
		SELECT COUNT(*) FROM lesson_progress lp
		JOIN lesson l ON l.id = lp.lesson_id
		WHERE lp.user_id = $1 AND l.course_id = $2`
	if err := repo.db.GetContext(ctx, &count, query, userID, courseID); err != nil {
		return 0, wrapDBErr(err, "counting lesson progress")
	}
	return count, nil
}
