package course

import (
	"regexp"
	"strings"
	"time"

	"github.com/aeroprep/aeroprep/core"
)

type (
	Course struct {
		ID          string    `json:"id" db:"id"`
		Title       string    `json:"title" db:"title"`
		Slug        string    `json:"slug" db:"slug"`
		Description string    `json:"description" db:"description"`
		Aircraft    string    `json:"aircraft" db:"aircraft"`
		IsPublished bool      `json:"is_published" db:"is_published"`
		IsPremium   bool      `json:"is_premium" db:"is_premium"`
		CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	Lesson struct {
		ID        string    `json:"id" db:"id"`
		CourseID  string    `json:"course_id" db:"course_id"`
		Title     string    `json:"title" db:"title"`
		Body      string    `json:"body" db:"body"`
		Position  int       `json:"position" db:"position"`
		CreatedAt time.Time `json:"created_at" db:"created_at"` // UTC
		UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // UTC
	}

	Enrollment struct {
		UserID     string    `json:"user_id" db:"user_id"`
		CourseID   string    `json:"course_id" db:"course_id"`
		EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"` // UTC
	}

	LessonProgress struct {
		UserID      string    `json:"user_id" db:"user_id"`
		LessonID    string    `json:"lesson_id" db:"lesson_id"`
		CompletedAt time.Time `json:"completed_at" db:"completed_at"` // UTC
	}

	// CourseProgress is a user's completion state for one course.
	CourseProgress struct {
		CourseID  string  `json:"course_id"`
		Completed int     `json:"completed"`
		Total     int     `json:"total"`
		Percent   float64 `json:"percent"`
	}
)

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Aircraft    string `json:"aircraft" validate:"required,aircraft"`
	IsPremium   *bool  `json:"is_premium"`
}

func (nc *NewCourse) Validate() error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return core.Validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Aircraft    string  `json:"aircraft" validate:"omitempty,aircraft"`
	IsPremium   *bool   `json:"is_premium"`
}

func (uc *UpdateCourse) Validate() error {
	uc.Title = core.CleanString(uc.Title)
	return core.Validate.Struct(uc)
}

// NewLesson contains information needed to create a new Lesson.
type NewLesson struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	return core.Validate.Struct(nl)
}

// UpdateLesson defines what information may be provided to modify an existing Lesson.
type UpdateLesson struct {
	Title    string  `json:"title"`
	Body     *string `json:"body"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

func (ul *UpdateLesson) Validate() error {
	ul.Title = core.CleanString(ul.Title)
	return core.Validate.Struct(ul)
}

type QueryFilter struct {
	Search      string `query:"search"`
	Aircraft    string `query:"aircraft"`
	IsPublished *bool  `query:"is_published"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Aircraft == "" && qf.IsPublished == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Aircraft = core.CleanString(qf.Aircraft)
}

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a course title.
func Slugify(title string) string {
	slug := slugInvalidChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(slug, "-")
}
