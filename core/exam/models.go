package exam

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
)

type (
	// Attempt is one sitting of a practice or timed exam. The question
	// selection is snapshotted at start so later bank edits do not affect
	// an open attempt.
	Attempt struct {
		ID          string       `json:"id" db:"id"`
		UserID      string       `json:"user_id" db:"user_id"`
		Mode        string       `json:"mode" db:"mode"`
		Aircraft    string       `json:"aircraft" db:"aircraft"`
		Category    string       `json:"category" db:"category"`
		Difficulty  string       `json:"difficulty" db:"difficulty"`
		ExamTitle   string       `json:"exam_title" db:"exam_title"`
		QuestionIDs []string     `json:"question_ids" db:"question_ids"`
		StartedAt   time.Time    `json:"started_at" db:"started_at"` // UTC
		FinishedAt  null.Time    `json:"finished_at" db:"finished_at"`
		Score       null.Float64 `json:"score" db:"score"` // percent, set on Finish

		Answers []Answer `json:"answers,omitempty" db:"-"`
	}

	Answer struct {
		AttemptID  string    `json:"-" db:"attempt_id"`
		QuestionID string    `json:"question_id" db:"question_id"`
		Category   string    `json:"category" db:"category"` // canonical tag
		Selected   int       `json:"selected" db:"selected"`
		IsCorrect  bool      `json:"is_correct" db:"is_correct"`
		AnsweredAt time.Time `json:"answered_at" db:"answered_at"` // UTC
	}

	// CategoryScore is a per-category slice of an attempt's result.
	CategoryScore struct {
		Category string  `json:"category"`
		Answered int     `json:"answered"`
		Correct  int     `json:"correct"`
		Percent  float64 `json:"percent"`
	}

	// Result is a finished (or in-flight) attempt with its breakdown.
	Result struct {
		Attempt   Attempt         `json:"attempt"`
		Breakdown []CategoryScore `json:"breakdown"`
	}

	// Progress summarizes a user's exam history.
	Progress struct {
		TotalAttempts     int             `json:"total_attempts"`
		FinishedAttempts  int             `json:"finished_attempts"`
		QuestionsAnswered int             `json:"questions_answered"`
		CorrectAnswers    int             `json:"correct_answers"`
		Accuracy          float64         `json:"accuracy"` // percent
		AverageScore      float64         `json:"average_score"`
		StreakDays        int             `json:"streak_days"`
		PerCategory       []CategoryScore `json:"per_category"`
	}
)

func (a *Attempt) IsFinished() bool { return a.FinishedAt.Valid }

// NewAttempt contains information needed to start an Attempt.
type NewAttempt struct {
	Mode          string `json:"mode" validate:"omitempty,mode"`
	Category      string `json:"category"`
	Aircraft      string `json:"aircraft" validate:"omitempty,aircraft"`
	Difficulty    string `json:"difficulty" validate:"omitempty,difficulty"`
	QuestionCount int    `json:"question_count" validate:"required,min=1,max=100"`
	ExamTitle     string `json:"exam_title"`
}

func (na *NewAttempt) Validate() error {
	na.Category = core.CleanString(na.Category)
	na.Mode = core.CleanString(na.Mode, true /* lower */)
	na.Difficulty = core.CleanString(na.Difficulty, true /* lower */)
	na.ExamTitle = core.CleanString(na.ExamTitle)
	return core.Validate.Struct(na)
}

// SubmitAnswer records a choice on an open Attempt.
type SubmitAnswer struct {
	QuestionID string `json:"question_id" validate:"required"`
	Selected   *int   `json:"selected" validate:"required,min=0,max=3"`
}

func (sa *SubmitAnswer) Validate() error {
	sa.QuestionID = core.CleanString(sa.QuestionID)
	return core.Validate.Struct(sa)
}
