package question

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
)

// Aircraft tags. AircraftGeneral questions are visible to every aircraft.
const (
	AircraftA320Family = "A320_FAMILY"
	AircraftB737Family = "B737_FAMILY"
	AircraftGeneral    = "GENERAL"

	// AircraftAll is the query value that disables aircraft filtering.
	AircraftAll = "ALL"
)

// Difficulty tags.
const (
	DifficultyBasic        = "basic"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"

	// difficultyBeginner is a legacy alias of DifficultyBasic still present
	// in old bank rows.
	difficultyBeginner = "beginner"
)

// Exam modes.
const (
	ModePractice = "practice"
	ModeTimed    = "timed"
	ModeReview   = "review"
)

var (
	Aircraft     = []string{AircraftA320Family, AircraftB737Family, AircraftGeneral}
	Difficulties = []string{DifficultyBasic, DifficultyIntermediate, DifficultyAdvanced}
	Modes        = []string{ModePractice, ModeTimed, ModeReview}
)

// NormalizeDifficulty maps the legacy "beginner" alias to "basic".
func NormalizeDifficulty(d string) string {
	if d == difficultyBeginner {
		return DifficultyBasic
	}
	return d
}

// Question is one exam item. Records loaded from the static banks are
// constructed once and never mutated.
type Question struct {
	ID             string      `json:"id" db:"id"`
	Text           string      `json:"text" db:"text"`
	Options        []string    `json:"options" db:"options"` // exactly 4
	CorrectAnswer  int         `json:"correct_answer" db:"correct_answer"`
	Explanation    string      `json:"explanation" db:"explanation"`
	Aircraft       string      `json:"aircraft" db:"aircraft"`
	Category       string      `json:"category" db:"category"` // raw bilingual display label
	Difficulty     string      `json:"difficulty" db:"difficulty"`
	IsActive       bool        `json:"is_active" db:"is_active"`
	Reference      null.String `json:"reference" db:"reference"`
	RegulationCode null.String `json:"regulation_code" db:"regulation_code"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"` // UTC
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"` // UTC
}

// NewQuestion contains information needed to author a new bank Question.
type NewQuestion struct {
	Text           string   `json:"text" validate:"required"`
	Options        []string `json:"options" validate:"required,len=4,dive,required"`
	CorrectAnswer  int      `json:"correct_answer" validate:"min=0,max=3"`
	Explanation    string   `json:"explanation"`
	Aircraft       string   `json:"aircraft" validate:"required,aircraft"`
	Category       string   `json:"category" validate:"required"`
	Difficulty     string   `json:"difficulty" validate:"required,difficulty"`
	Reference      string   `json:"reference"`
	RegulationCode string   `json:"regulation_code"`
}

func (nq *NewQuestion) Validate() error {
	nq.Text = core.CleanString(nq.Text)
	nq.Category = core.CleanString(nq.Category)
	nq.Difficulty = NormalizeDifficulty(core.CleanString(nq.Difficulty, true /* lower */))
	return core.Validate.Struct(nq)
}

// UpdateQuestion defines what information may be provided to modify a bank Question.
// Zero-valued fields are left unchanged.
type UpdateQuestion struct {
	Text           string   `json:"text"`
	Options        []string `json:"options" validate:"omitempty,len=4,dive,required"`
	CorrectAnswer  *int     `json:"correct_answer" validate:"omitempty,min=0,max=3"`
	Explanation    *string  `json:"explanation"`
	Aircraft       string   `json:"aircraft" validate:"omitempty,aircraft"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty" validate:"omitempty,difficulty"`
	IsActive       *bool    `json:"is_active"`
	Reference      *string  `json:"reference"`
	RegulationCode *string  `json:"regulation_code"`
}

func (uq *UpdateQuestion) Validate() error {
	uq.Text = core.CleanString(uq.Text)
	uq.Category = core.CleanString(uq.Category)
	uq.Difficulty = NormalizeDifficulty(core.CleanString(uq.Difficulty, true /* lower */))
	return core.Validate.Struct(uq)
}

// QueryFilter applies AND operation on available fields when querying the bank.
type QueryFilter struct {
	Search     string `query:"search"`
	Aircraft   string `query:"aircraft"`
	Category   string `query:"category"`
	Difficulty string `query:"difficulty"`
	IsActive   *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Aircraft == "" && qf.Category == "" && qf.Difficulty == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Aircraft = core.CleanString(qf.Aircraft)
	qf.Category = core.CleanString(qf.Category)
	qf.Difficulty = NormalizeDifficulty(core.CleanString(qf.Difficulty, true /* lower */))
}
