package questionbank

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core/question"
)

// bankEpoch stamps every static record; the tables predate per-row authoring.
var bankEpoch = time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)

func newBankQuestion(id, aircraft, category, difficulty, text string, options [4]string, correct int, explanation string, ref ...string) question.Question {
	q := question.Question{
		ID:            id,
		Text:          text,
		Options:       options[:],
		CorrectAnswer: correct,
		Explanation:   explanation,
		Aircraft:      aircraft,
		Category:      category,
		Difficulty:    difficulty,
		IsActive:      true,
		CreatedAt:     bankEpoch,
		UpdatedAt:     bankEpoch,
	}
	if len(ref) > 0 {
		q.Reference = null.StringFrom(ref[0])
	}
	if len(ref) > 1 {
		q.RegulationCode = null.StringFrom(ref[1])
	}
	return q
}
