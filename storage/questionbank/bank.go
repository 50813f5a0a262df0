// Package questionbank holds the static, read-only question sources the
// practice loader draws from. Tables are constructed once at init and never
// mutated.
package questionbank

import (
	"context"

	"github.com/aeroprep/aeroprep/core/question"
)

type staticSource struct {
	name  string
	table []question.Question
}

var _ question.Source = (*staticSource)(nil)

func (s staticSource) Name() string { return s.name }

func (s staticSource) Questions(context.Context) ([]question.Question, error) {
	return s.table, nil
}

// A320 returns the A320-family bank.
func A320() question.Source { return staticSource{name: "a320", table: a320Questions} }

// B737 returns the B737-family bank.
func B737() question.Source { return staticSource{name: "b737", table: b737Questions} }

// General returns the aircraft-independent bank.
func General() question.Source { return staticSource{name: "general", table: generalQuestions} }

// Fallback returns the reduced bank used when the primary sources fail.
func Fallback() question.Source { return staticSource{name: "fallback", table: fallbackQuestions} }

// Minimal returns the last-resort bank.
func Minimal() question.Source { return staticSource{name: "minimal", table: minimalQuestions} }

// DefaultSources returns the primary sources in registration order.
func DefaultSources() []question.Source {
	return []question.Source{A320(), B737(), General()}
}
