package question

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/aeroprep/aeroprep/core"
)

// Criteria is an ephemeral per-request value; it is never persisted.
type Criteria struct {
	Mode          string
	Categories    []string // canonical tags; empty or containing "all" disables the stage
	Aircraft      string
	Difficulty    string
	QuestionCount int
}

// A strategy narrows a question list down according to one Criteria field.
// Strategies never mutate their input records.
type strategy interface {
	filter(qs []Question, c Criteria) ([]Question, error)
}

type (
	aircraftStrategy   struct{}
	categoryStrategy   struct{}
	difficultyStrategy struct{}
	modeStrategy       struct {
		rng *rand.Rand
	}
)

func (aircraftStrategy) filter(qs []Question, c Criteria) ([]Question, error) {
	target := core.CleanString(c.Aircraft)
	if target == "" || strings.EqualFold(target, AircraftAll) {
		return qs, nil
	}
	return lo.Filter(qs, func(q Question, _ int) bool {
		return q.Aircraft == target || q.Aircraft == AircraftGeneral
	}), nil
}

func (categoryStrategy) filter(qs []Question, c Criteria) ([]Question, error) {
	if len(c.Categories) == 0 || lo.Contains(c.Categories, "all") {
		return qs, nil
	}
	return lo.Filter(qs, func(q Question, _ int) bool {
		label := sanitizeLabel(q.Category)
		tag := Normalize(q.Category)
		for _, target := range c.Categories {
			// a question matches when its raw label normalizes to the target
			// tag, or when the two labels match under the shared three-test.
			if tag == strings.TrimSpace(target) || labelsMatch(label, sanitizeLabel(target)) {
				return true
			}
		}
		return false
	}), nil
}

func (difficultyStrategy) filter(qs []Question, c Criteria) ([]Question, error) {
	target := NormalizeDifficulty(core.CleanString(c.Difficulty, true /* lower */))
	if target == "" || target == "all" {
		return qs, nil
	}
	return lo.Filter(qs, func(q Question, _ int) bool {
		return NormalizeDifficulty(q.Difficulty) == target
	}), nil
}

func (s modeStrategy) filter(qs []Question, c Criteria) ([]Question, error) {
	switch c.Mode {
	case ModeReview:
		// deterministic thinning: every third question by original index
		return lo.Filter(qs, func(_ Question, i int) bool { return i%3 == 0 }), nil
	case ModeTimed:
		shuffled := make([]Question, len(qs))
		copy(shuffled, qs)
		s.rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		return shuffled, nil
	case "", ModePractice:
		return qs, nil
	default:
		return nil, errors.Errorf("unknown mode %q", c.Mode)
	}
}

// Filterer applies the filter strategies to the question collection it was
// constructed with, in a fixed order: aircraft, category, difficulty, mode.
type Filterer struct {
	questions []Question
	stages    []namedStage
	logger    core.Logger
}

type namedStage struct {
	name string
	strategy
}

// FiltererOption customizes a Filterer.
type FiltererOption func(*Filterer)

// WithRand injects the random source used by timed-mode shuffling.
func WithRand(rng *rand.Rand) FiltererOption {
	return func(f *Filterer) {
		for i, st := range f.stages {
			if _, ok := st.strategy.(modeStrategy); ok {
				f.stages[i].strategy = modeStrategy{rng: rng}
			}
		}
	}
}

func NewFilterer(questions []Question, logger core.Logger, opts ...FiltererOption) *Filterer {
	f := &Filterer{
		questions: questions,
		logger:    logger,
		stages: []namedStage{
			{"aircraft", aircraftStrategy{}},
			{"category", categoryStrategy{}},
			{"difficulty", difficultyStrategy{}},
			{"mode", modeStrategy{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns at most c.QuestionCount questions matching c; fewer when the
// filtered set is smaller, an empty list when nothing matches. It never errors:
// a failing stage is logged and skipped (its input passes through unchanged).
func (f *Filterer) Filter(c Criteria) []Question {
	qs := f.questions
	for _, stage := range f.stages {
		filtered, err := stage.filter(qs, c)
		if err != nil {
			if f.logger != nil {
				f.logger.Warn("question filter stage "+stage.name+" skipped: "+err.Error(), err)
			}
			continue
		}
		qs = filtered
	}

	if c.QuestionCount > 0 && len(qs) > c.QuestionCount {
		qs = qs[:c.QuestionCount]
	}
	return qs
}
