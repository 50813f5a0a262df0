package question

import (
	"context"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
)

var ErrNotFound = errors.New("question not found")

type (
	// Repository is the persistent (authored) side of the question bank.
	Repository interface {
		CreateQuestion(ctx context.Context, q Question) (Question, error)
		GetQuestionByID(ctx context.Context, id string) (Question, error)
		// QueryQuestions applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Question.Text.
		QueryQuestions(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Question, error)
		UpdateQuestion(ctx context.Context, q Question, isActive *bool) (Question, error)
		DeleteQuestionsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nq NewQuestion) (Question, error)
		GetByID(ctx context.Context, id string) (Question, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Question, error)
		Update(ctx context.Context, id string, uq UpdateQuestion) (Question, error)
		Delete(ctx context.Context, ids ...string) error
		// Search fuzzy-matches needle against question text across the
		// authored bank and the static sources.
		Search(ctx context.Context, needle string, limit int) ([]Question, error)
		// Resolve indexes the merged bank (static + authored) by question ID.
		Resolve(ctx context.Context, ids ...string) (map[string]Question, error)
		LoadPractice(ctx context.Context, opts LoadOptions) ([]Question, error)
		Categories() []string
	}

	service struct {
		repo   Repository
		loader *Loader
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, loader *Loader) *service {
	return &service{repo: repo, loader: loader}
}

func (svc *service) Create(ctx context.Context, nq NewQuestion) (Question, error) {
	now := time.Now().UTC()
	q := Question{
		Text:           nq.Text,
		Options:        nq.Options,
		CorrectAnswer:  nq.CorrectAnswer,
		Explanation:    nq.Explanation,
		Aircraft:       nq.Aircraft,
		Category:       nq.Category,
		Difficulty:     nq.Difficulty,
		IsActive:       true,
		Reference:      null.NewString(nq.Reference, nq.Reference != ""),
		RegulationCode: null.NewString(nq.RegulationCode, nq.RegulationCode != ""),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateQuestion(ctx, q)
}

func (svc *service) GetByID(ctx context.Context, id string) (Question, error) {
	return svc.repo.GetQuestionByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Question, error) {
	filter.Clean()
	return svc.repo.QueryQuestions(ctx, filter, ordering)
}

func (svc *service) Update(ctx context.Context, id string, uq UpdateQuestion) (Question, error) {
	orig, err := svc.repo.GetQuestionByID(ctx, id)
	if err != nil {
		return Question{}, err
	}

	q := orig
	if uq.Text != "" {
		q.Text = uq.Text
	}
	if len(uq.Options) == 4 {
		q.Options = uq.Options
	}
	if uq.CorrectAnswer != nil {
		q.CorrectAnswer = *uq.CorrectAnswer
	}
	if uq.Explanation != nil {
		q.Explanation = *uq.Explanation
	}
	if uq.Aircraft != "" {
		q.Aircraft = uq.Aircraft
	}
	if uq.Category != "" {
		q.Category = uq.Category
	}
	if uq.Difficulty != "" {
		q.Difficulty = uq.Difficulty
	}
	if uq.Reference != nil {
		q.Reference = null.NewString(*uq.Reference, *uq.Reference != "")
	}
	if uq.RegulationCode != nil {
		q.RegulationCode = null.NewString(*uq.RegulationCode, *uq.RegulationCode != "")
	}
	q.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateQuestion(ctx, q, uq.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteQuestionsByID(ctx, ids...)
}

func (svc *service) Search(ctx context.Context, needle string, limit int) ([]Question, error) {
	needle = core.CleanString(needle)
	if needle == "" {
		return []Question{}, nil
	}

	all, err := svc.loader.loadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading questions for search")
	}
	authored, err := svc.repo.QueryQuestions(ctx, QueryFilter{}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying authored questions for search")
	}
	all = append(all, authored...)

	matched := lo.Filter(all, func(q Question, _ int) bool {
		return fuzzy.MatchNormalizedFold(needle, q.Text)
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (svc *service) Resolve(ctx context.Context, ids ...string) (map[string]Question, error) {
	all, err := svc.loader.loadAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading questions")
	}
	authored, err := svc.repo.QueryQuestions(ctx, QueryFilter{}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "querying authored questions")
	}
	all = append(all, authored...)

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	resolved := make(map[string]Question, len(ids))
	for _, q := range all {
		if _, ok := wanted[q.ID]; ok {
			resolved[q.ID] = q
		}
	}
	return resolved, nil
}

func (svc *service) LoadPractice(ctx context.Context, opts LoadOptions) ([]Question, error) {
	return svc.loader.LoadQuestions(ctx, opts)
}

func (svc *service) Categories() []string {
	return CategoryTags()
}
