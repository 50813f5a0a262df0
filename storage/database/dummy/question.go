package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

type questionRepository struct {
	db *questionTable
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *DB) question.Repository {
	return &questionRepository{db: db.question}
}

func (repo *questionRepository) query() []question.Question {
	questions := make([]question.Question, 0, len(repo.db.table))
	for _, q := range repo.db.table {
		questions = append(questions, *q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].CreatedAt.After(questions[j].CreatedAt) })
	return questions
}

func (repo *questionRepository) CreateQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *questionRepository) GetQuestionByID(ctx context.Context, id string) (question.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if q, ok := repo.db.table[id]; ok {
		return *q, nil
	}
	return question.Question{}, question.ErrNotFound
}

func (repo *questionRepository) QueryQuestions(ctx context.Context, filter question.QueryFilter, ordering []core.DBOrdering) ([]question.Question, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var questions []question.Question
	search := strings.ToLower(filter.Search)
	for _, q := range repo.query() {
		if search != "" && !strings.Contains(strings.ToLower(q.Text), search) {
			continue
		}
		if filter.Aircraft != "" && q.Aircraft != filter.Aircraft {
			continue
		}
		if filter.Category != "" && q.Category != filter.Category {
			continue
		}
		if filter.Difficulty != "" && q.Difficulty != filter.Difficulty {
			continue
		}
		if filter.IsActive != nil && q.IsActive != *filter.IsActive {
			continue
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func (repo *questionRepository) UpdateQuestion(ctx context.Context, q question.Question, isActive *bool) (question.Question, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[q.ID]
	if !ok {
		return question.Question{}, question.ErrNotFound
	}
	if isActive != nil {
		q.IsActive = *isActive
	} else {
		q.IsActive = orig.IsActive
	}
	q.CreatedAt = orig.CreatedAt
	repo.db.table[q.ID] = &q
	return q, nil
}

func (repo *questionRepository) DeleteQuestionsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
