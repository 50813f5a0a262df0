package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/aeroprep/aeroprep/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) CreateAttempt(ctx context.Context, att exam.Attempt) (exam.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	stored := att
	stored.Answers = nil
	repo.db.attempts[att.ID] = &stored
	return att, nil
}

func (repo *examRepository) GetAttemptByID(ctx context.Context, id string) (exam.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	att, ok := repo.db.attempts[id]
	if !ok {
		return exam.Attempt{}, exam.ErrNotFound
	}
	out := *att
	out.Answers = repo.queryAnswers(id)
	return out, nil
}

func (repo *examRepository) SaveAnswer(ctx context.Context, ans exam.Answer) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.answers[ans.AttemptID+"/"+ans.QuestionID] = ans
	return nil
}

func (repo *examRepository) UpdateAttempt(ctx context.Context, att exam.Attempt) (exam.Attempt, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.attempts[att.ID]
	if !ok {
		return exam.Attempt{}, exam.ErrNotFound
	}
	orig.FinishedAt = att.FinishedAt
	orig.Score = att.Score

	out := *orig
	out.Answers = att.Answers
	return out, nil
}

func (repo *examRepository) QueryAttemptsByUser(ctx context.Context, userID string) ([]exam.Attempt, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var attempts []exam.Attempt
	for _, att := range repo.db.attempts {
		if att.UserID != userID {
			continue
		}
		out := *att
		out.Answers = repo.queryAnswers(att.ID)
		attempts = append(attempts, out)
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].StartedAt.After(attempts[j].StartedAt) })
	return attempts, nil
}

// queryAnswers assumes the caller holds at least a read lock.
func (repo *examRepository) queryAnswers(attemptID string) []exam.Answer {
	var answers []exam.Answer
	for _, ans := range repo.db.answers {
		if ans.AttemptID == attemptID {
			answers = append(answers, ans)
		}
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].AnsweredAt.Before(answers[j].AnsweredAt) })
	return answers
}
