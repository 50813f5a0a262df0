package exam

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// questionServiceStub serves a fixed bank.
type questionServiceStub struct {
	question.Service
	bank []question.Question
}

func (s *questionServiceStub) LoadPractice(context.Context, question.LoadOptions) ([]question.Question, error) {
	return s.bank, nil
}

func (s *questionServiceStub) Resolve(_ context.Context, ids ...string) (map[string]question.Question, error) {
	resolved := make(map[string]question.Question)
	for _, q := range s.bank {
		for _, id := range ids {
			if q.ID == id {
				resolved[q.ID] = q
			}
		}
	}
	return resolved, nil
}

// repoFake is an in-memory Repository.
type repoFake struct {
	attempts map[string]Attempt
	answers  map[string]map[string]Answer // attemptID -> questionID -> Answer
}

func newRepoFake() *repoFake {
	return &repoFake{
		attempts: make(map[string]Attempt),
		answers:  make(map[string]map[string]Answer),
	}
}

func (r *repoFake) CreateAttempt(_ context.Context, att Attempt) (Attempt, error) {
	r.attempts[att.ID] = att
	return att, nil
}

func (r *repoFake) GetAttemptByID(_ context.Context, id string) (Attempt, error) {
	att, ok := r.attempts[id]
	if !ok {
		return Attempt{}, ErrNotFound
	}
	for _, ans := range r.answers[id] {
		att.Answers = append(att.Answers, ans)
	}
	return att, nil
}

func (r *repoFake) SaveAnswer(_ context.Context, ans Answer) error {
	if r.answers[ans.AttemptID] == nil {
		r.answers[ans.AttemptID] = make(map[string]Answer)
	}
	r.answers[ans.AttemptID][ans.QuestionID] = ans
	return nil
}

func (r *repoFake) UpdateAttempt(ctx context.Context, att Attempt) (Attempt, error) {
	stored := r.attempts[att.ID]
	stored.FinishedAt = att.FinishedAt
	stored.Score = att.Score
	r.attempts[att.ID] = stored
	return r.GetAttemptByID(ctx, att.ID)
}

func (r *repoFake) QueryAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error) {
	var attempts []Attempt
	for id, att := range r.attempts {
		if att.UserID == userID {
			full, _ := r.GetAttemptByID(ctx, id)
			attempts = append(attempts, full)
		}
	}
	return attempts, nil
}

func testBank() []question.Question {
	mk := func(id, category string, correct int) question.Question {
		return question.Question{
			ID:            id,
			Text:          "question " + id,
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: correct,
			Aircraft:      question.AircraftGeneral,
			Category:      category,
			Difficulty:    question.DifficultyBasic,
			IsActive:      true,
		}
	}
	return []question.Question{
		mk("q1", "Electrical", 0),
		mk("q2", "Electrical", 1),
		mk("q3", "Hydraulics", 2),
		mk("q4", "Hydraulics", 3),
	}
}

func intPtr(i int) *int { return &i }

func TestService_attemptLifecycle(t *testing.T) {
	svc := NewService(nopLogger{}, newRepoFake(), &questionServiceStub{bank: testBank()})
	ctx := context.Background()

	att, err := svc.Start(ctx, "usr1", NewAttempt{QuestionCount: 4, Category: "Sistema Eléctrico"})
	require.NoError(t, err)
	assert.Len(t, att.QuestionIDs, 4)
	assert.Equal(t, "electrical", att.Category)
	assert.False(t, att.IsFinished())

	// correct answer
	ans, err := svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q1", Selected: intPtr(0)})
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)
	assert.Equal(t, "electrical", ans.Category)

	// wrong answer, then corrected: latest wins
	_, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q3", Selected: intPtr(0)})
	require.NoError(t, err)
	ans, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q3", Selected: intPtr(2)})
	require.NoError(t, err)
	assert.True(t, ans.IsCorrect)

	// a question outside the snapshot is rejected
	_, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q99", Selected: intPtr(0)})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)

	res, err := svc.Finish(ctx, "usr1", att.ID)
	require.NoError(t, err)
	assert.True(t, res.Attempt.IsFinished())
	assert.InDelta(t, 50.0, res.Attempt.Score.Float64, 0.001) // 2 of 4 snapshotted
	require.Len(t, res.Breakdown, 2)
	assert.Equal(t, "electrical", res.Breakdown[0].Category)
	assert.Equal(t, "hydraulics", res.Breakdown[1].Category)

	// finishing twice is a no-op
	res2, err := svc.Finish(ctx, "usr1", att.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Attempt.Score, res2.Attempt.Score)

	// no answers on a closed attempt
	_, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q2", Selected: intPtr(1)})
	assert.ErrorIs(t, err, ErrAttemptClosed)
}

func TestService_attemptOwnership(t *testing.T) {
	svc := NewService(nopLogger{}, newRepoFake(), &questionServiceStub{bank: testBank()})
	ctx := context.Background()

	att, err := svc.Start(ctx, "usr1", NewAttempt{QuestionCount: 2})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "usr2", att.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Answer(ctx, "usr2", att.ID, SubmitAnswer{QuestionID: "q1", Selected: intPtr(0)})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Finish(ctx, "usr2", att.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_progress(t *testing.T) {
	repo := newRepoFake()
	svc := NewService(nopLogger{}, repo, &questionServiceStub{bank: testBank()})
	ctx := context.Background()

	now := time.Date(2023, 6, 10, 15, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return now }

	// two finished attempts on consecutive days, one open today
	for i, day := range []int{8, 9} {
		svc.nowFunc = func() time.Time { return time.Date(2023, 6, day, 10, 0, 0, 0, time.UTC) }
		att, err := svc.Start(ctx, "usr1", NewAttempt{QuestionCount: 4})
		require.NoError(t, err)
		_, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q1", Selected: intPtr(0)})
		require.NoError(t, err)
		if i == 0 {
			_, err = svc.Answer(ctx, "usr1", att.ID, SubmitAnswer{QuestionID: "q3", Selected: intPtr(1)})
			require.NoError(t, err)
		}
		_, err = svc.Finish(ctx, "usr1", att.ID)
		require.NoError(t, err)
	}
	svc.nowFunc = func() time.Time { return now }
	_, err := svc.Start(ctx, "usr1", NewAttempt{QuestionCount: 4})
	require.NoError(t, err)

	prog, err := svc.Progress(ctx, "usr1")
	require.NoError(t, err)
	assert.Equal(t, 3, prog.TotalAttempts)
	assert.Equal(t, 2, prog.FinishedAttempts)
	assert.Equal(t, 3, prog.QuestionsAnswered)
	assert.Equal(t, 2, prog.CorrectAnswers)
	assert.InDelta(t, 66.666, prog.Accuracy, 0.01)
	assert.InDelta(t, 25.0, prog.AverageScore, 0.001) // both finished attempts scored 1 of 4
	assert.Equal(t, 3, prog.StreakDays)

	// another user's history is empty
	other, err := svc.Progress(ctx, "usr2")
	require.NoError(t, err)
	assert.Zero(t, other.TotalAttempts)
	assert.Zero(t, other.Accuracy)
}
