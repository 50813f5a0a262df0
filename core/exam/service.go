package exam

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

var (
	// errors
	ErrNotFound      = errors.New("attempt not found")
	ErrAttemptClosed = errors.New("attempt is already finished")
	ErrNoQuestions   = errors.New("no questions match the requested exam")

	errQuestionNotInAttempt = "question is not part of this attempt"
)

type (
	Repository interface {
		CreateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		// GetAttemptByID returns the attempt with its answers populated.
		GetAttemptByID(ctx context.Context, id string) (Attempt, error)
		// SaveAnswer upserts on (attempt_id, question_id): re-answering a
		// question replaces the previous choice.
		SaveAnswer(ctx context.Context, ans Answer) error
		UpdateAttempt(ctx context.Context, att Attempt) (Attempt, error)
		// QueryAttemptsByUser returns attempts with answers, most recent first.
		QueryAttemptsByUser(ctx context.Context, userID string) ([]Attempt, error)
	}

	Service interface {
		Start(ctx context.Context, userID string, na NewAttempt) (Attempt, error)
		Get(ctx context.Context, userID, attemptID string) (Result, error)
		Answer(ctx context.Context, userID, attemptID string, sa SubmitAnswer) (Answer, error)
		Finish(ctx context.Context, userID, attemptID string) (Result, error)
		Progress(ctx context.Context, userID string) (Progress, error)
	}

	service struct {
		repo    Repository
		qsvc    question.Service
		logger  core.Logger
		nowFunc func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(logger core.Logger, repo Repository, qsvc question.Service) *service {
	return &service{
		repo:    repo,
		qsvc:    qsvc,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (svc *service) Start(ctx context.Context, userID string, na NewAttempt) (Attempt, error) {
	qs, err := svc.qsvc.LoadPractice(ctx, question.LoadOptions{
		Mode:          na.Mode,
		Category:      na.Category,
		Aircraft:      na.Aircraft,
		Difficulty:    na.Difficulty,
		QuestionCount: na.QuestionCount,
		ExamTitle:     na.ExamTitle,
	})
	if err != nil {
		return Attempt{}, errors.Wrap(err, "loading exam questions")
	}
	if len(qs) == 0 {
		return Attempt{}, ErrNoQuestions
	}

	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.ID
	}
	att := Attempt{
		ID:          uuid.NewString(),
		UserID:      userID,
		Mode:        na.Mode,
		Aircraft:    na.Aircraft,
		Category:    question.Normalize(na.Category, na.ExamTitle, na.Aircraft),
		Difficulty:  na.Difficulty,
		ExamTitle:   na.ExamTitle,
		QuestionIDs: ids,
		StartedAt:   svc.nowFunc().UTC(),
	}
	return svc.repo.CreateAttempt(ctx, att)
}

func (svc *service) Get(ctx context.Context, userID, attemptID string) (Result, error) {
	att, err := svc.getOwned(ctx, userID, attemptID)
	if err != nil {
		return Result{}, err
	}
	return Result{Attempt: att, Breakdown: breakdown(att.Answers)}, nil
}

func (svc *service) Answer(ctx context.Context, userID, attemptID string, sa SubmitAnswer) (Answer, error) {
	att, err := svc.getOwned(ctx, userID, attemptID)
	if err != nil {
		return Answer{}, err
	}
	if att.IsFinished() {
		return Answer{}, ErrAttemptClosed
	}
	if !contains(att.QuestionIDs, sa.QuestionID) {
		return Answer{}, core.NewValidationError(nil, core.FieldError{Field: "question_id", Error: errQuestionNotInAttempt})
	}

	resolved, err := svc.qsvc.Resolve(ctx, sa.QuestionID)
	if err != nil {
		return Answer{}, errors.Wrap(err, "resolving question")
	}
	q, ok := resolved[sa.QuestionID]
	if !ok {
		// snapshotted question has since been deleted from the bank
		return Answer{}, core.NewValidationError(nil, core.FieldError{Field: "question_id", Error: errQuestionNotInAttempt})
	}

	ans := Answer{
		AttemptID:  att.ID,
		QuestionID: q.ID,
		Category:   question.Normalize(q.Category),
		Selected:   *sa.Selected,
		IsCorrect:  *sa.Selected == q.CorrectAnswer,
		AnsweredAt: svc.nowFunc().UTC(),
	}
	if err = svc.repo.SaveAnswer(ctx, ans); err != nil {
		return Answer{}, errors.Wrap(err, "saving answer")
	}
	return ans, nil
}

func (svc *service) Finish(ctx context.Context, userID, attemptID string) (Result, error) {
	att, err := svc.getOwned(ctx, userID, attemptID)
	if err != nil {
		return Result{}, err
	}
	if att.IsFinished() {
		// finishing twice is a no-op
		return Result{Attempt: att, Breakdown: breakdown(att.Answers)}, nil
	}

	var correct int
	for _, ans := range att.Answers {
		if ans.IsCorrect {
			correct++
		}
	}
	// unanswered questions count against the score
	att.Score = null.Float64From(percent(correct, len(att.QuestionIDs)))
	att.FinishedAt = null.TimeFrom(svc.nowFunc().UTC())

	att, err = svc.repo.UpdateAttempt(ctx, att)
	if err != nil {
		return Result{}, errors.Wrap(err, "updating attempt")
	}
	return Result{Attempt: att, Breakdown: breakdown(att.Answers)}, nil
}

func (svc *service) Progress(ctx context.Context, userID string) (Progress, error) {
	attempts, err := svc.repo.QueryAttemptsByUser(ctx, userID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "querying attempts")
	}

	var prog Progress
	var scoreSum float64
	catTotals := make(map[string]*CategoryScore)
	days := make(map[string]struct{})

	for _, att := range attempts {
		prog.TotalAttempts++
		days[att.StartedAt.UTC().Format("2006-01-02")] = struct{}{}
		if att.IsFinished() {
			prog.FinishedAttempts++
			scoreSum += att.Score.Float64
		}
		for _, ans := range att.Answers {
			prog.QuestionsAnswered++
			cs, ok := catTotals[ans.Category]
			if !ok {
				cs = &CategoryScore{Category: ans.Category}
				catTotals[ans.Category] = cs
			}
			cs.Answered++
			if ans.IsCorrect {
				prog.CorrectAnswers++
				cs.Correct++
			}
		}
	}

	prog.Accuracy = percent(prog.CorrectAnswers, prog.QuestionsAnswered)
	if prog.FinishedAttempts > 0 {
		prog.AverageScore = scoreSum / float64(prog.FinishedAttempts)
	}
	prog.StreakDays = streak(days, svc.nowFunc().UTC())

	for _, cs := range catTotals {
		cs.Percent = percent(cs.Correct, cs.Answered)
		prog.PerCategory = append(prog.PerCategory, *cs)
	}
	sort.Slice(prog.PerCategory, func(i, j int) bool {
		return prog.PerCategory[i].Category < prog.PerCategory[j].Category
	})
	return prog, nil
}

func (svc *service) getOwned(ctx context.Context, userID, attemptID string) (Attempt, error) {
	att, err := svc.repo.GetAttemptByID(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	// attempts are private to their owner
	if att.UserID != userID {
		return Attempt{}, ErrNotFound
	}
	return att, nil
}

func breakdown(answers []Answer) []CategoryScore {
	totals := make(map[string]*CategoryScore)
	for _, ans := range answers {
		cs, ok := totals[ans.Category]
		if !ok {
			cs = &CategoryScore{Category: ans.Category}
			totals[ans.Category] = cs
		}
		cs.Answered++
		if ans.IsCorrect {
			cs.Correct++
		}
	}

	scores := make([]CategoryScore, 0, len(totals))
	for _, cs := range totals {
		cs.Percent = percent(cs.Correct, cs.Answered)
		scores = append(scores, *cs)
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Category < scores[j].Category })
	return scores
}

// streak counts consecutive practice days ending today or yesterday.
func streak(days map[string]struct{}, now time.Time) int {
	day := now.Truncate(24 * time.Hour)
	if _, ok := days[day.Format("2006-01-02")]; !ok {
		// a streak survives until the end of the following day
		day = day.AddDate(0, 0, -1)
	}

	var n int
	for {
		if _, ok := days[day.Format("2006-01-02")]; !ok {
			break
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
