package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core/exam"
)

type examRepository struct {
	db *sqlx.DB
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *sqlx.DB) *examRepository {
	return &examRepository{db: db}
}

type attemptRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Mode        string         `db:"mode"`
	Aircraft    string         `db:"aircraft"`
	Category    string         `db:"category"`
	Difficulty  string         `db:"difficulty"`
	ExamTitle   string         `db:"exam_title"`
	QuestionIDs pq.StringArray `db:"question_ids"`
	StartedAt   time.Time      `db:"started_at"`
	FinishedAt  null.Time      `db:"finished_at"`
	Score       null.Float64   `db:"score"`
}

func (repo examRepository) row(att exam.Attempt) attemptRow {
	return attemptRow{
		ID:          att.ID,
		UserID:      att.UserID,
		Mode:        att.Mode,
		Aircraft:    att.Aircraft,
		Category:    att.Category,
		Difficulty:  att.Difficulty,
		ExamTitle:   att.ExamTitle,
		QuestionIDs: att.QuestionIDs,
		StartedAt:   att.StartedAt.UTC(),
		FinishedAt:  att.FinishedAt,
		Score:       att.Score,
	}
}

func (repo examRepository) unrow(row attemptRow) exam.Attempt {
	return exam.Attempt{
		ID:          row.ID,
		UserID:      row.UserID,
		Mode:        row.Mode,
		Aircraft:    row.Aircraft,
		Category:    row.Category,
		Difficulty:  row.Difficulty,
		ExamTitle:   row.ExamTitle,
		QuestionIDs: row.QuestionIDs,
		StartedAt:   row.StartedAt,
		FinishedAt:  row.FinishedAt,
		Score:       row.Score,
	}
}

func (repo examRepository) CreateAttempt(ctx context.Context, att exam.Attempt) (exam.Attempt, error) {
	const query = `
		INSERT INTO attempt (id, user_id, mode, aircraft, category, difficulty, exam_title,
		                     question_ids, started_at, finished_at, score)
		VALUES (:id, :user_id, :mode, :aircraft, :category, :difficulty, :exam_title,
		        :question_ids, :started_at, :finished_at, :score)`
	if _, err := repo.db.NamedExecContext(ctx, query, repo.row(att)); err != nil {
		return exam.Attempt{}, wrapDBErr(err, "inserting attempt")
	}
	return att, nil
}

func (repo examRepository) GetAttemptByID(ctx context.Context, id string) (exam.Attempt, error) {
	var row attemptRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM attempt WHERE id = $1`, id); err != nil {
		return exam.Attempt{}, trapNoRowsErr(err, exam.ErrNotFound, "finding attempt")
	}

	att := repo.unrow(row)
	answers, err := repo.queryAnswers(ctx, att.ID)
	if err != nil {
		return exam.Attempt{}, err
	}
	att.Answers = answers
	return att, nil
}

func (repo examRepository) SaveAnswer(ctx context.Context, ans exam.Answer) error {
	const query = `
		INSERT INTO attempt_answer (attempt_id, question_id, category, selected, is_correct, answered_at)
		VALUES (:attempt_id, :question_id, :category, :selected, :is_correct, :answered_at)
		ON CONFLICT (attempt_id, question_id) DO UPDATE
		SET selected = EXCLUDED.selected, is_correct = EXCLUDED.is_correct, answered_at = EXCLUDED.answered_at`
	if _, err := repo.db.NamedExecContext(ctx, query, ans); err != nil {
		return wrapDBErr(err, "saving answer")
	}
	return nil
}

func (repo examRepository) UpdateAttempt(ctx context.Context, att exam.Attempt) (exam.Attempt, error) {
	const query = `
		UPDATE attempt SET finished_at = $2, score = $3
		WHERE id = $1 RETURNING *`
	var row attemptRow
	if err := repo.db.GetContext(ctx, &row, query, att.ID, att.FinishedAt, att.Score); err != nil {
		return exam.Attempt{}, trapNoRowsErr(err, exam.ErrNotFound, "updating attempt")
	}

	updated := repo.unrow(row)
	updated.Answers = att.Answers
	return updated, nil
}

func (repo examRepository) QueryAttemptsByUser(ctx context.Context, userID string) ([]exam.Attempt, error) {
	var rows []attemptRow
	query := `SELECT * FROM attempt WHERE user_id = $1 ORDER BY started_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, wrapDBErr(err, "querying attempts")
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// fetch all answers in one round trip and bucket them per attempt
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var answers []exam.Answer
	ansQuery := `SELECT * FROM attempt_answer WHERE attempt_id = ANY($1) ORDER BY answered_at ASC`
	if err := repo.db.SelectContext(ctx, &answers, ansQuery, pq.Array(ids)); err != nil {
		return nil, wrapDBErr(err, "querying answers")
	}
	byAttempt := make(map[string][]exam.Answer, len(rows))
	for _, ans := range answers {
		byAttempt[ans.AttemptID] = append(byAttempt[ans.AttemptID], ans)
	}

	attempts := make([]exam.Attempt, 0, len(rows))
	for _, row := range rows {
		att := repo.unrow(row)
		att.Answers = byAttempt[att.ID]
		attempts = append(attempts, att)
	}
	return attempts, nil
}

func (repo examRepository) queryAnswers(ctx context.Context, attemptID string) ([]exam.Answer, error) {
	var answers []exam.Answer
	query := `SELECT * FROM attempt_answer WHERE attempt_id = $1 ORDER BY answered_at ASC`
	if err := repo.db.SelectContext(ctx, &answers, query, attemptID); err != nil {
		return nil, wrapDBErr(err, "querying answers")
	}
	return answers, nil
}
