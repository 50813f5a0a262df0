package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

type questionRepository struct {
	db *sqlx.DB
}

var _ question.Repository = (*questionRepository)(nil) // interface compliance check

func NewQuestionRepository(db *sqlx.DB) *questionRepository {
	return &questionRepository{db: db}
}

type questionRow struct {
	ID             string         `db:"id"`
	Text           string         `db:"text"`
	Options        pq.StringArray `db:"options"`
	CorrectAnswer  int            `db:"correct_answer"`
	Explanation    string         `db:"explanation"`
	Aircraft       string         `db:"aircraft"`
	Category       string         `db:"category"`
	Difficulty     string         `db:"difficulty"`
	IsActive       bool           `db:"is_active"`
	Reference      null.String    `db:"reference"`
	RegulationCode null.String    `db:"regulation_code"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (repo questionRepository) row(q question.Question) questionRow {
	return questionRow{
		ID:             q.ID,
		Text:           q.Text,
		Options:        q.Options,
		CorrectAnswer:  q.CorrectAnswer,
		Explanation:    q.Explanation,
		Aircraft:       q.Aircraft,
		Category:       q.Category,
		Difficulty:     q.Difficulty,
		IsActive:       q.IsActive,
		Reference:      q.Reference,
		RegulationCode: q.RegulationCode,
		CreatedAt:      q.CreatedAt.UTC(),
		UpdatedAt:      q.UpdatedAt.UTC(),
	}
}

func (repo questionRepository) unrow(row questionRow) question.Question {
	return question.Question{
		ID:             row.ID,
		Text:           row.Text,
		Options:        row.Options,
		CorrectAnswer:  row.CorrectAnswer,
		Explanation:    row.Explanation,
		Aircraft:       row.Aircraft,
		Category:       row.Category,
		Difficulty:     row.Difficulty,
		IsActive:       row.IsActive,
		Reference:      row.Reference,
		RegulationCode: row.RegulationCode,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}

func (repo questionRepository) CreateQuestion(ctx context.Context, q question.Question) (question.Question, error) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO question (id, text, options, correct_answer, explanation, aircraft, category, difficulty,
		                      is_active, reference, regulation_code, created_at, updated_at)
		VALUES (:id, :text, :options, :correct_answer, :explanation, :aircraft, :category, :difficulty,
		        :is_active, :reference, :regulation_code, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, repo.row(q)); err != nil {
		return question.Question{}, wrapDBErr(err, "inserting question")
	}
	return q, nil
}

func (repo questionRepository) GetQuestionByID(ctx context.Context, id string) (question.Question, error) {
	var row questionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM question WHERE id = $1`, id); err != nil {
		return question.Question{}, trapNoRowsErr(err, question.ErrNotFound, "finding question")
	}
	return repo.unrow(row), nil
}

func (repo questionRepository) QueryQuestions(ctx context.Context, filter question.QueryFilter, ordering []core.DBOrdering) ([]question.Question, error) {
	query := `SELECT * FROM question`
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		conds = append(conds, "text ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.Aircraft != "" {
		conds = append(conds, "aircraft = "+arg(filter.Aircraft))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.Difficulty != "" {
		conds = append(conds, "difficulty = "+arg(filter.Difficulty))
	}
	if filter.IsActive != nil {
		conds = append(conds, "is_active = "+arg(*filter.IsActive))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(ordering, "created_at DESC")

	var rows []questionRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, wrapDBErr(err, "querying questions")
	}
	questions := make([]question.Question, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, repo.unrow(row))
	}
	return questions, nil
}

func (repo questionRepository) UpdateQuestion(ctx context.Context, q question.Question, isActive *bool) (question.Question, error) {
	query := `
		UPDATE question SET
			text = $2, options = $3, correct_answer = $4, explanation = $5, aircraft = $6,
			category = $7, difficulty = $8, reference = $9, regulation_code = $10, updated_at = $11`
	args := []interface{}{
		q.ID, q.Text, pq.Array(q.Options), q.CorrectAnswer, q.Explanation, q.Aircraft,
		q.Category, q.Difficulty, q.Reference, q.RegulationCode, q.UpdatedAt.UTC(),
	}
	if isActive != nil {
		query += `, is_active = $12`
		args = append(args, *isActive)
	}
	query += ` WHERE id = $1 RETURNING *`

	var row questionRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return question.Question{}, trapNoRowsErr(err, question.ErrNotFound, "updating question")
	}
	return repo.unrow(row), nil
}

func (repo questionRepository) DeleteQuestionsByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM question WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return wrapDBErr(err, "deleting questions")
	}
	return nil
}

// Source adapts the authored bank to the practice loader.
func (repo questionRepository) Source() question.Source {
	active := true
	return question.SourceFunc{
		SourceName: "database",
		Load: func(ctx context.Context) ([]question.Question, error) {
			return repo.QueryQuestions(ctx, question.QueryFilter{IsActive: &active}, nil)
		},
	}
}
