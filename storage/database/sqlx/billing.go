package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aeroprep/aeroprep/core/billing"
)

type billingRepository struct {
	db *sqlx.DB
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *sqlx.DB) *billingRepository {
	return &billingRepository{db: db}
}

func (repo billingRepository) QueryPlans(ctx context.Context) ([]billing.Plan, error) {
	var plans []billing.Plan
	if err := repo.db.SelectContext(ctx, &plans, `SELECT * FROM plan ORDER BY price_cents ASC`); err != nil {
		return nil, wrapDBErr(err, "querying plans")
	}
	return plans, nil
}

func (repo billingRepository) GetPlanByID(ctx context.Context, id string) (billing.Plan, error) {
	return repo.getPlan(ctx, "id = $1", id)
}

func (repo billingRepository) GetPlanByCode(ctx context.Context, code string) (billing.Plan, error) {
	return repo.getPlan(ctx, "code = $1", code)
}

func (repo billingRepository) getPlan(ctx context.Context, where string, arg interface{}) (billing.Plan, error) {
	var p billing.Plan
	if err := repo.db.GetContext(ctx, &p, `SELECT * FROM plan WHERE `+where, arg); err != nil {
		return billing.Plan{}, trapNoRowsErr(err, billing.ErrPlanNotFound, "finding plan")
	}
	return p, nil
}

func (repo billingRepository) CreateSubscription(ctx context.Context, sub billing.Subscription) (billing.Subscription, error) {
	const query = `
		INSERT INTO subscription (id, user_id, plan_id, status, started_at, current_period_end, canceled_at)
		VALUES (:id, :user_id, :plan_id, :status, :started_at, :current_period_end, :canceled_at)`
	if _, err := repo.db.NamedExecContext(ctx, query, sub); err != nil {
		return billing.Subscription{}, wrapDBErr(err, "inserting subscription")
	}
	return sub, nil
}

func (repo billingRepository) GetSubscriptionByID(ctx context.Context, id string) (billing.Subscription, error) {
	var sub billing.Subscription
	if err := repo.db.GetContext(ctx, &sub, `SELECT * FROM subscription WHERE id = $1`, id); err != nil {
		return billing.Subscription{}, trapNoRowsErr(err, billing.ErrSubscriptionNotFound, "finding subscription")
	}
	return sub, nil
}

func (repo billingRepository) GetLiveSubscriptionByUser(ctx context.Context, userID string) (billing.Subscription, error) {
	const query = `
		SELECT * FROM subscription
		WHERE user_id = $1
		  AND (status IN ('trialing', 'active', 'past_due')
		       OR (status = 'canceled' AND current_period_end > NOW()))
		ORDER BY started_at DESC LIMIT 1`
	var sub billing.Subscription
	if err := repo.db.GetContext(ctx, &sub, query, userID); err != nil {
		return billing.Subscription{}, trapNoRowsErr(err, billing.ErrSubscriptionNotFound, "finding live subscription")
	}
	return sub, nil
}

func (repo billingRepository) UpdateSubscription(ctx context.Context, sub billing.Subscription) (billing.Subscription, error) {
	const query = `
		UPDATE subscription SET status = $2, current_period_end = $3, canceled_at = $4
		WHERE id = $1 RETURNING *`
	var updated billing.Subscription
	err := repo.db.GetContext(ctx, &updated, query, sub.ID, sub.Status, sub.CurrentPeriodEnd.UTC(), sub.CanceledAt)
	if err != nil {
		return billing.Subscription{}, trapNoRowsErr(err, billing.ErrSubscriptionNotFound, "updating subscription")
	}
	return updated, nil
}

func (repo billingRepository) QuerySubscriptionsDue(ctx context.Context, deadline time.Time) ([]billing.Subscription, error) {
	const query = `
		SELECT * FROM subscription
		WHERE status <> 'expired' AND current_period_end <= $1
		ORDER BY current_period_end ASC`
	var subs []billing.Subscription
	if err := repo.db.SelectContext(ctx, &subs, query, deadline.UTC()); err != nil {
		return nil, wrapDBErr(err, "querying due subscriptions")
	}
	return subs, nil
}
