package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aeroprep/aeroprep/core/billing"
)

type billingRepository struct {
	db      *billingTable
	nowFunc func() time.Time
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *DB) billing.Repository {
	return &billingRepository{db: db.billing, nowFunc: time.Now}
}

func (repo *billingRepository) QueryPlans(ctx context.Context) ([]billing.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	plans := make([]billing.Plan, 0, len(repo.db.plans))
	for _, p := range repo.db.plans {
		plans = append(plans, *p)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].PriceCents < plans[j].PriceCents })
	return plans, nil
}

// SeedPlan registers a plan, for dev mode and tests.
func (repo *billingRepository) SeedPlan(p billing.Plan) billing.Plan {
	repo.db.Lock()
	defer repo.db.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	repo.db.plans[p.ID] = &p
	return p
}

func (repo *billingRepository) GetPlanByID(ctx context.Context, id string) (billing.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if p, ok := repo.db.plans[id]; ok {
		return *p, nil
	}
	return billing.Plan{}, billing.ErrPlanNotFound
}

func (repo *billingRepository) GetPlanByCode(ctx context.Context, code string) (billing.Plan, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, p := range repo.db.plans {
		if p.Code == code {
			return *p, nil
		}
	}
	return billing.Plan{}, billing.ErrPlanNotFound
}

func (repo *billingRepository) CreateSubscription(ctx context.Context, sub billing.Subscription) (billing.Subscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	repo.db.subs[sub.ID] = &sub
	return sub, nil
}

func (repo *billingRepository) GetSubscriptionByID(ctx context.Context, id string) (billing.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.db.subs[id]; ok {
		return *sub, nil
	}
	return billing.Subscription{}, billing.ErrSubscriptionNotFound
}

func (repo *billingRepository) GetLiveSubscriptionByUser(ctx context.Context, userID string) (billing.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	now := repo.nowFunc().UTC()
	var live []billing.Subscription
	for _, sub := range repo.db.subs {
		if sub.UserID != userID {
			continue
		}
		switch sub.Status {
		case billing.StatusTrialing, billing.StatusActive, billing.StatusPastDue:
			live = append(live, *sub)
		case billing.StatusCanceled:
			if now.Before(sub.CurrentPeriodEnd) {
				live = append(live, *sub)
			}
		}
	}
	if len(live) == 0 {
		return billing.Subscription{}, billing.ErrSubscriptionNotFound
	}
	sort.Slice(live, func(i, j int) bool { return live[i].StartedAt.After(live[j].StartedAt) })
	return live[0], nil
}

func (repo *billingRepository) UpdateSubscription(ctx context.Context, sub billing.Subscription) (billing.Subscription, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.subs[sub.ID]
	if !ok {
		return billing.Subscription{}, billing.ErrSubscriptionNotFound
	}
	orig.Status = sub.Status
	orig.CurrentPeriodEnd = sub.CurrentPeriodEnd
	orig.CanceledAt = sub.CanceledAt
	return *orig, nil
}

func (repo *billingRepository) QuerySubscriptionsDue(ctx context.Context, deadline time.Time) ([]billing.Subscription, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var due []billing.Subscription
	for _, sub := range repo.db.subs {
		if sub.Status == billing.StatusExpired {
			continue
		}
		if !sub.CurrentPeriodEnd.After(deadline) {
			due = append(due, *sub)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].CurrentPeriodEnd.Before(due[j].CurrentPeriodEnd) })
	return due, nil
}
