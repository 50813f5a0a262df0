package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/user"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type mailRecorder struct {
	sent []*core.EmailMessage
}

func (m *mailRecorder) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

type repoFake struct {
	plans map[string]Plan // by code
	subs  map[string]Subscription
	now   func() time.Time
}

func newRepoFake(now func() time.Time, plans ...Plan) *repoFake {
	r := &repoFake{
		plans: make(map[string]Plan),
		subs:  make(map[string]Subscription),
		now:   now,
	}
	for _, p := range plans {
		r.plans[p.Code] = p
	}
	return r
}

func (r *repoFake) QueryPlans(context.Context) ([]Plan, error) {
	plans := make([]Plan, 0, len(r.plans))
	for _, p := range r.plans {
		plans = append(plans, p)
	}
	return plans, nil
}

func (r *repoFake) GetPlanByID(_ context.Context, id string) (Plan, error) {
	for _, p := range r.plans {
		if p.ID == id {
			return p, nil
		}
	}
	return Plan{}, ErrPlanNotFound
}

func (r *repoFake) GetPlanByCode(_ context.Context, code string) (Plan, error) {
	p, ok := r.plans[code]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func (r *repoFake) CreateSubscription(_ context.Context, sub Subscription) (Subscription, error) {
	r.subs[sub.ID] = sub
	return sub, nil
}

func (r *repoFake) GetSubscriptionByID(_ context.Context, id string) (Subscription, error) {
	sub, ok := r.subs[id]
	if !ok {
		return Subscription{}, ErrSubscriptionNotFound
	}
	return sub, nil
}

func (r *repoFake) GetLiveSubscriptionByUser(_ context.Context, userID string) (Subscription, error) {
	for _, sub := range r.subs {
		if sub.UserID != userID {
			continue
		}
		switch sub.Status {
		case StatusTrialing, StatusActive, StatusPastDue:
			return sub, nil
		case StatusCanceled:
			if r.now().Before(sub.CurrentPeriodEnd) {
				return sub, nil
			}
		}
	}
	return Subscription{}, ErrSubscriptionNotFound
}

func (r *repoFake) UpdateSubscription(_ context.Context, sub Subscription) (Subscription, error) {
	if _, ok := r.subs[sub.ID]; !ok {
		return Subscription{}, ErrSubscriptionNotFound
	}
	r.subs[sub.ID] = sub
	return sub, nil
}

func (r *repoFake) QuerySubscriptionsDue(_ context.Context, deadline time.Time) ([]Subscription, error) {
	var due []Subscription
	for _, sub := range r.subs {
		if sub.Status != StatusExpired && !sub.CurrentPeriodEnd.After(deadline) {
			due = append(due, sub)
		}
	}
	return due, nil
}

var (
	monthlyPlan = Plan{ID: "p1", Code: "monthly", Name: "Monthly", PriceCents: 1999, Currency: "USD", IntervalDays: 30}
	trialPlan   = Plan{ID: "p2", Code: "annual", Name: "Annual", PriceCents: 19900, Currency: "USD", IntervalDays: 365, TrialDays: 14}
)

func newTestService(now func() time.Time) (*service, *repoFake, *mailRecorder) {
	conf := &core.Config{AppName: "AeroPrep"}
	repo := newRepoFake(now, monthlyPlan, trialPlan)
	mails := &mailRecorder{}
	svc := NewService(conf, nopLogger{}, repo, mails)
	svc.nowFunc = now
	return svc, repo, mails
}

func TestService_subscribe(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, mails := newTestService(func() time.Time { return now })
	ctx := context.Background()
	usr := user.User{ID: "usr1", Name: "T", Email: "t@test.test"}

	sub, err := svc.Subscribe(ctx, usr, Subscribe{PlanCode: "monthly"})
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.CurrentPeriodEnd)

	// receipt email
	require.Len(t, mails.sent, 1)
	assert.Equal(t, "AeroPrep - Subscription Receipt", mails.sent[0].Subject)
	assert.Equal(t, "subscription-receipt", mails.sent[0].TemplateName)

	// single live subscription per user
	_, err = svc.Subscribe(ctx, usr, Subscribe{PlanCode: "annual"})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// unknown plan is a validation error
	_, err = svc.Subscribe(ctx, user.User{ID: "usr2"}, Subscribe{PlanCode: "lifetime"})
	var vErr *core.ValidationError
	assert.ErrorAs(t, err, &vErr)

	// plans with a trial start in trialing
	sub, err = svc.Subscribe(ctx, user.User{ID: "usr3", Email: "u3@test.test"}, Subscribe{PlanCode: "annual"})
	require.NoError(t, err)
	assert.Equal(t, StatusTrialing, sub.Status)
	assert.Equal(t, now.AddDate(0, 0, 14), sub.CurrentPeriodEnd)
}

func TestService_recordPayment(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(func() time.Time { return now })
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, user.User{ID: "usr1"}, Subscribe{PlanCode: "monthly"})
	require.NoError(t, err)
	firstEnd := sub.CurrentPeriodEnd

	// paying early extends from the period end
	sub, err = svc.RecordPayment(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, firstEnd.AddDate(0, 0, 30), sub.CurrentPeriodEnd)

	// paying late extends from now
	now = sub.CurrentPeriodEnd.AddDate(0, 0, 5)
	sub, err = svc.RecordPayment(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 30), sub.CurrentPeriodEnd)

	// payments on a canceled subscription are rejected
	_, err = svc.Cancel(ctx, "usr1")
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
}

func TestService_cancelKeepsAccessUntilPeriodEnd(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ := newTestService(func() time.Time { return now })
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, user.User{ID: "usr1"}, Subscribe{PlanCode: "monthly"})
	require.NoError(t, err)

	sub, err := svc.Cancel(ctx, "usr1")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, sub.Status)
	assert.True(t, sub.CanceledAt.Valid)

	ok, err := svc.HasAccess(ctx, "usr1")
	require.NoError(t, err)
	assert.True(t, ok, "access should last until the period end")

	now = sub.CurrentPeriodEnd.AddDate(0, 0, 1)
	ok, err = svc.HasAccess(ctx, "usr1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_hasAccessWithoutSubscription(t *testing.T) {
	svc, _, _ := newTestService(time.Now)
	ok, err := svc.HasAccess(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_expireSweep(t *testing.T) {
	now := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _ := newTestService(func() time.Time { return now })
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, user.User{ID: "usr1"}, Subscribe{PlanCode: "monthly"})
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, user.User{ID: "usr2"}, Subscribe{PlanCode: "annual"})
	require.NoError(t, err)

	// nothing due yet
	swept, err := svc.Expire(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)

	now = now.AddDate(0, 0, 31) // past monthly period, past annual trial
	swept, err = svc.Expire(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, swept)

	for _, sub := range repo.subs {
		assert.Equal(t, StatusExpired, sub.Status)
	}
}
