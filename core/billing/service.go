package billing

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/user"
)

var (
	// errors
	ErrPlanNotFound         = errors.New("plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrAlreadySubscribed    = errors.New("user already has a live subscription")
	ErrSubscriptionClosed   = errors.New("subscription is canceled or expired")
)

type (
	Repository interface {
		QueryPlans(ctx context.Context) ([]Plan, error)
		GetPlanByID(ctx context.Context, id string) (Plan, error)
		GetPlanByCode(ctx context.Context, code string) (Plan, error)
		CreateSubscription(ctx context.Context, sub Subscription) (Subscription, error)
		GetSubscriptionByID(ctx context.Context, id string) (Subscription, error)
		// GetLiveSubscriptionByUser returns the user's newest subscription in a
		// live status (trialing, active, past_due or canceled-within-period).
		GetLiveSubscriptionByUser(ctx context.Context, userID string) (Subscription, error)
		UpdateSubscription(ctx context.Context, sub Subscription) (Subscription, error)
		// QuerySubscriptionsDue returns non-expired subscriptions whose period
		// ended at or before the deadline.
		QuerySubscriptionsDue(ctx context.Context, deadline time.Time) ([]Subscription, error)
	}

	Service interface {
		Plans(ctx context.Context) ([]Plan, error)
		Subscribe(ctx context.Context, usr user.User, sb Subscribe) (Subscription, error)
		GetForUser(ctx context.Context, userID string) (Subscription, error)
		RecordPayment(ctx context.Context, subID string) (Subscription, error)
		Cancel(ctx context.Context, userID string) (Subscription, error)
		HasAccess(ctx context.Context, userID string) (bool, error)
		// Expire marks every subscription past its period end as expired and
		// reports how many were swept.
		Expire(ctx context.Context) (int, error)
	}

	service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger
		nowFunc func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, logger core.Logger, repo Repository, mailSvc core.EmailService) *service {
	return &service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
		logger:  logger,
		nowFunc: time.Now,
	}
}

func (svc *service) Plans(ctx context.Context) ([]Plan, error) {
	return svc.repo.QueryPlans(ctx)
}

func (svc *service) Subscribe(ctx context.Context, usr user.User, sb Subscribe) (Subscription, error) {
	plan, err := svc.repo.GetPlanByCode(ctx, sb.PlanCode)
	if err != nil {
		if errors.Cause(err) == ErrPlanNotFound {
			return Subscription{}, core.NewValidationError(err, core.FieldError{Field: "plan_code", Error: err.Error()})
		}
		return Subscription{}, err
	}

	// one live subscription per user
	if _, err = svc.repo.GetLiveSubscriptionByUser(ctx, usr.ID); err == nil {
		return Subscription{}, ErrAlreadySubscribed
	} else if errors.Cause(err) != ErrSubscriptionNotFound {
		return Subscription{}, err
	}

	now := svc.nowFunc().UTC()
	sub := Subscription{
		ID:        uuid.NewString(),
		UserID:    usr.ID,
		PlanID:    plan.ID,
		StartedAt: now,
	}
	if plan.TrialDays > 0 {
		sub.Status = StatusTrialing
		sub.CurrentPeriodEnd = now.AddDate(0, 0, plan.TrialDays)
	} else {
		sub.Status = StatusActive
		sub.CurrentPeriodEnd = now.AddDate(0, 0, plan.IntervalDays)
	}

	sub, err = svc.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return Subscription{}, err
	}
	svc.sendReceiptMail(usr, plan, sub)
	return sub, nil
}

func (svc *service) GetForUser(ctx context.Context, userID string) (Subscription, error) {
	return svc.repo.GetLiveSubscriptionByUser(ctx, userID)
}

func (svc *service) RecordPayment(ctx context.Context, subID string) (Subscription, error) {
	sub, err := svc.repo.GetSubscriptionByID(ctx, subID)
	if err != nil {
		return Subscription{}, err
	}
	if sub.Status == StatusCanceled || sub.Status == StatusExpired {
		return Subscription{}, ErrSubscriptionClosed
	}
	plan, err := svc.repo.GetPlanByID(ctx, sub.PlanID)
	if err != nil {
		return Subscription{}, errors.Wrap(err, "finding subscription plan")
	}

	// extend from the period end when paid early, from now when late
	from := sub.CurrentPeriodEnd
	if now := svc.nowFunc().UTC(); now.After(from) {
		from = now
	}
	sub.Status = StatusActive
	sub.CurrentPeriodEnd = from.AddDate(0, 0, plan.IntervalDays)
	return svc.repo.UpdateSubscription(ctx, sub)
}

func (svc *service) Cancel(ctx context.Context, userID string) (Subscription, error) {
	sub, err := svc.repo.GetLiveSubscriptionByUser(ctx, userID)
	if err != nil {
		return Subscription{}, err
	}
	if sub.Status == StatusCanceled {
		return sub, nil
	}
	sub.Status = StatusCanceled
	sub.CanceledAt = null.TimeFrom(svc.nowFunc().UTC())
	return svc.repo.UpdateSubscription(ctx, sub)
}

func (svc *service) HasAccess(ctx context.Context, userID string) (bool, error) {
	sub, err := svc.repo.GetLiveSubscriptionByUser(ctx, userID)
	if err != nil {
		if errors.Cause(err) == ErrSubscriptionNotFound {
			return false, nil
		}
		return false, err
	}
	return sub.IsLive(svc.nowFunc().UTC()), nil
}

func (svc *service) Expire(ctx context.Context) (int, error) {
	now := svc.nowFunc().UTC()
	due, err := svc.repo.QuerySubscriptionsDue(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "querying due subscriptions")
	}

	var swept int
	for _, sub := range due {
		sub.Status = StatusExpired
		if _, err = svc.repo.UpdateSubscription(ctx, sub); err != nil {
			return swept, errors.Wrapf(err, "expiring subscription %s", sub.ID)
		}
		swept++
	}
	return swept, nil
}

func (svc *service) sendReceiptMail(usr user.User, plan Plan, sub Subscription) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      svc.conf.AppName + " - Subscription Receipt",
		TemplateName: "subscription-receipt",
		TemplateData: struct {
			Username  string
			PlanName  string
			Amount    string
			PeriodEnd string
		}{
			Username:  usr.Username,
			PlanName:  plan.Name,
			Amount:    plan.Price(),
			PeriodEnd: sub.CurrentPeriodEnd.Format("Jan 2, 2006"),
		},
	})
}
