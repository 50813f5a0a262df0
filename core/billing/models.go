package billing

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/aeroprep/aeroprep/core"
)

// Subscription statuses
const (
	StatusTrialing = "trialing"
	StatusActive   = "active"
	StatusPastDue  = "past_due"
	StatusCanceled = "canceled"
	StatusExpired  = "expired"
)

type (
	Plan struct {
		ID           string    `json:"id" db:"id"`
		Code         string    `json:"code" db:"code"`
		Name         string    `json:"name" db:"name"`
		PriceCents   int       `json:"price_cents" db:"price_cents"`
		Currency     string    `json:"currency" db:"currency"`
		IntervalDays int       `json:"interval_days" db:"interval_days"`
		TrialDays    int       `json:"trial_days" db:"trial_days"`
		CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	}

	// Subscription is the local subscription ledger; payment collection
	// happens in an external processor.
	Subscription struct {
		ID               string    `json:"id" db:"id"`
		UserID           string    `json:"user_id" db:"user_id"`
		PlanID           string    `json:"plan_id" db:"plan_id"`
		Status           string    `json:"status" db:"status"`
		StartedAt        time.Time `json:"started_at" db:"started_at"` // UTC
		CurrentPeriodEnd time.Time `json:"current_period_end" db:"current_period_end"`
		CanceledAt       null.Time `json:"canceled_at" db:"canceled_at"`
	}
)

// IsLive reports whether the subscription still grants access at t: trialing
// or active, or canceled with the paid period not yet ended.
func (s *Subscription) IsLive(t time.Time) bool {
	switch s.Status {
	case StatusTrialing, StatusActive:
		return true
	case StatusCanceled:
		return t.Before(s.CurrentPeriodEnd)
	}
	return false
}

// Price renders the plan price for receipts, e.g. "19.99 USD".
func (p *Plan) Price() string {
	return fmt.Sprintf("%d.%02d %s", p.PriceCents/100, p.PriceCents%100, p.Currency)
}

// Subscribe contains information needed to open a Subscription.
type Subscribe struct {
	PlanCode string `json:"plan_code" validate:"required"`
}

func (sb *Subscribe) Validate() error {
	sb.PlanCode = core.CleanString(sb.PlanCode, true /* lower */)
	return core.Validate.Struct(sb)
}
