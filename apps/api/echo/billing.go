package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/billing"
	"github.com/aeroprep/aeroprep/core/user"
)

type billingApi struct {
	conf   *core.Config
	svc    billing.Service
	usrSvc user.Service
}

func registerBillingAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, svc billing.Service, usrSvc user.Service) {
	api := billingApi{conf: conf, svc: svc, usrSvc: usrSvc}

	bg := g.Group("/billing", jwt)

	bg.GET("/plans", api.plans)
	bg.POST("/subscribe", api.subscribe)
	bg.GET("/subscription", api.subscription)
	bg.DELETE("/subscription", api.cancel)
	bg.POST("/payments", api.recordPayment, adminMiddleware())
}

// Handlers

func (api *billingApi) plans(ctx echo.Context) error {
	plans, err := api.svc.Plans(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying plans")
	}
	if plans == nil {
		plans = []billing.Plan{}
	}
	return ctx.JSON(http.StatusOK, plans)
}

func (api *billingApi) subscribe(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data billing.Subscribe
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Subscribe")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.Subscribe(ctx.Request().Context(), usr, data)
	if err != nil {
		if errors.Cause(err) == billing.ErrAlreadySubscribed {
			return echo.NewHTTPError(http.StatusConflict, billing.ErrAlreadySubscribed.Error())
		}
		return errors.Wrap(err, "subscribing")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *billingApi) subscription(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.GetForUser(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == billing.ErrSubscriptionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding subscription")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *billingApi) cancel(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	sub, err := api.svc.Cancel(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == billing.ErrSubscriptionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "canceling subscription")
	}
	return ctx.JSON(http.StatusOK, sub)
}

func (api *billingApi) recordPayment(ctx echo.Context) error {
	var data PaymentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PaymentRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sub, err := api.svc.RecordPayment(ctx.Request().Context(), data.SubscriptionID)
	if err != nil {
		switch errors.Cause(err) {
		case billing.ErrSubscriptionNotFound:
			return errHttpNotFound
		case billing.ErrSubscriptionClosed:
			return echo.NewHTTPError(http.StatusConflict, billing.ErrSubscriptionClosed.Error())
		}
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusOK, sub)
}

type PaymentRequest struct {
	SubscriptionID string `json:"subscription_id" validate:"required"`
}

func (pr *PaymentRequest) Validate() error {
	pr.SubscriptionID = core.CleanString(pr.SubscriptionID)
	return core.Validate.Struct(pr)
}
