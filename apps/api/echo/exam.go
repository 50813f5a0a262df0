package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core/exam"
)

type examApi struct {
	svc exam.Service
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc exam.Service) {
	api := examApi{svc: svc}

	eg := g.Group("/exams", jwt)

	eg.POST("/attempts", api.start)
	eg.GET("/attempts/:id", api.retrieve)
	eg.PUT("/attempts/:id/answers", api.answer)
	eg.POST("/attempts/:id/finish", api.finish)
	eg.GET("/progress", api.progress)
}

// Handlers

func (api *examApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data exam.NewAttempt
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttempt")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.Start(ctx.Request().Context(), claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == exam.ErrNoQuestions {
			return echo.NewHTTPError(http.StatusBadRequest, exam.ErrNoQuestions.Error())
		}
		return errors.Wrap(err, "starting attempt")
	}
	return ctx.JSON(http.StatusCreated, att)
}

func (api *examApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.Get(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding attempt")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *examApi) answer(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data exam.SubmitAnswer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAnswer")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ans, err := api.svc.Answer(ctx.Request().Context(), claims.Subject, ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case exam.ErrNotFound:
			return errHttpNotFound
		case exam.ErrAttemptClosed:
			return echo.NewHTTPError(http.StatusConflict, exam.ErrAttemptClosed.Error())
		}
		return errors.Wrap(err, "submitting answer")
	}
	return ctx.JSON(http.StatusOK, ans)
}

func (api *examApi) finish(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	res, err := api.svc.Finish(ctx.Request().Context(), claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finishing attempt")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *examApi) progress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	prog, err := api.svc.Progress(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "computing progress")
	}
	return ctx.JSON(http.StatusOK, prog)
}
