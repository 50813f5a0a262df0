package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aeroprep/aeroprep/core"
	"github.com/aeroprep/aeroprep/core/question"
)

type questionApi struct {
	svc question.Service
}

func registerQuestionAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc question.Service) {
	api := questionApi{svc: svc}

	qg := g.Group("/questions", jwt)

	// any authed user
	qg.GET("/practice", api.practice)
	qg.GET("/categories", api.categories)
	qg.GET("/search", api.search)

	// authoring endpoints
	sg := qg.Group("", staffMiddleware())
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update)
}

// Handlers

func (api *questionApi) practice(ctx echo.Context) error {
	var data PracticeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PracticeRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	questions, err := api.svc.LoadPractice(ctx.Request().Context(), question.LoadOptions{
		Mode:          data.Mode,
		Category:      data.Category,
		Aircraft:      data.Aircraft,
		Difficulty:    data.Difficulty,
		QuestionCount: data.QuestionCount,
		ExamTitle:     data.ExamTitle,
	})
	if err != nil {
		return errors.Wrap(err, "loading practice questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) categories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Categories())
}

func (api *questionApi) search(ctx echo.Context) error {
	var data SearchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SearchRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	questions, err := api.svc.Search(ctx.Request().Context(), data.Query, data.Limit)
	if err != nil {
		return errors.Wrap(err, "searching questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) query(ctx echo.Context) error {
	filter := new(question.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []question.Question{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	questions, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) create(ctx echo.Context) error {
	var data question.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *questionApi) retrieve(ctx echo.Context) error {
	q, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding question by ID")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) update(ctx echo.Context) error {
	var data question.UpdateQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	q, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting questions")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	PracticeRequest struct {
		Mode          string `json:"mode" query:"mode" validate:"omitempty,mode"`
		Category      string `json:"category" query:"category"`
		Aircraft      string `json:"aircraft" query:"aircraft"`
		Difficulty    string `json:"difficulty" query:"difficulty"`
		QuestionCount int    `json:"question_count" query:"question_count" validate:"required,min=1,max=100"`
		ExamTitle     string `json:"exam_title" query:"exam_title"`
	}

	SearchRequest struct {
		Query string `json:"q" query:"q" validate:"required"`
		Limit int    `json:"limit" query:"limit" validate:"omitempty,min=1,max=100"`
	}
)

func (pr *PracticeRequest) Validate() error {
	pr.Mode = core.CleanString(pr.Mode, true /* lower */)
	return core.Validate.Struct(pr)
}

func (sr *SearchRequest) Validate() error {
	sr.Query = core.CleanString(sr.Query)
	if sr.Limit == 0 {
		sr.Limit = 20
	}
	return core.Validate.Struct(sr)
}
