package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/question"
)

type questionApi struct {
	deps ServerDeps
}

func registerQuestionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := questionApi{deps: deps}

	qg := g.Group("/questions", jwt)

	qg.GET("", api.query)
	qg.GET("/categories", api.queryCategories)
	qg.GET("/stats", api.retrieveStats)
	qg.POST("", api.create, adminMiddleware())

	dg := qg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.POST("/answers", api.submitAnswer)
}

// Handlers

func (api *questionApi) query(ctx echo.Context) error {
	var (
		questions []question.Question
		err       error
	)
	switch {
	case ctx.QueryParam("category") != "":
		questions, err = api.deps.QuestionSvc.FilterByCategory(ctx.QueryParam("category"))
	case ctx.QueryParam("difficulty") != "":
		questions, err = api.deps.QuestionSvc.FilterByDifficulty(ctx.QueryParam("difficulty"))
	default:
		questions, err = api.deps.QuestionSvc.QueryAll()
	}
	if err != nil {
		return errors.Wrap(err, "querying questions")
	}
	if questions == nil {
		questions = []question.Question{}
	}
	return ctx.JSON(http.StatusOK, questions)
}

func (api *questionApi) queryCategories(ctx echo.Context) error {
	categories, err := api.deps.QuestionSvc.Categories()
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	if categories == nil {
		categories = []string{}
	}
	return ctx.JSON(http.StatusOK, categories)
}

func (api *questionApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	q, err := api.deps.QuestionSvc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) create(ctx echo.Context) error {
	var data question.NewQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuestionSvc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *questionApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	orig, err := api.deps.QuestionSvc.GetByID(id)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting question")
	}

	var data question.UpdateQuestion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateQuestion")
	}
	if err := data.Validate(orig, api.deps.Validate); err != nil {
		return err
	}

	q, err := api.deps.QuestionSvc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating question")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *questionApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	deleted, err := api.deps.QuestionSvc.Delete(id)
	if err != nil {
		return errors.Wrap(err, "deleting question")
	}
	if !deleted {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *questionApi) submitAnswer(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return errHttpForbidden
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data SubmitAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SubmitAnswerRequest")
	}

	verdict, err := api.deps.QuestionSvc.SubmitAnswer(studentID, id, data.SelectedAnswer)
	if err != nil {
		if errors.Cause(err) == question.ErrNotFound {
			return errHttpNotFound
		}
		return err
	}
	return ctx.JSON(http.StatusOK, verdict)
}

func (api *questionApi) retrieveStats(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return errHttpForbidden
	}

	stats, err := api.deps.QuestionSvc.StudentStats(studentID)
	if err != nil {
		return errors.Wrap(err, "getting student stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

type SubmitAnswerRequest struct {
	SelectedAnswer string `json:"selected_answer"`
}
