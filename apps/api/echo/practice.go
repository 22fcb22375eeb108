package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/quiz"
)

type practiceApi struct {
	deps ServerDeps
}

func registerPracticeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := practiceApi{deps: deps}

	pg := g.Group("/practice", jwt)

	pg.POST("", api.start)

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("/selection", api.selectAnswer)
	dg.POST("/submit", api.submit)
	dg.POST("/next", api.next)
	dg.DELETE("", api.end)
}

// Handlers

func (api *practiceApi) start(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return errHttpForbidden
	}

	sess, err := api.deps.Quiz.Start(studentID)
	if err != nil {
		if errors.Cause(err) == quiz.ErrNoQuestions {
			return echo.NewHTTPError(http.StatusConflict, quiz.ErrNoQuestions.Error())
		}
		return errors.Wrap(err, "starting practice session")
	}

	snap, err := sess.View()
	if err != nil {
		return errors.Wrap(err, "viewing session")
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *practiceApi) retrieve(ctx echo.Context) error {
	sess, err := api.getSession(ctx)
	if err != nil {
		return err
	}
	snap, err := sess.View()
	if err != nil {
		return errors.Wrap(err, "viewing session")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *practiceApi) selectAnswer(ctx echo.Context) error {
	sess, err := api.getSession(ctx)
	if err != nil {
		return err
	}

	var data SelectAnswerRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectAnswerRequest")
	}

	if err := sess.Select(data.Selection); err != nil {
		switch errors.Cause(err) {
		case quiz.ErrInvalidLabel:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case quiz.ErrAlreadySubmitted:
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return errors.Wrap(err, "selecting answer")
	}

	snap, err := sess.View()
	if err != nil {
		return errors.Wrap(err, "viewing session")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *practiceApi) submit(ctx echo.Context) error {
	sess, err := api.getSession(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.Submit(); err != nil {
		switch errors.Cause(err) {
		case quiz.ErrNoSelection:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case quiz.ErrAlreadySubmitted:
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case quiz.ErrQuestionUnavailable:
			return errQuestionGone
		}
		return errors.Wrap(err, "submitting answer")
	}

	snap, err := sess.View()
	if err != nil {
		return errors.Wrap(err, "viewing session")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *practiceApi) next(ctx echo.Context) error {
	sess, err := api.getSession(ctx)
	if err != nil {
		return err
	}

	if err := sess.Next(); err != nil {
		if errors.Cause(err) == quiz.ErrNotSubmitted {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return errors.Wrap(err, "advancing session")
	}

	snap, err := sess.View()
	if err != nil {
		return errors.Wrap(err, "viewing session")
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *practiceApi) end(ctx echo.Context) error {
	sess, err := api.getSession(ctx)
	if err != nil {
		return err
	}
	api.deps.Quiz.End(sess.ID())
	return ctx.NoContent(http.StatusNoContent)
}

// getSession loads the addressed session and checks that it belongs to the
// caller; admins may inspect any session.
func (api *practiceApi) getSession(ctx echo.Context) (*quiz.Session, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}

	sess, err := api.deps.Quiz.Get(ctx.Param("id"))
	if err != nil {
		return nil, errHttpNotFound
	}

	if !claims.IsAdmin {
		studentID, err := claims.StudentID()
		if err != nil || sess.StudentID() != studentID {
			return nil, errHttpNotFound
		}
	}
	return sess, nil
}

type SelectAnswerRequest struct {
	Selection string `json:"selection"`
}
