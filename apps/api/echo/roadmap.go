package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core/roadmap"
)

type roadmapApi struct {
	deps ServerDeps
}

func registerRoadmapAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := roadmapApi{deps: deps}

	rg := g.Group("/roadmaps", jwt)
	rg.POST("", api.generate)
}

func (api *roadmapApi) generate(ctx echo.Context) error {
	var data roadmap.PlanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PlanRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	plan, err := api.deps.RoadmapGen.Generate(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == roadmap.ErrGenerationFailed {
			return errUpstreamFailed
		}
		return errors.Wrap(err, "generating roadmap")
	}
	return ctx.JSON(http.StatusCreated, plan)
}
