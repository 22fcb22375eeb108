package echoapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/doctorprep/backend/core"
	"github.com/doctorprep/backend/core/student"
)

type mediaApi struct {
	deps ServerDeps
}

func registerMediaAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := mediaApi{deps: deps}

	mg := g.Group("/media", jwt)
	mg.POST("/upload-url", api.presignUpload, adminMiddleware())
	mg.POST("/video-auth", api.authorizeVideos)
	mg.POST("/progress", api.recordProgress)
}

// Handlers

func (api *mediaApi) presignUpload(ctx echo.Context) error {
	if api.deps.Uploader == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "uploads not configured")
	}

	var data UploadURLRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UploadURLRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	ticket, err := api.deps.Uploader.PresignUpload(data.Filename, data.ContentType)
	if err != nil {
		return errors.Wrap(err, "presigning upload")
	}
	return ctx.JSON(http.StatusCreated, ticket)
}

// authorizeVideos sets the CDN access cookies on the response. Without a
// configured authorizer (local dev) it issues placeholder cookies so the
// frontend flow still works end to end.
func (api *mediaApi) authorizeVideos(ctx echo.Context) error {
	if api.deps.VideoAuth == nil {
		ctx.SetCookie(&http.Cookie{
			Name:    "CloudFront-Mock-Auth",
			Value:   "dev",
			Path:    "/",
			Expires: time.Now().Add(6 * time.Hour),
		})
		return ctx.JSON(http.StatusOK, VideoAuthResponse{Authorized: true, Mock: true})
	}

	cookies, err := api.deps.VideoAuth.AuthorizeVideos()
	if err != nil {
		return errors.Wrap(err, "authorizing videos")
	}
	for _, c := range cookies {
		ctx.SetCookie(c)
	}
	return ctx.JSON(http.StatusOK, VideoAuthResponse{Authorized: true})
}

// recordProgress is the watch-time heartbeat. It bumps the student's last
// active date; playback position itself is not persisted server-side.
func (api *mediaApi) recordProgress(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	studentID, err := claims.StudentID()
	if err != nil {
		return errHttpForbidden
	}

	var data WatchProgressRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to WatchProgressRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	now := time.Now().UTC()
	if _, err = api.deps.StudentSvc.UpdateProgress(studentID, student.UpdateProgress{LastActiveDate: &now}); err != nil {
		return errors.Wrap(err, "updating progress")
	}

	api.deps.Logger.Debug(fmt.Sprintf("watch progress: student=%d video=%s position=%ds", studentID, data.VideoKey, data.PositionSeconds))
	return ctx.NoContent(http.StatusNoContent)
}

type (
	UploadURLRequest struct {
		Filename    string `json:"filename" validate:"required"`
		ContentType string `json:"content_type" validate:"required"`
	}

	VideoAuthResponse struct {
		Authorized bool `json:"authorized"`
		Mock       bool `json:"mock,omitempty"`
	}

	WatchProgressRequest struct {
		VideoKey        string `json:"video_key" validate:"required"`
		PositionSeconds int    `json:"position_seconds" validate:"gte=0"`
	}
)

func (ur *UploadURLRequest) Validate(validate *validator.Validate) error {
	ur.Filename = core.CleanString(ur.Filename)
	ur.ContentType = core.CleanString(ur.ContentType)
	return validate.Struct(ur)
}

func (wr *WatchProgressRequest) Validate(validate *validator.Validate) error {
	wr.VideoKey = core.CleanString(wr.VideoKey)
	return validate.Struct(wr)
}
