package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaApi_presignUpload(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")

	body := marshallObj(t, UploadURLRequest{Filename: "lecture.mp4", ContentType: "video/mp4"})

	t.Run("admin only", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/media/upload-url", app.studentToken(t, std), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unavailable without an uploader", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/media/upload-url", app.adminToken(t), body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestMediaApi_authorizeVideos(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")

	rec := app.do(http.MethodPost, "/v1/media/video-auth", app.studentToken(t, std))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp VideoAuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Authorized)
	assert.True(t, resp.Mock)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "CloudFront-Mock-Auth", cookies[0].Name)
}

func TestMediaApi_recordProgress(t *testing.T) {
	app := setupApp(t)
	std := app.createStudent(t, "Awa", "awa@test.cd", "s3cr3t-pwd")
	stdToken := app.studentToken(t, std)

	t.Run("bumps last active date", func(t *testing.T) {
		body := marshallObj(t, WatchProgressRequest{VideoKey: "videos/cardio-101.mp4", PositionSeconds: 42})
		rec := app.do(http.MethodPost, "/v1/media/progress", stdToken, body)
		require.Equal(t, http.StatusNoContent, rec.Code)

		prog, err := app.stdSvc.GetOrCreateProgress(std.ID)
		require.NoError(t, err)
		assert.False(t, prog.LastActiveDate.IsZero())
	})

	t.Run("negative position rejected", func(t *testing.T) {
		body := marshallObj(t, WatchProgressRequest{VideoKey: "videos/cardio-101.mp4", PositionSeconds: -1})
		rec := app.do(http.MethodPost, "/v1/media/progress", stdToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin has no progress record", func(t *testing.T) {
		body := marshallObj(t, WatchProgressRequest{VideoKey: "videos/cardio-101.mp4", PositionSeconds: 10})
		rec := app.do(http.MethodPost, "/v1/media/progress", app.adminToken(t), body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
