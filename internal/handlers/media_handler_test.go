package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ats-ng/scmc-video-upload-api/internal/handlers"
	"github.com/ats-ng/scmc-video-upload-api/internal/index"
	"github.com/ats-ng/scmc-video-upload-api/internal/service"
	"github.com/ats-ng/scmc-video-upload-api/internal/storage"
)

func newApp() *fiber.App {
	store := storage.NewMemStore()
	svc := service.New(store, index.New(store, "media_index.json"), zap.NewNop().Sugar())
	h := handlers.NewHandler(svc, zap.NewNop().Sugar())

	app := fiber.New()
	app.Get("/", h.Root)
	app.Post("/upload", h.Upload)
	app.Get("/stream/:id", h.Stream)
	app.Get("/media/list", h.List)
	app.Get("/media/:id", h.Info)
	app.Delete("/media/:id", h.Delete)
	return app
}

func multipartBody(t *testing.T, filename, contentType, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func upload(t *testing.T, app *fiber.App, filename, contentType, content string) *http.Response {
	t.Helper()
	body, boundary := multipartBody(t, filename, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", boundary)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestUploadAndStreamRange(t *testing.T) {
	app := newApp()

	resp := upload(t, app, "clip.mp4", "video/mp4", "0123456789")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var up handlers.UploadResponse
	decode(t, resp, &up)
	assert.True(t, up.Success)
	assert.NotEmpty(t, up.MediaID)
	assert.Equal(t, "clip.mp4", up.Filename)
	assert.Equal(t, int64(10), up.Size)
	assert.Equal(t, "video/mp4", up.ContentType)
	assert.Equal(t, "/stream/"+up.MediaID, up.StreamURL)

	req := httptest.NewRequest(http.MethodGet, up.StreamURL, nil)
	req.Header.Set("Range", "bytes=2-5")
	sresp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer sresp.Body.Close()

	assert.Equal(t, http.StatusPartialContent, sresp.StatusCode)
	assert.Equal(t, "bytes 2-5/10", sresp.Header.Get("Content-Range"))
	assert.Equal(t, "4", sresp.Header.Get("Content-Length"))
	assert.Equal(t, "bytes", sresp.Header.Get("Accept-Ranges"))
	assert.Equal(t, "inline", sresp.Header.Get("Content-Disposition"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", sresp.Header.Get("Cache-Control"))
	assert.Equal(t, "video/mp4", sresp.Header.Get("Content-Type"))

	data, err := io.ReadAll(sresp.Body)
	require.NoError(t, err)
	assert.Equal(t, "2345", string(data))
}

func TestStreamFullContent(t *testing.T) {
	app := newApp()
	resp := upload(t, app, "clip.mp4", "video/mp4", "0123456789")
	var up handlers.UploadResponse
	decode(t, resp, &up)

	sresp, err := app.Test(httptest.NewRequest(http.MethodGet, up.StreamURL, nil), -1)
	require.NoError(t, err)
	defer sresp.Body.Close()

	assert.Equal(t, http.StatusOK, sresp.StatusCode)
	assert.Equal(t, "10", sresp.Header.Get("Content-Length"))
	assert.Empty(t, sresp.Header.Get("Content-Range"))
	data, err := io.ReadAll(sresp.Body)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(data))
}

func TestStreamRangeNotSatisfiable(t *testing.T) {
	app := newApp()
	resp := upload(t, app, "clip.mp4", "video/mp4", "0123456789")
	var up handlers.UploadResponse
	decode(t, resp, &up)

	req := httptest.NewRequest(http.MethodGet, up.StreamURL, nil)
	req.Header.Set("Range", "bytes=20-")
	sresp, err := app.Test(req, -1)
	require.NoError(t, err)
	sresp.Body.Close()
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, sresp.StatusCode)
}

func TestStreamUnknownID(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/stream/nope", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadDisallowedTypeLeavesIndexUnchanged(t *testing.T) {
	app := newApp()

	resp := upload(t, app, "photo.txt", "text/plain", "hello")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	lresp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/list", nil), -1)
	require.NoError(t, err)
	var list handlers.ListResponse
	decode(t, lresp, &list)
	assert.Zero(t, list.Total)
}

func TestUploadMissingFilePart(t *testing.T) {
	app := newApp()
	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMediaInfoAndList(t *testing.T) {
	app := newApp()
	resp := upload(t, app, "song.mp3", "audio/mpeg", "abcdef")
	var up handlers.UploadResponse
	decode(t, resp, &up)

	iresp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/"+up.MediaID, nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, iresp.StatusCode)
	var rec struct {
		MediaID     string `json:"media_id"`
		Filename    string `json:"filename"`
		ContentType string `json:"content_type"`
		Size        int64  `json:"size"`
		MediaType   string `json:"media_type"`
	}
	decode(t, iresp, &rec)
	assert.Equal(t, up.MediaID, rec.MediaID)
	assert.Equal(t, "song.mp3", rec.Filename)
	assert.Equal(t, "audio/mpeg", rec.ContentType)
	assert.Equal(t, int64(6), rec.Size)
	assert.Equal(t, "audio", rec.MediaType)

	lresp, err := app.Test(httptest.NewRequest(http.MethodGet, "/media/list", nil), -1)
	require.NoError(t, err)
	var list handlers.ListResponse
	decode(t, lresp, &list)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, up.MediaID, list.Media[0].MediaID)
}

func TestDeleteTwice(t *testing.T) {
	app := newApp()
	resp := upload(t, app, "clip.webm", "video/webm", "data")
	var up handlers.UploadResponse
	decode(t, resp, &up)

	dresp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/media/"+up.MediaID, nil), -1)
	require.NoError(t, err)
	var del handlers.DeleteResponse
	decode(t, dresp, &del)
	assert.True(t, del.Success)

	dresp2, err := app.Test(httptest.NewRequest(http.MethodDelete, "/media/"+up.MediaID, nil), -1)
	require.NoError(t, err)
	dresp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, dresp2.StatusCode)

	sresp, err := app.Test(httptest.NewRequest(http.MethodGet, up.StreamURL, nil), -1)
	require.NoError(t, err)
	sresp.Body.Close()
	assert.Equal(t, http.StatusNotFound, sresp.StatusCode)
}

func TestRootBanner(t *testing.T) {
	app := newApp()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var banner struct {
		Message   string   `json:"message"`
		Endpoints []string `json:"endpoints"`
	}
	decode(t, resp, &banner)
	assert.NotEmpty(t, banner.Message)
	assert.Len(t, banner.Endpoints, 5)
}
