package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ats-ng/scmc-video-upload-api/internal/media"
	"github.com/ats-ng/scmc-video-upload-api/internal/metrics"
	"github.com/ats-ng/scmc-video-upload-api/internal/service"
)

type Handler struct {
	svc *service.MediaService
	log *zap.SugaredLogger
}

func NewHandler(svc *service.MediaService, log *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, log: log}
}

type UploadResponse struct {
	Success     bool   `json:"success"`
	MediaID     string `json:"media_id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	StreamURL   string `json:"stream_url"`
}

type ListResponse struct {
	Total int            `json:"total"`
	Media []media.Record `json:"media"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// POST /upload (multipart/form-data 'file')
func (h *Handler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, "file missing")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return JSONError(c, fiber.StatusInternalServerError, "cannot open file")
	}
	defer f.Close()

	hint := fileHeader.Header.Get("Content-Type")
	rec, err := h.svc.Ingest(c.UserContext(), fileHeader.Filename, hint, f)
	if errors.Is(err, media.ErrTypeNotAllowed) {
		return JSONError(c, fiber.StatusBadRequest, "file type not allowed")
	}
	if err != nil {
		h.log.Errorw("upload failed", "filename", fileHeader.Filename, "error", err)
		return JSONError(c, fiber.StatusInternalServerError, "upload failed")
	}

	metrics.UploadsTotal.Inc()
	h.log.Infow("media uploaded", "media_id", rec.MediaID, "size", rec.Size, "media_type", rec.MediaType)
	return c.JSON(UploadResponse{
		Success:     true,
		MediaID:     rec.MediaID,
		Filename:    rec.Filename,
		Size:        rec.Size,
		ContentType: rec.ContentType,
		StreamURL:   rec.StreamURL,
	})
}

// GET /stream/:id, optional Range header
func (h *Handler) Stream(c *fiber.Ctx) error {
	id := c.Params("id")
	st, err := h.svc.Stream(c.UserContext(), id, c.Get(fiber.HeaderRange))
	if errors.Is(err, media.ErrNotFound) {
		return JSONError(c, fiber.StatusNotFound, "media not found")
	}
	if errors.Is(err, media.ErrInvalidRange) {
		return JSONError(c, fiber.StatusRequestedRangeNotSatisfiable, err.Error())
	}
	if err != nil {
		h.log.Errorw("stream failed", "media_id", id, "error", err)
		return JSONError(c, fiber.StatusInternalServerError, "stream failed")
	}

	c.Set(fiber.HeaderAcceptRanges, "bytes")
	c.Set(fiber.HeaderContentDisposition, "inline")
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	c.Set(fiber.HeaderContentType, st.ContentType)
	if st.Status == fiber.StatusPartialContent {
		c.Set(fiber.HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", st.Start, st.End, st.Size))
	}

	metrics.StreamsTotal.WithLabelValues(strconv.Itoa(st.Status)).Inc()
	metrics.StreamedBytes.Add(float64(st.Length))
	c.Status(st.Status)
	return c.SendStream(st.Body, int(st.Length))
}

// GET /media/:id
func (h *Handler) Info(c *fiber.Ctx) error {
	id := c.Params("id")
	rec, err := h.svc.Info(c.UserContext(), id)
	if errors.Is(err, media.ErrNotFound) {
		return JSONError(c, fiber.StatusNotFound, "media not found")
	}
	if err != nil {
		h.log.Errorw("info failed", "media_id", id, "error", err)
		return JSONError(c, fiber.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(rec)
}

// GET /media/list
func (h *Handler) List(c *fiber.Ctx) error {
	records, err := h.svc.List(c.UserContext())
	if err != nil {
		h.log.Errorw("list failed", "error", err)
		return JSONError(c, fiber.StatusInternalServerError, "list failed")
	}
	return c.JSON(ListResponse{Total: len(records), Media: records})
}

// DELETE /media/:id
func (h *Handler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	err := h.svc.Delete(c.UserContext(), id)
	if errors.Is(err, media.ErrNotFound) {
		return JSONError(c, fiber.StatusNotFound, "media not found")
	}
	if err != nil {
		h.log.Errorw("delete failed", "media_id", id, "error", err)
		return JSONError(c, fiber.StatusInternalServerError, "delete failed")
	}
	metrics.DeletesTotal.Inc()
	return c.JSON(DeleteResponse{Success: true, Message: "media deleted successfully"})
}

// GET /
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Media Upload & Streaming API",
		"endpoints": []string{
			"/upload",
			"/stream/{media_id}",
			"/media/{media_id}",
			"/media/list",
			"/media/{media_id} [DELETE]",
		},
	})
}
