package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ats-ng/scmc-video-upload-api/internal/index"
	"github.com/ats-ng/scmc-video-upload-api/internal/media"
	"github.com/ats-ng/scmc-video-upload-api/internal/storage"
)

type MediaService struct {
	store storage.ObjectStore
	index *index.Index
	log   *zap.SugaredLogger
}

func New(store storage.ObjectStore, idx *index.Index, log *zap.SugaredLogger) *MediaService {
	return &MediaService{store: store, index: idx, log: log}
}

// Ingest streams one complete upload into the store under a fresh id,
// then appends its record to the index. The extension lives inside the
// storage key so the object can later be found without the index.
func (s *MediaService) Ingest(ctx context.Context, filename, contentTypeHint string, body io.Reader) (media.Record, error) {
	if !media.Admissible(filename) {
		return media.Record{}, media.ErrTypeNotAllowed
	}

	mediaID := uuid.NewString()
	key := mediaID + media.Ext(filename)
	mediaType := media.Classify(filename)
	contentType := media.ResolveContentType(contentTypeHint, filename)
	uploadTime := time.Now().UTC()

	err := s.store.Put(ctx, storage.PutInput{
		Key:                key,
		ContentType:        contentType,
		ContentDisposition: "inline",
		CacheControl:       "no-cache",
		Metadata: map[string]string{
			media.MetaFilename:   filename,
			media.MetaMediaID:    mediaID,
			media.MetaUploadTime: uploadTime.Format(time.RFC3339),
			media.MetaMediaType:  string(mediaType),
		},
		Body: body,
	})
	if err != nil {
		return media.Record{}, err
	}

	// the stored length is authoritative; the caller may not have
	// declared one at all
	info, err := s.store.Stat(ctx, key)
	if err != nil {
		return media.Record{}, fmt.Errorf("stat after upload: %w", err)
	}

	rec := media.Record{
		MediaID:     mediaID,
		Filename:    filename,
		ContentType: contentType,
		Size:        info.Size,
		UploadTime:  uploadTime,
		MediaType:   mediaType,
		StreamURL:   "/stream/" + mediaID,
	}
	if err := s.index.Append(ctx, rec); err != nil {
		// object is stored but unlisted; recoverable from its own
		// metadata
		s.log.Warnw("index update failed after successful write, object orphaned",
			"key", key, "error", err)
		return media.Record{}, err
	}
	return rec, nil
}

// Resolve probes the store for {id}{ext} across every allowed
// extension. It deliberately bypasses the index, so a stale or missing
// index entry cannot hide a stored object.
func (s *MediaService) Resolve(ctx context.Context, mediaID string) (string, error) {
	for _, ext := range media.AllExtensions() {
		key := mediaID + ext
		ok, err := s.store.Exists(ctx, key)
		if err != nil {
			return "", err
		}
		if ok {
			return key, nil
		}
	}
	return "", media.ErrNotFound
}

// Stream is one playable response: status, byte bounds and a
// forward-only body the caller must close.
type Stream struct {
	Status      int
	Start       int64
	End         int64
	Size        int64
	Length      int64
	ContentType string
	Body        io.ReadCloser
}

// Stream resolves the media id and opens the requested byte window.
// Size and content type come from the store, not the index, since the
// index snapshot may be stale. An empty rangeHeader means the full
// object.
func (s *MediaService) Stream(ctx context.Context, mediaID, rangeHeader string) (*Stream, error) {
	key, err := s.Resolve(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	info, err := s.store.Stat(ctx, key)
	if err != nil {
		return nil, err
	}

	if rangeHeader == "" {
		body, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return &Stream{
			Status:      http.StatusOK,
			Start:       0,
			End:         info.Size - 1,
			Size:        info.Size,
			Length:      info.Size,
			ContentType: info.ContentType,
			Body:        body,
		}, nil
	}

	// validate before touching the store; out-of-bounds reads error
	// ambiguously on the store side
	start, end, err := parseRange(rangeHeader, info.Size)
	if err != nil {
		return nil, err
	}
	body, err := s.store.GetRange(ctx, key, start, end)
	if err != nil {
		return nil, err
	}
	return &Stream{
		Status:      http.StatusPartialContent,
		Start:       start,
		End:         end,
		Size:        info.Size,
		Length:      end - start + 1,
		ContentType: info.ContentType,
		Body:        body,
	}, nil
}

// Info returns the record view of a stored object, rebuilt from the
// object's own metadata rather than the index.
func (s *MediaService) Info(ctx context.Context, mediaID string) (media.Record, error) {
	key, err := s.Resolve(ctx, mediaID)
	if err != nil {
		return media.Record{}, err
	}
	info, err := s.store.Stat(ctx, key)
	if err != nil {
		return media.Record{}, err
	}

	rec := media.Record{
		MediaID:     mediaID,
		Filename:    metaValue(info.Metadata, media.MetaFilename, "unknown"),
		ContentType: info.ContentType,
		Size:        info.Size,
		MediaType:   media.Type(metaValue(info.Metadata, media.MetaMediaType, string(media.TypeUnknown))),
		StreamURL:   "/stream/" + mediaID,
	}
	if raw := metaValue(info.Metadata, media.MetaUploadTime, ""); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			rec.UploadTime = t
		}
	}
	return rec, nil
}

// Delete removes the object, then its index entry. The index step is
// best effort: a dangling entry only means the next access resolves to
// not-found.
func (s *MediaService) Delete(ctx context.Context, mediaID string) error {
	key, err := s.Resolve(ctx, mediaID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	if err := s.index.Remove(ctx, mediaID); err != nil {
		s.log.Warnw("index entry left dangling after object delete",
			"media_id", mediaID, "error", err)
	}
	return nil
}

// List returns the index snapshot verbatim, with no re-check against
// the store.
func (s *MediaService) List(ctx context.Context) ([]media.Record, error) {
	return s.index.Load(ctx)
}

// metaValue does a case-insensitive lookup; stores differ in how they
// fold metadata keys on the way back.
func metaValue(m map[string]string, key, fallback string) string {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return fallback
}
