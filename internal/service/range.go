package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ats-ng/scmc-video-upload-api/internal/media"
)

// parseRange interprets a "bytes=<start>-<end>" header against an
// object of the given size and returns inclusive bounds. An omitted
// start means 0, an omitted end means size-1, and an end past the last
// byte is clamped to it. Malformed input, start > end, and start past
// EOF all map to media.ErrInvalidRange (416).
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", media.ErrInvalidRange, header)
	}
	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", media.ErrInvalidRange, header)
	}

	start, end = 0, size-1
	if startStr != "" {
		start, err = strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return 0, 0, fmt.Errorf("%w: %q", media.ErrInvalidRange, header)
		}
	}
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil || end < 0 {
			return 0, 0, fmt.Errorf("%w: %q", media.ErrInvalidRange, header)
		}
	}
	if end > size-1 {
		end = size - 1
	}
	if start > end || start >= size {
		return 0, 0, fmt.Errorf("%w: bytes=%d-%d of %d", media.ErrInvalidRange, start, end, size)
	}
	return start, end, nil
}
