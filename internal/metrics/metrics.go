package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	UploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_uploads_total",
		Help: "Completed media uploads.",
	})
	DeletesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_deletes_total",
		Help: "Completed media deletes.",
	})
	StreamsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "media_stream_requests_total",
		Help: "Stream responses by status code.",
	}, []string{"status"})
	StreamedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "media_streamed_bytes_total",
		Help: "Bytes handed to stream responses.",
	})
)

// Handler returns an http.Handler for Prometheus scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
