// Package prometheus exposes the metrics registry in text exposition format.
// The raw-socket transport cannot host promhttp.Handler directly, so the
// gather/encode step is done by hand.
package prometheus

import (
	"bytes"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/jwalitptl/encounter-api/internal/httpserver"
)

type Handler struct {
	gatherer prometheus.Gatherer
}

func NewHandler(gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{gatherer: gatherer}
}

func (h *Handler) RegisterRoutes(s *httpserver.Server) {
	s.Get("/metrics", h.Metrics)
}

func (h *Handler) Metrics(req *httpserver.Request, res *httpserver.Response) {
	families, err := h.gatherer.Gather()
	if err != nil {
		res.Status = 500
		res.SetContent([]byte("failed to gather metrics"), "text/plain")
		return
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := encoder.Encode(family); err != nil {
			res.Status = 500
			res.SetContent([]byte("failed to encode metrics"), "text/plain")
			return
		}
	}

	res.Status = 200
	res.SetContent(buf.Bytes(), string(expfmt.NewFormat(expfmt.TypeTextPlain)))
}
