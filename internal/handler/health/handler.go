package health

import (
	"github.com/jwalitptl/encounter-api/internal/handler"
	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/pkg/logger"
)

type Handler struct {
	log *logger.Logger
}

func NewHandler(log *logger.Logger) *Handler {
	return &Handler{log: log}
}

func (h *Handler) RegisterRoutes(s *httpserver.Server) {
	s.Get("/health", h.Check)
}

func (h *Handler) Check(req *httpserver.Request, res *httpserver.Response) {
	handler.WriteJSON(res, 200, map[string]string{"status": "ok"})
	handler.LogResult(h.log, "GET", "/health", "", res.Status)
}
