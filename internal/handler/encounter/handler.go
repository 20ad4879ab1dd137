package encounter

import (
	"context"

	"github.com/jwalitptl/encounter-api/internal/auth"
	"github.com/jwalitptl/encounter-api/internal/handler"
	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/internal/service/encounter"
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
	"github.com/jwalitptl/encounter-api/pkg/logger"
)

const apiKeyHeader = "X-API-Key"

type Handler struct {
	svc           *encounter.Service
	authenticator auth.Authenticator
	log           *logger.Logger
}

func NewHandler(svc *encounter.Service, authenticator auth.Authenticator, log *logger.Logger) *Handler {
	return &Handler{
		svc:           svc,
		authenticator: authenticator,
		log:           log,
	}
}

// RegisterRoutes wires the encounter routes. The literal list route and the
// templated single-record route are registered independently.
func (h *Handler) RegisterRoutes(s *httpserver.Server) {
	s.Post("/encounters", h.Create)
	s.Get("/encounters/{id}", h.Get)
	s.Get("/encounters", h.List)
}

func (h *Handler) authenticate(req *httpserver.Request) (string, *apperrors.AppError) {
	key, present := req.Header(apiKeyHeader)
	return h.authenticator.Authenticate(key, present)
}

func (h *Handler) Create(req *httpserver.Request, res *httpserver.Response) {
	requestID := handler.RequestID(req)

	actor, appErr := h.authenticate(req)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "POST", "/encounters", requestID, res.Status)
		return
	}

	input, appErr := validateCreateRequest(req.Body)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "POST", "/encounters", requestID, res.Status)
		return
	}

	created, appErr := h.svc.CreateEncounter(context.Background(), input, actor)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "POST", "/encounters", requestID, res.Status)
		return
	}

	handler.WriteJSON(res, 201, handler.NewEncounterResponse(created))
	handler.LogResult(h.log, "POST", "/encounters", requestID, res.Status)
}

func (h *Handler) Get(req *httpserver.Request, res *httpserver.Response) {
	requestID := handler.RequestID(req)

	actor, appErr := h.authenticate(req)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/encounters/{id}", requestID, res.Status)
		return
	}

	// A matched templated route always yields one capture; anything else is
	// a router defect, not client error.
	if len(req.Matches) < 2 {
		handler.WriteError(res, apperrors.NewInternal(nil), requestID)
		handler.LogResult(h.log, "GET", "/encounters/{id}", requestID, res.Status)
		return
	}
	encounterID := req.Matches[1]

	found, appErr := h.svc.GetEncounter(context.Background(), encounterID, actor)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/encounters/{id}", requestID, res.Status)
		return
	}

	handler.WriteJSON(res, 200, handler.NewEncounterResponse(found))
	handler.LogResult(h.log, "GET", "/encounters/{id}", requestID, res.Status)
}

func (h *Handler) List(req *httpserver.Request, res *httpserver.Response) {
	requestID := handler.RequestID(req)

	if _, appErr := h.authenticate(req); appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/encounters", requestID, res.Status)
		return
	}

	filters, appErr := validateQuery(req)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/encounters", requestID, res.Status)
		return
	}

	encounters, appErr := h.svc.QueryEncounters(context.Background(), filters)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/encounters", requestID, res.Status)
		return
	}

	handler.WriteJSON(res, 200, handler.NewEncounterListResponse(encounters))
	handler.LogResult(h.log, "GET", "/encounters", requestID, res.Status)
}
