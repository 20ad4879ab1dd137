package audit

import (
	"context"
	"strconv"

	"github.com/jwalitptl/encounter-api/internal/auth"
	"github.com/jwalitptl/encounter-api/internal/handler"
	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/internal/repository"
	"github.com/jwalitptl/encounter-api/internal/service/encounter"
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
	"github.com/jwalitptl/encounter-api/pkg/logger"
	"github.com/jwalitptl/encounter-api/pkg/timeutil"
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

func (h *Handler) RegisterRoutes(s *httpserver.Server) {
	s.Get("/audit/encounters", h.List)
}

func (h *Handler) List(req *httpserver.Request, res *httpserver.Response) {
	requestID := handler.RequestID(req)

	key, present := req.Header(apiKeyHeader)
	if _, appErr := h.authenticator.Authenticate(key, present); appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/audit/encounters", requestID, res.Status)
		return
	}

	rng, appErr := validateRange(req)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/audit/encounters", requestID, res.Status)
		return
	}

	entries, appErr := h.svc.QueryAudit(context.Background(), rng)
	if appErr != nil {
		handler.WriteError(res, appErr, requestID)
		handler.LogResult(h.log, "GET", "/audit/encounters", requestID, res.Status)
		return
	}

	handler.WriteJSON(res, 200, handler.NewAuditListResponse(entries))
	handler.LogResult(h.log, "GET", "/audit/encounters", requestID, res.Status)
}

func validateRange(req *httpserver.Request) (*repository.AuditRange, *apperrors.AppError) {
	rng := repository.NewAuditRange()

	if value, ok := req.Param("from"); ok {
		parsed, err := timeutil.ParseISO8601(value)
		if err != nil {
			return nil, apperrors.NewValidation("from", "must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SSZ")
		}
		rng.From = &parsed
	}
	if value, ok := req.Param("to"); ok {
		parsed, err := timeutil.ParseISO8601(value)
		if err != nil {
			return nil, apperrors.NewValidation("to", "must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SSZ")
		}
		rng.To = &parsed
	}

	if value, ok := req.Param("limit"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, apperrors.NewValidation("limit", "must be a non-negative integer")
		}
		rng.Limit = parsed
	}
	if value, ok := req.Param("offset"); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return nil, apperrors.NewValidation("offset", "must be a non-negative integer")
		}
		rng.Offset = parsed
	}

	return rng, nil
}
