// Package handler holds the glue shared by all route handlers: response DTOs
// with wire-format dates, the error envelope, and request logging.
package handler

import (
	"encoding/json"

	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/internal/model"
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
	"github.com/jwalitptl/encounter-api/pkg/logger"
	"github.com/jwalitptl/encounter-api/pkg/timeutil"
)

const contentTypeJSON = "application/json"

// EncounterResponse is the wire shape of an encounter. Dates are rendered as
// second-granularity UTC strings.
type EncounterResponse struct {
	EncounterID   string           `json:"encounterId"`
	PatientID     string           `json:"patientId"`
	ProviderID    string           `json:"providerId"`
	EncounterDate string           `json:"encounterDate"`
	EncounterType string           `json:"encounterType"`
	ClinicalData  json.RawMessage  `json:"clinicalData"`
	Metadata      MetadataResponse `json:"metadata"`
}

type MetadataResponse struct {
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	CreatedBy string `json:"createdBy"`
}

// AuditResponse is the wire shape of an audit entry.
type AuditResponse struct {
	Timestamp   string `json:"timestamp"`
	Actor       string `json:"actor"`
	Action      string `json:"action"`
	EncounterID string `json:"encounterId"`
}

func NewEncounterResponse(encounter *model.Encounter) EncounterResponse {
	return EncounterResponse{
		EncounterID:   encounter.EncounterID,
		PatientID:     encounter.PatientID,
		ProviderID:    encounter.ProviderID,
		EncounterDate: timeutil.FormatISO8601(encounter.EncounterDate),
		EncounterType: encounter.EncounterType,
		ClinicalData:  encounter.ClinicalData,
		Metadata: MetadataResponse{
			CreatedAt: timeutil.FormatISO8601(encounter.Metadata.CreatedAt),
			UpdatedAt: timeutil.FormatISO8601(encounter.Metadata.UpdatedAt),
			CreatedBy: encounter.Metadata.CreatedBy,
		},
	}
}

func NewEncounterListResponse(encounters []*model.Encounter) []EncounterResponse {
	out := make([]EncounterResponse, 0, len(encounters))
	for _, encounter := range encounters {
		out = append(out, NewEncounterResponse(encounter))
	}
	return out
}

func NewAuditResponse(entry *model.AuditEntry) AuditResponse {
	return AuditResponse{
		Timestamp:   timeutil.FormatISO8601(entry.Timestamp),
		Actor:       entry.Actor,
		Action:      string(entry.Action),
		EncounterID: entry.EncounterID,
	}
}

func NewAuditListResponse(entries []*model.AuditEntry) []AuditResponse {
	out := make([]AuditResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, NewAuditResponse(entry))
	}
	return out
}

type errorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details []apperrors.FieldError `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error     errorBody `json:"error"`
	RequestID string    `json:"requestId,omitempty"`
}

// WriteJSON serializes v into the response with the given status.
func WriteJSON(res *httpserver.Response, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		WriteError(res, apperrors.NewInternal(err), "")
		return
	}
	res.Status = status
	res.SetContent(body, contentTypeJSON)
}

// WriteError writes the error envelope for err. RequestID is echoed only
// when the client supplied one.
func WriteError(res *httpserver.Response, err *apperrors.AppError, requestID string) {
	envelope := errorEnvelope{
		Error: errorBody{
			Code:    string(err.Code),
			Message: err.Message,
			Details: err.Details,
		},
		RequestID: requestID,
	}

	body, marshalErr := json.Marshal(envelope)
	if marshalErr != nil {
		res.Status = 500
		res.SetContent([]byte(`{"error":{"code":"internal_error","message":"Internal error"}}`), contentTypeJSON)
		return
	}
	res.Status = err.HTTPStatus()
	res.SetContent(body, contentTypeJSON)
}

// RequestID returns the X-Request-Id header value, empty when absent.
func RequestID(req *httpserver.Request) string {
	value, ok := req.Header("X-Request-Id")
	if !ok {
		return ""
	}
	return value
}

// LogResult logs one handled request. Fields pass through the PHI redactor
// inside the logger.
func LogResult(log *logger.Logger, method, path, requestID string, status int) {
	if log == nil {
		return
	}
	fields := map[string]interface{}{
		"method": method,
		"path":   path,
		"status": status,
	}
	if requestID != "" {
		fields["requestId"] = requestID
	}
	log.Info("request handled", fields)
}
