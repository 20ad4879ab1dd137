package encounter

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jwalitptl/encounter-api/internal/httpserver"
	"github.com/jwalitptl/encounter-api/internal/model"
	"github.com/jwalitptl/encounter-api/internal/repository"
	apperrors "github.com/jwalitptl/encounter-api/pkg/errors"
	"github.com/jwalitptl/encounter-api/pkg/timeutil"
)

const dateFormatMessage = "must be YYYY-MM-DD or YYYY-MM-DDTHH:MM:SSZ"

// validateCreateRequest translates an untyped request body into a
// CreateEncounterInput. Fields are checked in a fixed order and the first
// violation is returned: clinicalData, patientId, providerId, encounterType,
// encounterDate.
func validateCreateRequest(body []byte) (*model.CreateEncounterInput, *apperrors.AppError) {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewValidation("body", "must be valid JSON")
	}
	if _, ok := parsed.(map[string]interface{}); !ok {
		return nil, apperrors.NewValidation("body", "must be a JSON object")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperrors.NewInternal(err)
	}

	clinicalData, ok := raw["clinicalData"]
	if !ok {
		return nil, apperrors.NewValidation("clinicalData", "is required")
	}
	var clinicalValue interface{}
	if err := json.Unmarshal(clinicalData, &clinicalValue); err != nil {
		return nil, apperrors.NewValidation("clinicalData", "must be an object")
	}
	if _, ok := clinicalValue.(map[string]interface{}); !ok {
		return nil, apperrors.NewValidation("clinicalData", "must be an object")
	}

	input := &model.CreateEncounterInput{ClinicalData: clinicalData}

	patientID, appErr := requiredString(raw, "patientId")
	if appErr != nil {
		return nil, appErr
	}
	input.PatientID = patientID

	providerID, appErr := requiredString(raw, "providerId")
	if appErr != nil {
		return nil, appErr
	}
	input.ProviderID = providerID

	encounterType, appErr := requiredString(raw, "encounterType")
	if appErr != nil {
		return nil, appErr
	}
	input.EncounterType = encounterType

	encounterDate, appErr := requiredString(raw, "encounterDate")
	if appErr != nil {
		return nil, appErr
	}
	parsedDate, err := timeutil.ParseISO8601(encounterDate)
	if err != nil {
		return nil, apperrors.NewValidation("encounterDate", dateFormatMessage)
	}
	input.EncounterDate = parsedDate

	return input, nil
}

func requiredString(raw map[string]json.RawMessage, key string) (string, *apperrors.AppError) {
	value, ok := raw[key]
	if !ok {
		return "", apperrors.NewValidation(key, "is required")
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", apperrors.NewValidation(key, "must be a string")
	}
	return s, nil
}

// validateQuery translates list query parameters into repository filters.
func validateQuery(req *httpserver.Request) (*repository.EncounterFilters, *apperrors.AppError) {
	filters := repository.NewEncounterFilters()

	if value, ok := req.Param("patientId"); ok {
		filters.PatientID = &value
	}
	if value, ok := req.Param("providerId"); ok {
		filters.ProviderID = &value
	}
	if value, ok := req.Param("encounterType"); ok {
		filters.EncounterType = &value
	}

	from, appErr := optionalTimeParam(req, "from")
	if appErr != nil {
		return nil, appErr
	}
	filters.DateFrom = from

	to, appErr := optionalTimeParam(req, "to")
	if appErr != nil {
		return nil, appErr
	}
	filters.DateTo = to

	limit, appErr := optionalIntParam(req, "limit")
	if appErr != nil {
		return nil, appErr
	}
	if limit != nil {
		filters.Limit = *limit
	}

	offset, appErr := optionalIntParam(req, "offset")
	if appErr != nil {
		return nil, appErr
	}
	if offset != nil {
		filters.Offset = *offset
	}

	return filters, nil
}

func optionalTimeParam(req *httpserver.Request, name string) (*time.Time, *apperrors.AppError) {
	value, ok := req.Param(name)
	if !ok {
		return nil, nil
	}
	parsed, err := timeutil.ParseISO8601(value)
	if err != nil {
		return nil, apperrors.NewValidation(name, dateFormatMessage)
	}
	return &parsed, nil
}

func optionalIntParam(req *httpserver.Request, name string) (*int, *apperrors.AppError) {
	value, ok := req.Param(name)
	if !ok {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return nil, apperrors.NewValidation(name, "must be a non-negative integer")
	}
	return &parsed, nil
}
