package api

import (
	"github.com/bitmark-inc/triage-api/session"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/triage"
)

var (
	errorMessageMap = map[int64]string{
		999:  "internal server error",
		1001: "invalid authorization format",
		1002: session.ErrInvalidCredentials.Error(),
		1003: "invalid token",
		1004: "too many requests",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1100: store.ErrEmailTaken.Error(),
		1101: "account not found",
		1102: session.ErrFullNameRequired.Error(),
		1103: session.ErrEmailRequired.Error(),
		1104: session.ErrPasswordTooShort.Error(),
		1105: session.ErrInvalidPhone.Error(),

		1200: triage.ErrSessionNotFound.Error(),
		1201: triage.ErrAlreadySubmitted.Error(),
		1202: "the current step is incomplete",
		1203: triage.ErrClosed.Error(),
		1204: "assessment could not be completed",

		1300: store.ErrAlertNotFound.Error(),
		1301: store.ErrInvalidTransition.Error(),
		1302: store.ErrAlertResolved.Error(),
		1303: store.ErrInvalidResolution.Error(),
		1304: "unknown status filter",
	}

	errorInternalServer             = errorJSON(999)
	errorInvalidAuthorizationFormat = errorJSON(1001)
	errorInvalidCredentials         = errorJSON(1002)
	errorInvalidToken               = errorJSON(1003)
	errorTooManyRequests            = errorJSON(1004)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorEmailTaken       = errorJSON(1100)
	errorAccountNotFound  = errorJSON(1101)
	errorFullNameRequired = errorJSON(1102)
	errorEmailRequired    = errorJSON(1103)
	errorPasswordTooShort = errorJSON(1104)
	errorInvalidPhone     = errorJSON(1105)

	errorTriageNotFound   = errorJSON(1200)
	errorAlreadySubmitted = errorJSON(1201)
	errorStepIncomplete   = errorJSON(1202)
	errorTriageClosed     = errorJSON(1203)
	errorAssessmentFailed = errorJSON(1204)

	errorAlertNotFound     = errorJSON(1300)
	errorInvalidTransition = errorJSON(1301)
	errorAlertResolved     = errorJSON(1302)
	errorInvalidResolution = errorJSON(1303)
	errorInvalidFilter     = errorJSON(1304)
)

type ErrorResponse struct {
	Code    int64             `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}
