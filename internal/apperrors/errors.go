package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrUnauthorized            = errors.New("Unauthorized")
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrPlanRestricted          = errors.New("your plan does not include AI analysis")
	ErrQuotaExceeded           = errors.New("application quota exceeded for your plan")
	ErrDuplicateApplication    = errors.New("you have already applied to this job")
	ErrInvalidAdvisoryResponse = errors.New("invalid response from AI service")
	ErrEmptyAnalysis           = errors.New("AI service returned an empty or too short result")
	ErrExtractionFailed        = errors.New("could not extract text from document")
	ErrStoreUnavailable        = errors.New("Database not available")
	ErrNotAnalyzed             = errors.New("resume has not been analyzed yet")
	ErrMissingOriginalText     = errors.New("resume has no extracted text")
	ErrNoResumeUploaded        = errors.New("upload a resume before searching for jobs")
	ErrProviderUnavailable     = errors.New("external provider unavailable")
)

var statusByErr = []struct {
	err    error
	status int
}{
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrUnauthorized, http.StatusForbidden},
	{ErrPlanRestricted, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrQuotaExceeded, http.StatusTooManyRequests},
	{ErrDuplicateApplication, http.StatusConflict},
	{ErrInvalidAdvisoryResponse, http.StatusBadGateway},
	{ErrEmptyAnalysis, http.StatusBadGateway},
	{ErrProviderUnavailable, http.StatusBadGateway},
	{ErrExtractionFailed, http.StatusUnprocessableEntity},
	{ErrNotAnalyzed, http.StatusUnprocessableEntity},
	{ErrMissingOriginalText, http.StatusUnprocessableEntity},
	{ErrNoResumeUploaded, http.StatusUnprocessableEntity},
	{ErrStoreUnavailable, http.StatusServiceUnavailable},
}

// HTTPStatus maps an error chain to a response status. Unknown errors are 500.
func HTTPStatus(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
