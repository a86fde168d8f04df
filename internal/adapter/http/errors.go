package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// Error codes returned in the "code" field of error responses.
const (
	codeMalformedBody     = "MALFORMED_BODY"
	codeInvalidIdentifier = "INVALID_IDENTIFIER"
	codeInvalidRoofSize   = "INVALID_ROOF_SIZE"
	codeNotFound          = "NOT_FOUND"
	codeDegenerateInput   = "DEGENERATE_INPUT"
	codeRemoteCalculation = "REMOTE_CALCULATION_FAILED"
	codePersistence       = "PERSISTENCE_FAILED"
	codeInternal          = "INTERNAL"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// classify maps a service error to its HTTP status and response body.
// Infrastructure failures get a generic message; the detail goes to the log.
func classify(err error) (int, errorBody) {
	var (
		verr    *domain.ValidationError
		nf      *domain.NotFoundError
		degen   *domain.DegenerateInputError
		remote  *domain.RemoteCalculationError
		persist *domain.PersistenceError
	)
	switch {
	case errors.As(err, &verr) && errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, errorBody{Code: codeInvalidIdentifier, Message: verr.Error(), Field: verr.Field}
	case errors.As(err, &verr) && errors.Is(err, domain.ErrInvalidRoofSize):
		return http.StatusBadRequest, errorBody{Code: codeInvalidRoofSize, Message: verr.Error(), Field: verr.Field}
	case errors.As(err, &nf):
		return http.StatusNotFound, errorBody{Code: codeNotFound, Message: nf.Error()}
	case errors.As(err, &degen):
		return http.StatusUnprocessableEntity, errorBody{Code: codeDegenerateInput, Message: degen.Error()}
	case errors.As(err, &remote):
		return http.StatusBadGateway, errorBody{Code: codeRemoteCalculation, Message: "remote calculation failed"}
	case errors.As(err, &persist):
		return http.StatusInternalServerError, errorBody{Code: codePersistence, Message: "failed to save simulation"}
	default:
		return http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal error"}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	sharedobs.WriteJSON(w, status, body)
}
