package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/dto"
	"github.com/pilacorp/go-did-sandbox/internal/logfields"
	"github.com/pilacorp/go-did-sandbox/sandbox"
)

const (
	contentTypeHeader = "Content-Type"
	jsonContentType   = "application/json"
)

// Handler is one REST endpoint.
type Handler interface {
	Path() string
	Method() string
	Handle() http.HandlerFunc
}

type httpHandler struct {
	path   string
	method string
	handle http.HandlerFunc
}

func newHTTPHandler(path, method string, handle http.HandlerFunc) Handler {
	return &httpHandler{path: path, method: method, handle: handle}
}

func (h *httpHandler) Path() string {
	return h.path
}

func (h *httpHandler) Method() string {
	return h.method
}

func (h *httpHandler) Handle() http.HandlerFunc {
	return h.handle
}

// errBadRequest marks client input that could not be decoded.
var errBadRequest = errors.New("bad request")

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %w", errBadRequest, err)
	}
	return nil
}

func writeJSON(logger *zap.Logger, rw http.ResponseWriter, status int, v interface{}) {
	rw.Header().Set(contentTypeHeader, jsonContentType)
	rw.WriteHeader(status)

	if err := json.NewEncoder(rw).Encode(v); err != nil {
		logger.Error("unable to write response", zap.Error(err))
	}
}

// writeError maps err to a status code and writes it as an ErrorResponse.
func writeError(logger *zap.Logger, rw http.ResponseWriter, err error) {
	status, code := errorStatus(err)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logfields.WithStatus(status), zap.Error(err))
	} else {
		logger.Debug("request rejected", logfields.WithStatus(status), zap.Error(err))
	}

	writeJSON(logger, rw, status, &dto.ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, did.ErrUnsupportedMethod):
		return http.StatusBadRequest, dto.CodeUnsupportedMethod
	case errors.Is(err, errBadRequest),
		errors.Is(err, did.ErrDomainRequired),
		errors.Is(err, did.ErrInvalidDID):
		return http.StatusBadRequest, dto.CodeBadRequest
	case errors.Is(err, sandbox.ErrSessionNotFound):
		return http.StatusNotFound, dto.CodeNotFound
	case errors.Is(err, sandbox.ErrStepOutOfOrder),
		errors.Is(err, sandbox.ErrActionInProgress),
		errors.Is(err, sandbox.ErrSessionReset):
		return http.StatusConflict, dto.CodeConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, dto.CodeInternal
	default:
		return http.StatusInternalServerError, dto.CodeInternal
	}
}
