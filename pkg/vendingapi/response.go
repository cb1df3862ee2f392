package vendingapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/vendingkit/pkg/vending"
)

// Envelope is the body of every response.
type Envelope struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPError pairs a status with a stable error code.
type HTTPError struct {
	Status int
	Code   string
}

func (e HTTPError) Error() string { return e.Code }

var (
	ErrBadRequest       = HTTPError{Status: http.StatusBadRequest, Code: "bad_request"}
	ErrJournalDisabled  = HTTPError{Status: http.StatusNotFound, Code: "journal_disabled"}
	ErrInternal         = HTTPError{Status: http.StatusInternalServerError, Code: "internal_error"}
	ErrMethodNotAllowed = HTTPError{Status: http.StatusMethodNotAllowed, Code: "method_not_allowed"}
	ErrNotFound         = HTTPError{Status: http.StatusNotFound, Code: "not_found"}
)

// StatusFor returns the HTTP status used for a controller error kind.
func StatusFor(k vending.Kind) int {
	switch k {
	case vending.KindUnknownProduct:
		return http.StatusNotFound
	case vending.KindInvalidDenomination, vending.KindInvalidQuantity:
		return http.StatusUnprocessableEntity
	case vending.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case vending.KindInvalidState, vending.KindNotInMaintenance, vending.KindOutOfStock,
		vending.KindExactChangeUnavailable, vending.KindInsufficientInventory:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (a *API) ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Data: data})
}

func (a *API) created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Envelope{Data: data})
}

// fail renders err. Controller errors keep their kind as the code.
func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		writeJSON(w, httpErr.Status, Envelope{Error: &ErrorDetail{Code: httpErr.Code, Message: err.Error()}})
		return
	}

	var verr *vending.Error
	if !errors.As(err, &verr) {
		a.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, ErrInternal.Status, Envelope{Error: &ErrorDetail{Code: ErrInternal.Code, Message: http.StatusText(ErrInternal.Status)}})
		return
	}

	body := Envelope{Error: &ErrorDetail{Code: string(verr.Kind), Message: verr.Error()}}
	var unavailable *vending.ChangeUnavailableError
	if errors.As(err, &unavailable) {
		body.Meta = map[string]any{"offer": unavailable.Offer}
	}
	status := StatusFor(verr.Kind)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "controller error", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, body)
}

// badRequest wraps a decoding or validation problem.
func badRequest(err error) error {
	return errors.Join(ErrBadRequest, err)
}
