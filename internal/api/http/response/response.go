// Package response writes JSON bodies and maps domain errors to HTTP status
// codes for handlers and middleware alike.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/chirp-server/internal/model"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeInternal    = "INTERNAL"
	messageInternal = "internal server error"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes err as an ErrorBody. Errors without a domain kind are reported
// as a generic 500 so storage details never leak.
func Error(w http.ResponseWriter, err error) {
	var de *model.Error
	if !errors.As(err, &de) {
		JSON(w, http.StatusInternalServerError, ErrorBody{Code: codeInternal, Message: messageInternal})
		return
	}
	JSON(w, StatusOf(de.Kind), ErrorBody{Code: string(de.Kind), Message: de.Message})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(kind model.ErrorKind) int {
	switch kind {
	case model.KindUnauthorized,
		model.KindTokenExpired,
		model.KindTokenMalformed,
		model.KindTokenKindMismatch,
		model.KindInvalidCredentials,
		model.KindTokenInvalid,
		model.KindUsedOrMissingRefreshToken:
		return http.StatusUnauthorized
	case model.KindNotVerified, model.KindBanned, model.KindForbidden:
		return http.StatusForbidden
	case model.KindAccountNotFound, model.KindPostNotFound:
		return http.StatusNotFound
	case model.KindDuplicateEmail:
		return http.StatusConflict
	case model.KindInvalidArgument, model.KindProviderEmailUnverified, model.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case model.KindExchangeFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
