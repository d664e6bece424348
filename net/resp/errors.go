package resp

import (
	"net/http"

	"github.com/ncobase/cookscorner/ecode"
)

// NotFound indicates that the requested resource is not found.
func NotFound(message string, data ...any) *Exception {
	return newResponse(http.StatusNotFound, ecode.NothingFound, message, data...)
}

// UnAuthorized indicates that the request is unauthorized.
func UnAuthorized(message string, data ...any) *Exception {
	return newResponse(http.StatusUnauthorized, ecode.NoLogin, message, data...)
}

// BadRequest indicates a bad request.
func BadRequest(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.RequestErr, message, data...)
}

// InvalidParams indicates a request body or query that failed validation.
func InvalidParams(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.ParamErr, message, data...)
}

// InvalidToken indicates a token that failed verification.
func InvalidToken(message string, data ...any) *Exception {
	return newResponse(http.StatusBadRequest, ecode.TokenInvalid, message, data...)
}

// Forbidden indicates access is forbidden.
func Forbidden(message string, data ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.AccessDenied, message, data...)
}

// Unverified indicates a gated action attempted by an unverified account.
func Unverified(message string, data ...any) *Exception {
	return newResponse(http.StatusForbidden, ecode.UserInactive, message, data...)
}

// Conflict indicates a conflict error.
func Conflict(message string, data ...any) *Exception {
	return newResponse(http.StatusConflict, ecode.Conflict, message, data...)
}

// BadGateway indicates an upstream delivery failure.
func BadGateway(message string, data ...any) *Exception {
	return newResponse(http.StatusBadGateway, ecode.NotificationErr, message, data...)
}

// InternalServer indicates a server error.
func InternalServer(message string, data ...any) *Exception {
	return newResponse(http.StatusInternalServerError, ecode.ServerErr, message, data...)
}
