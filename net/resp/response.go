// Package resp writes JSON API responses.
//
// Successful responses carry either the data itself or {"Message": "..."}.
// Failures carry {"Error": "...", "code": <business code>, "errors": {...}}.
package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/cookscorner/ecode"
)

// Exception represents the response structure.
type Exception struct {
	Status  int    // HTTP status
	Code    int    // Business code
	Message string // Message
	Errors  any    // Validation errors
	Data    any    // Response data
}

// failureBody is the wire shape of a failure.
type failureBody struct {
	Error  string `json:"Error"`
	Code   int    `json:"code,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

// messageBody is the wire shape of a success without data.
type messageBody struct {
	Message string `json:"Message"`
}

// newResponse creates a new response.
func newResponse(status, code int, message string, data ...any) *Exception {
	var responseData any
	if len(data) > 0 {
		responseData = data[0]
	}

	if status < 200 || status >= 400 || code != 0 {
		return &Exception{
			Status:  status,
			Code:    code,
			Message: message,
			Errors:  responseData,
		}
	}

	return &Exception{
		Status:  status,
		Code:    code,
		Message: message,
		Data:    responseData,
	}
}

// Success handles success responses.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode handles success responses with custom status code.
// A single string argument is written as {"Message": ...}.
func WithStatusCode(w http.ResponseWriter, statusCode int, data ...any) {
	var message string
	var responseData any

	if len(data) > 0 {
		responseData = data[0]
		if strData, ok := responseData.(string); ok {
			message = strData
			responseData = nil
		}
	}

	r := newResponse(statusCode, 0, message, responseData)
	statusCode, result := buildSuccessResponse(r)
	writeJSON(w, statusCode, result)
}

// buildSuccessResponse builds the success response.
func buildSuccessResponse(r *Exception) (int, any) {
	status := http.StatusOK

	if r != nil && r.Status != 0 {
		status = r.Status
	}

	if status < 200 || status >= 400 {
		return buildFailureResponse(r)
	}

	if r != nil && r.Data != nil {
		return status, r.Data
	}

	message := "ok"
	if r != nil && r.Message != "" {
		message = r.Message
	}

	return status, messageBody{Message: message}
}

// Fail handles failure responses.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{
			Status:  http.StatusInternalServerError,
			Code:    ecode.ServerErr,
			Message: ecode.Text(ecode.ServerErr),
		}
	}
	statusCode, result := buildFailureResponse(r)
	writeJSON(w, statusCode, result)
}

// buildFailureResponse builds the failure response.
func buildFailureResponse(r *Exception) (int, any) {
	status := http.StatusBadRequest
	code := ecode.RequestErr

	if r.Status != 0 {
		status = r.Status
	}
	if r.Code != 0 {
		code = r.Code
	}
	message := ecode.Text(code)
	if r.Message != "" {
		message = r.Message
	}

	return status, failureBody{
		Error:  message,
		Code:   code,
		Errors: r.Errors,
	}
}

// writeJSON writes the body with the given status code.
func writeJSON(w http.ResponseWriter, code int, res any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(res)
}
