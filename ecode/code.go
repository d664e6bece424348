// Package ecode defines the business codes carried in API error bodies.
//
// Codes are negative integers grouped by range: -100..-199 authentication,
// -200..-299 tokens, -400..-499 request and resource errors, -500 and below
// server and upstream failures.
package ecode

// Business codes
const (
	OK = 0

	NoLogin      = -101
	UserDisabled = -102
	UserInactive = -106

	TokenInvalid = -201
	TokenExpired = -202

	RequestErr       = -400
	ParamErr         = -401
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409

	ServerErr       = -500
	NotificationErr = -502
	Unavailable     = -503
)

var texts = map[int]string{
	OK:               "ok",
	NoLogin:          "Authentication credentials were not provided.",
	UserDisabled:     "Account is disabled.",
	UserInactive:     "User is not verified.",
	TokenInvalid:     "Invalid token",
	TokenExpired:     "Token is expired",
	RequestErr:       "Invalid data.",
	ParamErr:         "Invalid parameters.",
	AccessDenied:     "Access denied.",
	NothingFound:     "Not found.",
	MethodNotAllowed: "Method not allowed.",
	Conflict:         "Conflict.",
	ServerErr:        "Internal server error.",
	NotificationErr:  "Unable to send email.",
	Unavailable:      "Service unavailable.",
}

// Text returns the default message for a code.
func Text(code int) string {
	if t, ok := texts[code]; ok {
		return t
	}
	return texts[ServerErr]
}
