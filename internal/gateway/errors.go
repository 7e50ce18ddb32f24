package gateway

import "net/http"

// Code is the closed set of client-facing error codes. Every domain
// failure maps to exactly one code with a fixed HTTP status.
type Code string

const (
	CodeCredentialsNotFound  Code = "CREDENTIALS_NOT_FOUND"
	CodeSheetAccess          Code = "GOOGLE_SHEET_ACCESS_ERROR"
	CodeMacNotFound          Code = "MAC_ADDRESS_NOT_FOUND"
	CodeInvalidMac           Code = "INVALID_MAC_ADDRESS"
	CodeUserCreationFailed   Code = "USER_CREATION_FAILED"
	CodeLinkRetrievalFailed  Code = "VLESS_LINK_RETRIEVAL_FAILED"
	CodeRemnaAPI             Code = "REMNA_API_ERROR"
	CodeTailscaleUnavailable Code = "TAILSCALE_SERVER_UNAVAILABLE"
	CodeConfiguration        Code = "CONFIGURATION_ERROR"
	CodeInternal             Code = "INTERNAL_SERVER_ERROR"
)

func (c Code) HTTPStatus() int {
	switch c {
	case CodeMacNotFound:
		return http.StatusNotFound
	case CodeInvalidMac:
		return http.StatusBadRequest
	case CodeUserCreationFailed, CodeLinkRetrievalFailed, CodeRemnaAPI, CodeTailscaleUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed domain error serialized verbatim at the HTTP
// boundary. The wrapped cause is for logs only, never for clients.
type Error struct {
	Message string
	Code    Code
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Status() int { return e.Code.HTTPStatus() }

func NewError(code Code, message string) *Error {
	return &Error{Message: message, Code: code}
}

func WrapError(code Code, message string, cause error) *Error {
	return &Error{Message: message, Code: code, cause: cause}
}
