package bc

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is the OData error object returned by the API.
type APIError struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ResponseError is returned for any non-2xx response from the resource API.
// Body holds the raw response so callers can inspect it verbatim.
type ResponseError struct {
	StatusCode int       `json:"-"`
	Body       []byte    `json:"-"`
	Err        *APIError `json:"error,omitempty"`
}

// Error implements the error interface for ResponseError.
func (e *ResponseError) Error() string {
	if e.Err != nil && (e.Err.Code != "" || e.Err.Message != "") {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Err.Error())
	}

	if len(e.Body) > 0 {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, string(e.Body))
	}

	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Unwrap exposes the parsed API error.
func (e *ResponseError) Unwrap() error {
	if e.Err == nil {
		return nil
	}

	return e.Err
}

// ParseResponseError builds a ResponseError from a status code and raw body.
// A body that is not an OData error envelope is kept only in Body.
func ParseResponseError(statusCode int, data []byte) *ResponseError {
	errResp := &ResponseError{
		StatusCode: statusCode,
		Body:       data,
	}

	var envelope struct {
		Error *APIError `json:"error"`
	}

	if len(data) > 0 && json.Unmarshal(data, &envelope) == nil {
		errResp.Err = envelope.Error
	}

	return errResp
}

// AuthError is returned when the client-credentials exchange fails or yields
// an unusable token. It is never cached: the next call starts over.
type AuthError struct {
	// StatusCode is zero when the exchange failed before a response arrived.
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Err         error  `json:"-"`
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := "token request failed"

	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s with status %d", msg, e.StatusCode)
	}

	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Code)
	}

	if e.Description != "" {
		msg = fmt.Sprintf("%s - %s", msg, e.Description)
	}

	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

// Unwrap returns the underlying transport or decoding error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// PartialUploadError reports an attachment whose metadata record was created
// but whose content upload failed. The record stays on the parent, empty.
type PartialUploadError struct {
	AttachmentID string
	Err          error
}

// Error implements the error interface.
func (e *PartialUploadError) Error() string {
	return fmt.Sprintf("attachment %s created but content upload failed: %v", e.AttachmentID, e.Err)
}

// Unwrap returns the content upload error.
func (e *PartialUploadError) Unwrap() error {
	return e.Err
}

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrTenantIDRequired     = errors.New("tenant id is required")
	ErrClientIDRequired     = errors.New("client id is required")
	ErrClientSecretRequired = errors.New("client secret is required")
	ErrCompanyIDRequired    = errors.New("company id is required")
	ErrIDRequired           = errors.New("id is required")
	ErrRequestRequired      = errors.New("request is required")
	ErrEmptyAttachmentID    = errors.New("attachment record returned no id")
	ErrKeyNotFound          = errors.New("key not found")
	ErrEntryExpired         = errors.New("entry expired")
)

func statusOf(err error) int {
	errResp := &ResponseError{}
	if errors.As(err, &errResp) {
		return errResp.StatusCode
	}

	return 0
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsUnauthorized checks if the error is an unauthorized error.
func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

// IsForbidden checks if the error is a forbidden error.
func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

// IsPreconditionFailed checks if the error is an If-Match conflict.
func IsPreconditionFailed(err error) bool {
	return statusOf(err) == http.StatusPreconditionFailed
}

// IsAuthError checks if the error came from the token exchange.
func IsAuthError(err error) bool {
	authErr := &AuthError{}

	return errors.As(err, &authErr)
}

// IsPartialUpload checks if an attachment upload left an empty record behind,
// returning the orphaned attachment id.
func IsPartialUpload(err error) (string, bool) {
	partial := &PartialUploadError{}
	if errors.As(err, &partial) {
		return partial.AttachmentID, true
	}

	return "", false
}
