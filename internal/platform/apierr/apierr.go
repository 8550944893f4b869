package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation Kind = "validation_error"
	KindNotFound   Kind = "not_found"
	KindState      Kind = "state_error"
	KindUpstream   Kind = "upstream_error"
	KindInternal   Kind = "internal_error"
)

type Error struct {
	Status  int
	Code    string
	Kind    Kind
	Err     error
	Details string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Kind: kindForStatus(status), Err: err}
}

func Validation(format string, args ...any) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   string(KindValidation),
		Kind:   KindValidation,
		Err:    fmt.Errorf(format, args...),
	}
}

func NotFound(format string, args ...any) *Error {
	return &Error{
		Status: http.StatusNotFound,
		Code:   string(KindNotFound),
		Kind:   KindNotFound,
		Err:    fmt.Errorf(format, args...),
	}
}

// State reports an operation attempted from the wrong record status.
func State(current, want string) *Error {
	return &Error{
		Status: http.StatusBadRequest,
		Code:   string(KindState),
		Kind:   KindState,
		Err:    fmt.Errorf("design is in status %q, expected %q", current, want),
	}
}

// Upstream wraps a vendor failure. Details carries the vendor body verbatim.
func Upstream(vendor string, upstreamStatus int, body string, err error) *Error {
	msg := fmt.Sprintf("%s request failed", vendor)
	if upstreamStatus > 0 {
		msg = fmt.Sprintf("%s request failed: status %d: %s", vendor, upstreamStatus, body)
	} else if err != nil {
		msg = fmt.Sprintf("%s request failed: %v", vendor, err)
	}
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    string(KindUpstream),
		Kind:    KindUpstream,
		Err:     &upstreamError{msg: msg, cause: err},
		Details: body,
	}
}

func Internal(err error) *Error {
	return &Error{
		Status: http.StatusInternalServerError,
		Code:   string(KindInternal),
		Kind:   KindInternal,
		Err:    err,
	}
}

// From returns err as an *Error, treating anything unclassified as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}
	return Internal(err)
}

func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind == kind
	}
	return false
}

type upstreamError struct {
	msg   string
	cause error
}

func (u *upstreamError) Error() string { return u.msg }
func (u *upstreamError) Unwrap() error { return u.cause }

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindInternal
	}
}
