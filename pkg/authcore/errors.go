package authcore

import "errors"

// ServerError reports an internal fault encountered while validating
// credentials. It aborts the authentication flow with a server-side cause.
type ServerError struct {
	Msg string
	Err error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ServerError) Unwrap() error { return e.Err }

// NewServerError wraps err as a server-side authentication fault.
func NewServerError(msg string, err error) *ServerError {
	return &ServerError{Msg: msg, Err: err}
}

// ClientError reports a malformed or unprocessable request, e.g. a garbled
// authorization header.
type ClientError struct {
	Msg string
	Err error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ClientError) Unwrap() error { return e.Err }

// NewClientError wraps err as a client-side request fault.
func NewClientError(msg string, err error) *ClientError {
	return &ClientError{Msg: msg, Err: err}
}

// FailureError reports an authentication-failure condition raised by a
// strategy, distinct from a FAILED outcome returned as a value.
type FailureError struct {
	Msg string
	Err error
}

func (e *FailureError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *FailureError) Unwrap() error { return e.Err }

// NewFailureError wraps err as an authentication failure.
func NewFailureError(msg string, err error) *FailureError {
	return &FailureError{Msg: msg, Err: err}
}

// IsServerError reports whether err is (or wraps) a ServerError.
func IsServerError(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsClientError reports whether err is (or wraps) a ClientError.
func IsClientError(err error) bool {
	var target *ClientError
	return errors.As(err, &target)
}

// IsFailure reports whether err is (or wraps) a FailureError.
func IsFailure(err error) bool {
	var target *FailureError
	return errors.As(err, &target)
}
