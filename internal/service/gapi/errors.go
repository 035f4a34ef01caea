package gapi

import "fmt"

// UnknownAPIError is returned when no discovery document exists for an API and version.
type UnknownAPIError struct {
	API     string
	Version string
	Err     error
}

func (e *UnknownAPIError) Error() string {
	return fmt.Sprintf("unknown API %s %s", e.API, e.Version)
}

func (e *UnknownAPIError) Unwrap() error { return e.Err }

func (e *UnknownAPIError) Kind() string { return "UnknownAPIError" }

// InvalidMethodPathError is returned when an intermediate segment of a method path does not resolve.
// Prefix is the method path up to and including the first segment that failed.
type InvalidMethodPathError struct {
	Method string
	Prefix string
}

func (e *InvalidMethodPathError) Error() string {
	return fmt.Sprintf("invalid method path at %s", e.Prefix)
}

func (e *InvalidMethodPathError) Kind() string { return "InvalidMethodPathError" }

// NotCallableError is returned when the last segment of a method path is not a method.
type NotCallableError struct {
	Method  string
	Segment string
}

func (e *NotCallableError) Error() string {
	return fmt.Sprintf("final segment '%s' of method %s is not callable", e.Segment, e.Method)
}

func (e *NotCallableError) Kind() string { return "NotCallableError" }

// MethodNotAllowedError is returned when a method is not covered by the allow-list.
type MethodNotAllowedError struct {
	Method string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf(
		"method %s is not allowed, add a matching pattern to the generic request allow-list to enable it",
		e.Method,
	)
}

func (e *MethodNotAllowedError) Kind() string { return "MethodNotAllowedError" }

// ParameterError is returned when the parameters cannot be mapped onto the method.
type ParameterError struct {
	Name   string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("parameter '%s': %s", e.Name, e.Reason)
}

func (e *ParameterError) Kind() string { return "InputValidationError" }
