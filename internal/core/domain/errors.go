package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDraft       = errors.New("invalid return request draft")
	ErrSubmissionInFlight = errors.New("return request submission already in flight")
	ErrUnknownStatus      = errors.New("unknown return request status")
	ErrUnauthorized       = errors.New("customer token required")
	ErrForbidden          = errors.New("return request belongs to another customer")
)

// ValidationError lists the draft fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidDraft }

func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// GraphQLException is the exception block some resolvers attach to an error.
type GraphQLException struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type GraphQLErrorExtensions struct {
	Code      string            `json:"code,omitempty"`
	Exception *GraphQLException `json:"exception,omitempty"`
}

// GraphQLError is one entry of a GraphQL response "errors" list.
type GraphQLError struct {
	Message    string                  `json:"message"`
	Path       []any                   `json:"path,omitempty"`
	Extensions *GraphQLErrorExtensions `json:"extensions,omitempty"`
}

// ExceptionCode returns extensions.exception.code or "" when any level is absent.
func (e GraphQLError) ExceptionCode() string {
	if e.Extensions == nil || e.Extensions.Exception == nil {
		return ""
	}
	return e.Extensions.Exception.Code
}

// GatewayError is returned when the remote API answered with a non-empty
// errors list.
type GatewayError struct {
	Op     string
	Errors []GraphQLError
}

func (e *GatewayError) Error() string {
	if len(e.Errors) == 0 {
		return e.Op + ": graphql error"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		msgs = append(msgs, ge.Message)
	}
	return e.Op + ": " + strings.Join(msgs, "; ")
}
