// Package errors provides custom error types for ipamctl.
// These errors let callers tell fatal conditions (unresolved references,
// invalid states, missing controllers) apart from the legitimate absence
// of an entity, which is never an error to the reconciler.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As and Is mirror the standard library helpers so callers need a single import.
var (
	As = errors.As
	Is = errors.Is
)

// Sentinel errors for ipamctl.
var (
	// ErrNotFound indicates that a requested entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolved indicates that a parameter referencing another entity could not be resolved
	ErrUnresolved = errors.New("unresolved reference")

	// ErrMissingDependency indicates that something the run depends on is unavailable
	ErrMissingDependency = errors.New("missing dependency")

	// ErrInvalidState indicates a desired state value that is not supported
	ErrInvalidState = errors.New("invalid state")

	// ErrDeleteRace indicates that an entity vanished between lookup and deletion
	ErrDeleteRace = errors.New("entity vanished before deletion")

	// ErrAuthentication indicates that the API session could not be established
	ErrAuthentication = errors.New("authentication failed")

	// ErrServerUnavailable indicates that the phpIPAM server failed with a 5xx status
	ErrServerUnavailable = errors.New("server unavailable")
)

// NotFoundError represents a lookup that found nothing
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// UnresolvedReferenceError is returned when a parameter names an entity
// that does not exist on the server.
type UnresolvedReferenceError struct {
	Param      string
	Value      any
	Controller string
	Err        error
}

// Error implements the error interface
func (e *UnresolvedReferenceError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("can not resolve '%s' (%v) to an existing ID in %s", e.Param, e.Value, e.Controller)
	}
	return fmt.Sprintf("can not resolve '%s' to an existing ID", e.Param)
}

// Unwrap implements errors.Unwrap
func (e *UnresolvedReferenceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolved
}

// NewUnresolvedReferenceError creates a new UnresolvedReferenceError
func NewUnresolvedReferenceError(param string, value any, controller string) *UnresolvedReferenceError {
	return &UnresolvedReferenceError{Param: param, Value: value, Controller: controller}
}

// DependencyError indicates a required external dependency is missing
type DependencyError struct {
	Dependency string
	Message    string
}

// Error implements the error interface
func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s: %s", e.Dependency, e.Message)
}

// Is implements errors.Is support
func (e *DependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// InvalidStateError is returned for a desired state other than present or absent
type InvalidStateError struct {
	State string
}

// Error implements the error interface
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("'%s' is not a valid state", e.State)
}

// Is implements errors.Is support
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

// DeleteRaceError is returned when the entity selected for deletion no
// longer exists by the time the delete call reaches the server.
type DeleteRaceError struct {
	Name       string
	Controller string
	Err        error
}

// Error implements the error interface
func (e *DeleteRaceError) Error() string {
	return fmt.Sprintf("entity '%s' of type '%s' can't be ensured absent: %v", e.Name, e.Controller, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *DeleteRaceError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *DeleteRaceError) Is(target error) bool {
	return target == ErrDeleteRace
}

// APIError represents a non-successful response from the phpIPAM API
type APIError struct {
	Controller string
	Method     string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	target := e.Controller
	if e.Method != "" {
		target = e.Method + " " + e.Controller
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", target, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", target, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	if e.StatusCode >= 500 {
		return target == ErrServerUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(controller string, statusCode int, message string) *APIError {
	return &APIError{
		Controller: controller,
		StatusCode: statusCode,
		Message:    message,
	}
}

// AuthenticationError represents a failure to open an API session
type AuthenticationError struct {
	Server  string
	Method  string // "basic", "token"
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Server != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.Server, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthentication
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during entity operations
type ResourceError struct {
	Operation string // "create", "update", "delete", "lookup"
	Resource  string // controller URI
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnresolved checks if an error is an unresolved reference
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

// IsMissingDependency checks if an error reports a missing dependency
func IsMissingDependency(err error) bool {
	return errors.Is(err, ErrMissingDependency)
}

// IsInvalidState checks if an error reports an invalid state value
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsDeleteRace checks if an error reports an entity vanishing before deletion
func IsDeleteRace(err error) bool {
	return errors.Is(err, ErrDeleteRace)
}

// IsAuthentication checks if an error is an authentication failure
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsServerUnavailable checks if an error indicates a failing server
func IsServerUnavailable(err error) bool {
	return errors.Is(err, ErrServerUnavailable)
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
