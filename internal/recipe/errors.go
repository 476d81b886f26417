package recipe

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of recipe error
type ErrorType string

const (
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeNotImplemented ErrorType = "not_implemented"
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeCapability     ErrorType = "capability"
	ErrorTypeDegenerate     ErrorType = "degenerate"
	ErrorTypePanic          ErrorType = "panic"
)

// ErrDegenerateRange is returned when a residual round cannot restore the
// dynamic range because the processed residual is flat or non-finite
var ErrDegenerateRange = errors.New("residual has no usable dynamic range")

// RecipeError represents a recipe-specific error
type RecipeError struct {
	Type    ErrorType      `json:"type"`
	Recipe  string         `json:"recipe,omitempty"`
	Step    string         `json:"step,omitempty"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// Error implements the error interface
func (e *RecipeError) Error() string {
	if e == nil {
		return "unknown recipe error"
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s/%s: %s", e.Type, e.Recipe, e.Step, msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Recipe, msg)
}

// Unwrap returns the underlying error
func (e *RecipeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewNotFoundError creates an error for a name missing from the registry
func NewNotFoundError(recipe string) *RecipeError {
	return &RecipeError{
		Type:    ErrorTypeNotFound,
		Recipe:  recipe,
		Message: fmt.Sprintf("recipe '%s' not recognized", recipe),
	}
}

// NewNotImplementedError creates an error for a catalogued recipe with no body
func NewNotImplementedError(recipe string) *RecipeError {
	return &RecipeError{
		Type:    ErrorTypeNotImplemented,
		Recipe:  recipe,
		Message: fmt.Sprintf("recipe '%s' not yet implemented", recipe),
	}
}

// NewValidationError creates an error for a command parameter that cannot be resolved
func NewValidationError(recipe, message string, cause error) *RecipeError {
	return &RecipeError{
		Type:    ErrorTypeValidation,
		Recipe:  recipe,
		Message: message,
		Cause:   cause,
	}
}

// NewCapabilityError creates an error for a failed capability call
func NewCapabilityError(recipe, capability string, index int, cause error) *RecipeError {
	return &RecipeError{
		Type:    ErrorTypeCapability,
		Recipe:  recipe,
		Step:    capability,
		Message: "capability call failed",
		Cause:   cause,
		Context: map[string]any{
			"step_index": index,
		},
	}
}

// NewPanicError creates an error for a capability that panicked
func NewPanicError(recipe string, value any, stack []byte) *RecipeError {
	return &RecipeError{
		Type:    ErrorTypePanic,
		Recipe:  recipe,
		Message: fmt.Sprintf("recipe panicked: %v", value),
		Context: map[string]any{
			"stack": string(stack),
		},
	}
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var rErr *RecipeError
	if errors.As(err, &rErr) {
		return rErr.Type
	}
	if errors.Is(err, ErrDegenerateRange) {
		return ErrorTypeDegenerate
	}
	return ErrorTypeCapability
}

// IsFailure reports whether err represents a failed application, as opposed
// to a catalog miss or an unimplemented recipe, which are reported no-ops
func IsFailure(err error) bool {
	switch GetErrorType(err) {
	case "", ErrorTypeNotFound, ErrorTypeNotImplemented:
		return false
	default:
		return true
	}
}

// WrapError wraps an error with recipe context
func WrapError(err error, recipe string, message string) *RecipeError {
	if err == nil {
		return nil
	}

	// If it's already a RecipeError, enhance it
	var rErr *RecipeError
	if errors.As(err, &rErr) {
		if rErr.Recipe == "" {
			rErr.Recipe = recipe
		}
		return rErr
	}

	return &RecipeError{
		Type:    GetErrorType(err),
		Recipe:  recipe,
		Message: message,
		Cause:   err,
	}
}
