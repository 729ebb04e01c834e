package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"review-catalog/internal/policy"
	"review-catalog/pkg/utils"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	ErrConflict         = errors.New("conflict")
	ErrWrongCode        = errors.New("Wrong confirm code")
	ErrMalformedBody    = errors.New("Invalid request body")

	// ErrUnauthenticated is a PermissionDenied raised for an anonymous caller.
	ErrUnauthenticated = fmt.Errorf("authentication credentials were not provided: %w", ErrPermissionDenied)
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// validate runs the struct tags and returns a *ValidationError on failure.
func validate(req any) error {
	if v := reflect.ValueOf(req); v.Kind() == reflect.Pointer && v.IsNil() {
		return ErrMalformedBody
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// conflictError names the clashing fields while still matching ErrConflict.
func conflictError(fields ...string) error {
	return fmt.Errorf("%w: %s already taken", ErrConflict, strings.Join(fields, ", "))
}

// denied picks 401 or 403 flavour depending on who asked.
func denied(c policy.Caller) error {
	if !c.Authenticated() {
		return ErrUnauthenticated
	}
	return ErrPermissionDenied
}

// checkObject applies the object-level half of a policy.
func checkObject(p policy.Policy, c policy.Caller, method string, obj policy.Owned) error {
	if !p.HasObjectPermission(c, method, obj) {
		return denied(c)
	}
	return nil
}

// checkClass applies the class-level half of a policy.
func checkClass(p policy.Policy, c policy.Caller, method string) error {
	if !p.HasPermission(c, method) {
		return denied(c)
	}
	return nil
}
