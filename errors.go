package godeck

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPackage indicates the file is a ZIP archive but not an OPC
	// package (no [Content_Types].xml entry).
	ErrNotPackage = errors.New("not an OPC package: missing [Content_Types].xml")

	// ErrNoPresentation indicates the package carries no presentation part.
	ErrNoPresentation = errors.New("not a presentation: missing presentation part")

	// ErrSlideOutOfRange indicates a slide index outside the source document.
	ErrSlideOutOfRange = errors.New("slide index out of range")

	// ErrLayoutOutOfRange indicates a layout index outside the template.
	ErrLayoutOutOfRange = errors.New("layout index out of range")
)

// OpError is the unified error type for document operations. It records which
// component and operation failed and wraps the underlying error so callers
// can use errors.Is / errors.As on the chain.
type OpError struct {
	Component string
	Operation string
	Err       error
}

// Error formats the error as: [Component.Operation] message
func (e *OpError) Error() string {
	return fmt.Sprintf("[%s.%s] %v", e.Component, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// wrapOp wraps err with component and operation context. Returns nil if err
// is nil.
func wrapOp(component, operation string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Component: component, Operation: operation, Err: err}
}
