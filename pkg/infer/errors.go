package infer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/smartdim/pkg/sketch"
)

// ErrorCode categorises inference and application failures.
type ErrorCode string

const (
	// CodeGeometricallyInvalid marks an interpretation the geometry cannot
	// support, such as an angle between parallel lines. It is recovered
	// locally by moving on to another interpretation.
	CodeGeometricallyInvalid ErrorCode = "GEOMETRICALLY_INVALID"

	// CodeFixedGeometryConflict marks a request whose operands are all
	// immovable.
	CodeFixedGeometryConflict ErrorCode = "FIXED_GEOMETRY_CONFLICT"

	// CodeIncompatibleTypes marks a request across unlike geometry, such as
	// equality between an ellipse and a hyperbola.
	CodeIncompatibleTypes ErrorCode = "INCOMPATIBLE_TYPES"

	// CodeExternalInvalidation marks a document changed behind the
	// session's back.
	CodeExternalInvalidation ErrorCode = "EXTERNAL_INVALIDATION"

	// CodeConstructionFailure marks a document call that failed while an
	// operation was being applied.
	CodeConstructionFailure ErrorCode = "CONSTRUCTION_FAILURE"

	// CodeUnsupportedShape marks a selection no rule accepts.
	CodeUnsupportedShape ErrorCode = "UNSUPPORTED_SHAPE"
)

// Error is a coded failure with the operands involved.
type Error struct {
	Code     ErrorCode
	Message  string
	Operands []sketch.Ref
	Err      error
}

// NewError builds an Error with a formatted message.
func NewError(code ErrorCode, operands []sketch.Ref, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Operands: operands}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Operands) > 0 {
		ops := make([]string, len(e.Operands))
		for i, op := range e.Operands {
			ops[i] = op.String()
		}
		msg += " (operands " + strings.Join(ops, ", ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsGeometricallyInvalid reports whether err carries CodeGeometricallyInvalid.
func IsGeometricallyInvalid(err error) bool { return hasCode(err, CodeGeometricallyInvalid) }

// IsFixedGeometryConflict reports whether err carries CodeFixedGeometryConflict.
func IsFixedGeometryConflict(err error) bool { return hasCode(err, CodeFixedGeometryConflict) }

// IsIncompatibleTypes reports whether err carries CodeIncompatibleTypes.
func IsIncompatibleTypes(err error) bool { return hasCode(err, CodeIncompatibleTypes) }

// IsExternalInvalidation reports whether err carries CodeExternalInvalidation.
func IsExternalInvalidation(err error) bool { return hasCode(err, CodeExternalInvalidation) }

// IsConstructionFailure reports whether err carries CodeConstructionFailure.
func IsConstructionFailure(err error) bool { return hasCode(err, CodeConstructionFailure) }

// IsUnsupportedShape reports whether err carries CodeUnsupportedShape.
func IsUnsupportedShape(err error) bool { return hasCode(err, CodeUnsupportedShape) }
