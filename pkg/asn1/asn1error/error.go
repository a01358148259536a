package asn1error

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type ErrorType int

const (
	SyntaxError               ErrorType = iota // eg the framing is wrong or a class/tag is wrong
	StructuralError                            // eg a value or schema did not have the expected shape
	ImplementationError                        // eg a feature is not implemented
	FutureImplementationError                  // eg a known gap
	PanicError                                 // eg a panic occurred
)

func (t ErrorType) String() string {
	switch t {
	case SyntaxError:
		return "syntax"
	case StructuralError:
		return "structural"
	case ImplementationError:
		return "implementation"
	case FutureImplementationError:
		return "future"
	case PanicError:
		return "panic"
	}
	return fmt.Sprintf("type=%d", int(t))
}

// Kinds of failure. Every error produced by the codec wraps exactly one of
// these so callers can branch with errors.Is.
var (
	ErrMalformedIdentifier          = errors.New("malformed identifier")
	ErrMalformedLength              = errors.New("malformed length")
	ErrTruncatedContent             = errors.New("truncated content")
	ErrUnterminatedIndefiniteLength = errors.New("unterminated indefinite length")
	ErrUnexpectedEndOfContents      = errors.New("unexpected end of contents")
	ErrDepthExceeded                = errors.New("nesting depth exceeded")
	ErrNotCanonical                 = errors.New("not canonical DER")
	ErrInvalidValue                 = errors.New("invalid value")
	ErrInvalidSchema                = errors.New("invalid schema")
)

var kinds = []error{
	ErrMalformedIdentifier,
	ErrMalformedLength,
	ErrTruncatedContent,
	ErrUnterminatedIndefiniteLength,
	ErrUnexpectedEndOfContents,
	ErrDepthExceeded,
	ErrNotCanonical,
	ErrInvalidValue,
	ErrInvalidSchema,
}

// KindOf returns the kind wrapped by err, or nil if err carries none.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

type Interface interface {
	error
	Type() ErrorType
}

type Unexpected[T any] struct {
	inner            error
	kind             error
	units            string
	errorType        ErrorType
	offset           int
	expected, actual T
}

func (e *Unexpected[T]) Error() string {
	sb := strings.Builder{}
	sb.WriteString("asn1: ")
	if e.kind != nil {
		sb.WriteString(e.kind.Error())
		sb.WriteString(": ")
	}
	sb.WriteString(e.inner.Error())
	if e.units == "" {
		fmt.Fprintf(&sb, ": expected=%v, actual=%v", e.expected, e.actual)
	} else {
		fmt.Fprintf(&sb, ": expected=%v %s, actual=%v %s", e.expected, e.units, e.actual, e.units)
	}
	if e.offset > 0 {
		fmt.Fprintf(&sb, " at offset %d", e.offset)
	}
	return sb.String()
}

func (e *Unexpected[T]) Unwrap() []error {
	if e.kind == nil {
		return []error{e.inner}
	}
	return []error{e.inner, e.kind}
}

func (e *Unexpected[T]) WithUnits(units string) *Unexpected[T] {
	e.units = units
	return e
}

func (e *Unexpected[T]) Type() ErrorType {
	return e.errorType
}

func (e *Unexpected[T]) WithType(errorType ErrorType) *Unexpected[T] {
	e.errorType = errorType
	return e
}

func (e *Unexpected[T]) WithKind(kind error) *Unexpected[T] {
	e.kind = kind
	return e
}

func (e *Unexpected[T]) WithOffset(offset int) *Unexpected[T] {
	e.offset = offset
	return e
}

func (e *Unexpected[T]) Offset() int {
	return e.offset
}

func (e *Unexpected[T]) Expected() T {
	return e.expected
}

func (e *Unexpected[T]) Actual() T {
	return e.actual
}

func NewUnexpectedError[T any](expected, actual T, format string, args ...any) *Unexpected[T] {
	return &Unexpected[T]{
		inner:    fmt.Errorf(format, args...),
		expected: expected,
		actual:   actual,
	}
}

type UnsupportedGoType struct {
	GoTypeName string
}

func (e *UnsupportedGoType) Error() string {
	return fmt.Sprintf("asn1: unsupported Go type: %s", e.GoTypeName)
}

func (e *UnsupportedGoType) Type() ErrorType {
	return StructuralError
}

func NewUnimplementedError(format string, args ...any) *General {
	return NewErrorf("asn1: not implemented "+format, args...).WithType(ImplementationError)
}

type General struct {
	inner  error
	cause  error
	eType  ErrorType
	offset int
	Stack  string
}

func NewErrorf(format string, args ...any) *General {
	return &General{
		inner: fmt.Errorf(format, args...),
	}
}

// NewSyntaxError reports malformed input of the given kind found at offset.
func NewSyntaxError(kind error, offset int, format string, args ...any) *General {
	return NewErrorf(format, args...).WithType(SyntaxError).WithCause(kind).WithOffset(offset)
}

func Wrap(err error) *General {
	return &General{
		inner: err,
	}
}

func (e *General) Error() string {
	s := e.inner.Error()
	if e.cause != nil {
		s = fmt.Sprintf("%s: %s", s, e.cause.Error())
	}
	if e.offset > 0 {
		s = fmt.Sprintf("%s at offset %d", s, e.offset)
	}
	return s
}

func (e *General) Type() ErrorType {
	return e.eType
}

func (e *General) Unwrap() []error {
	if e.cause == nil {
		return []error{e.inner}
	}
	return []error{e.inner, e.cause}
}

func (e *General) WithType(eType ErrorType) *General {
	e.eType = eType
	return e
}

func (e *General) WithCause(cause error) *General {
	e.cause = cause
	return e
}

func (e *General) WithOffset(offset int) *General {
	e.offset = offset
	return e
}

func (e *General) Offset() int {
	return e.offset
}

func (e *General) WithStack() *General {
	e.Stack = string(debug.Stack())
	return e
}

func (e *General) TODO() *General {
	return e.WithType(FutureImplementationError).WithStack()
}

type List []error

func (el List) Error() string {
	if len(el) == 0 {
		return ""
	}
	if len(el) == 1 {
		return el[0].Error()
	}
	var s string
	for i, e := range el {
		if i > 0 {
			s += "; "
		}
		s += e.Error()
	}
	return s
}

func (el List) Unwrap() []error {
	return el
}

// ErrorOrNil returns nil for an empty list so callers can return it directly.
func (el List) ErrorOrNil() error {
	if len(el) == 0 {
		return nil
	}
	return el
}
