package solver

import (
	"errors"
	"fmt"
)

// ErrorKind identifies why a solve failed.
type ErrorKind string

const (
	KindEmptyExpression          ErrorKind = "empty_expression"
	KindMalformedEquation        ErrorKind = "malformed_equation"
	KindZeroCoefficient          ErrorKind = "zero_coefficient"
	KindCoefficientParseFailure  ErrorKind = "coefficient_parse_failure"
	KindUnsolvableEquation       ErrorKind = "unsolvable_equation"
	KindUnknownCalculusOperation ErrorKind = "unknown_calculus_operation"
	KindInsufficientDimensions   ErrorKind = "insufficient_dimensions"
	KindGeometricDomainError     ErrorKind = "geometric_domain_error"
	KindUnknownShape             ErrorKind = "unknown_shape"
	KindNoData                   ErrorKind = "no_data"
	KindNoNumbersFound           ErrorKind = "no_numbers_found"
	KindUnknownOperation         ErrorKind = "unknown_operation"
	KindDivisionByZero           ErrorKind = "division_by_zero"
	KindInvalidExpression        ErrorKind = "invalid_expression"
	KindNonFiniteResult          ErrorKind = "non_finite_result"
	KindUnrecognizedProblem      ErrorKind = "unrecognized_problem"
)

// SolveError is the error carried by a failed Solution.
type SolveError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *SolveError) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SolveError) Unwrap() error { return e.Err }

// Is matches any *SolveError of the same kind, so errors.Is works against
// the sentinels below regardless of detail.
func (e *SolveError) Is(target error) bool {
	t, ok := target.(*SolveError)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrEmptyExpression          = &SolveError{Kind: KindEmptyExpression}
	ErrMalformedEquation        = &SolveError{Kind: KindMalformedEquation}
	ErrZeroCoefficient          = &SolveError{Kind: KindZeroCoefficient}
	ErrCoefficientParseFailure  = &SolveError{Kind: KindCoefficientParseFailure}
	ErrUnsolvableEquation       = &SolveError{Kind: KindUnsolvableEquation}
	ErrUnknownCalculusOperation = &SolveError{Kind: KindUnknownCalculusOperation}
	ErrInsufficientDimensions   = &SolveError{Kind: KindInsufficientDimensions}
	ErrGeometricDomainError     = &SolveError{Kind: KindGeometricDomainError}
	ErrUnknownShape             = &SolveError{Kind: KindUnknownShape}
	ErrNoData                   = &SolveError{Kind: KindNoData}
	ErrNoNumbersFound           = &SolveError{Kind: KindNoNumbersFound}
	ErrUnknownOperation         = &SolveError{Kind: KindUnknownOperation}
	ErrDivisionByZero           = &SolveError{Kind: KindDivisionByZero}
	ErrInvalidExpression        = &SolveError{Kind: KindInvalidExpression}
	ErrNonFiniteResult          = &SolveError{Kind: KindNonFiniteResult}
	ErrUnrecognizedProblem      = &SolveError{Kind: KindUnrecognizedProblem}
)

func newError(kind ErrorKind, detail string, cause error) *SolveError {
	return &SolveError{Kind: kind, Detail: detail, Err: cause}
}

func newErrorf(kind ErrorKind, format string, args ...any) *SolveError {
	return &SolveError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost *SolveError in err's chain.
func KindOf(err error) ErrorKind {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
