package engine

import "errors"

// Parse/edit-time sentinel errors. These wrap fmt.Errorf("%w: ...") call
// sites throughout the package, following the teacher's own
// errors.New/fmt.Errorf style (no third-party error library is used
// anywhere in the retrieved example corpus).
var (
	// ErrParsePosition is wrapped by ParsePosition failures.
	ErrParsePosition = errors.New("could not parse input as a valid position")

	// ErrExprParse is wrapped by formula tokenizer/parser failures.
	ErrExprParse = errors.New("formula parse error")

	// ErrInvalidFormula is returned by Cell.Set when a formula fails to
	// parse (wrapping the ErrExprParse failure) or when a syntactically
	// valid formula references an out-of-range position. It corresponds to
	// the source's FormulaException.
	ErrInvalidFormula = errors.New("formula exception")

	// ErrCircularDependency is returned by Cell.Set when committing the
	// formula would create a cycle in the reference graph, or when the
	// formula references its own cell.
	ErrCircularDependency = errors.New("circular dependency exception")

	// ErrInvalidPosition is returned by the Sheet boundary (package sheet)
	// when an operation is given an out-of-range Position.
	ErrInvalidPosition = errors.New("invalid position exception")
)

// ErrorKind classifies an evaluation-time FormulaError. Evaluation errors
// are values returned from GetValue, never exceptions/panics.
type ErrorKind int

const (
	// ErrRef denotes a reference to a position outside the valid range.
	ErrRef ErrorKind = iota
	// ErrValue denotes arithmetic attempted on a text cell whose text does
	// not parse in its entirety as a finite number.
	ErrValue
	// ErrArithmetic denotes a non-finite arithmetic result (division by
	// zero, overflow, NaN).
	ErrArithmetic
)

// FormulaError is an evaluation-time failure. It is a value, not an
// exception: it propagates through arithmetic the way a NaN would.
type FormulaError struct {
	Kind ErrorKind
}

// Error renders the printed representation. The source conflates all three
// categories into the same literal string at print time (spec.md §9); this
// is preserved exactly. Callers that need to disambiguate must inspect Kind
// directly, never the string.
func (e FormulaError) Error() string {
	return "#ARITHM!"
}
