// Package sheet is the public external-collaborator API over the
// dependency-tracking cell engine in internal/engine. It owns printable-area
// bookkeeping (the bounding rectangle of all non-empty cells), which is a
// concern of the sheet boundary, not of any individual cell.
//
// Grounded on original_source/spreadsheet/sheet.cpp's incremental
// row/column occupancy counters and boundary shrink-on-clear loop,
// reimplemented here over the engine's sparse CellStore rather than a
// dense/vector grid.
package sheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cellgraph/spreadsheet/internal/engine"
)

// Position identifies a single addressable cell. It is a type alias for
// the engine's Position so sheet callers never need to import
// internal/engine directly.
type Position = engine.Position

// ParsePosition parses an A1-style string ("B12") into a Position.
func ParsePosition(s string) (Position, error) { return engine.ParsePosition(s) }

// ValueKind tags the variant held by a Value.
type ValueKind = engine.ValueKind

const (
	ValText   = engine.ValText
	ValNumber = engine.ValNumber
	ValError  = engine.ValError
)

// Value is a cell's visible value: exactly one of a display string, a
// computed number, or an evaluation error.
type Value = engine.CellValue

// ErrorKind classifies an evaluation-time error.
type ErrorKind = engine.ErrorKind

const (
	ErrRef        = engine.ErrRef
	ErrValue      = engine.ErrValue
	ErrArithmetic = engine.ErrArithmetic
)

// FormulaError is an evaluation-time failure value.
type FormulaError = engine.FormulaError

// ErrInvalidPosition is returned by SetCell/GetCell/ClearCell when given a
// Position outside the addressable grid.
var ErrInvalidPosition = engine.ErrInvalidPosition

// ErrInvalidFormula is returned by SetCell when a formula fails to parse,
// or when a syntactically valid formula references an out-of-range
// position.
var ErrInvalidFormula = engine.ErrInvalidFormula

// ErrCircularDependency is returned by SetCell when committing the edit
// would create a cycle in the reference graph, including a formula that
// references its own cell.
var ErrCircularDependency = engine.ErrCircularDependency

// Sheet is a sparse, dependency-tracking grid of cells plus the printable
// bounding rectangle of its non-empty content. The zero value is not
// usable; construct with New.
type Sheet struct {
	store *engine.MapStore

	rowCount map[int]int // row -> count of currently non-empty cells in it
	colCount map[int]int // col -> count of currently non-empty cells in it

	hasContent     bool
	maxRow, maxCol int // inclusive bounds of the printable rectangle
}

// New returns an empty Sheet.
func New() *Sheet {
	return &Sheet{
		store:    engine.NewMapStore(),
		rowCount: make(map[int]int),
		colCount: make(map[int]int),
	}
}

// SetCell assigns text as the new content of the cell at pos, running the
// engine's parse/validate/commit protocol. On success the printable
// rectangle is grown if pos newly became non-empty, or shrunk if it newly
// became empty (an empty-string text clears the cell). On failure the
// cell's prior state, and the printable rectangle, are left untouched.
func (s *Sheet) SetCell(pos Position, text string) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	cell := s.store.GetOrCreate(pos)
	wasOccupied := cell.Kind() != engine.KindEmpty

	if err := cell.Set(s.store, text); err != nil {
		return err
	}

	s.updateOccupancy(pos, wasOccupied, cell.Kind() != engine.KindEmpty)
	return nil
}

// ClearCell reverts the cell at pos to Empty. Clearing a cell that is
// already empty, or that was never materialized, is a no-op. If nothing
// else references pos once the clear has run, the cell is removed from
// the backing store entirely (spec.md §3 Lifecycle: "destroyed only by an
// explicit clear that removes it from the grid"); a cell that other
// formulas still reference is kept as an Empty placeholder instead, since
// invariant 3 requires every referenced position to exist.
func (s *Sheet) ClearCell(pos Position) error {
	if !pos.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	cell, ok := s.store.Get(pos)
	if !ok {
		return nil
	}
	wasOccupied := cell.Kind() != engine.KindEmpty
	cell.Clear(s.store)
	s.updateOccupancy(pos, wasOccupied, false)
	if !cell.HasDependents() {
		s.store.Delete(pos)
	}
	return nil
}

// CellHandle is a read-only view onto one materialized cell, bound to the
// Sheet it came from.
type CellHandle struct {
	cell  *engine.Cell
	store engine.CellStore
}

// GetValue returns the cell's visible value, evaluating and caching a
// formula result as needed.
func (h CellHandle) GetValue() Value { return h.cell.GetValue(h.store) }

// GetText returns the cell's editable source text.
func (h CellHandle) GetText() string { return h.cell.GetText() }

// GetReferencedCells returns the sorted, duplicate-free positions this
// cell's formula directly reads, or nil for a non-formula cell.
func (h CellHandle) GetReferencedCells() []Position { return h.cell.GetReferencedCells() }

// GetCell returns a handle to the cell at pos, or ok=false if no cell is
// currently materialized there (a position never written nor referenced,
// or one removed by ClearCell). A cell auto-materialized as a formula
// dependency and never otherwise touched is returned as an Empty cell.
func (s *Sheet) GetCell(pos Position) (handle CellHandle, ok bool, err error) {
	if !pos.IsValid() {
		return CellHandle{}, false, fmt.Errorf("%w: %s", ErrInvalidPosition, pos)
	}
	cell, ok := s.store.Get(pos)
	if !ok {
		return CellHandle{}, false, nil
	}
	return CellHandle{cell: cell, store: s.store}, true, nil
}

// GetPrintableSize returns the bounding rectangle, in rows and columns, of
// every currently non-empty cell; clearing cells on its far edges shrinks
// it. A sheet with no non-empty cells reports (0, 0).
func (s *Sheet) GetPrintableSize() (rows, cols int) {
	if !s.hasContent {
		return 0, 0
	}
	return s.maxRow + 1, s.maxCol + 1
}

// updateOccupancy adjusts the row/column occupancy counters and the
// printable rectangle after a cell at pos transitioned between occupied
// (non-empty) and unoccupied states.
func (s *Sheet) updateOccupancy(pos Position, was, now bool) {
	if was == now {
		return
	}
	if now {
		s.rowCount[pos.Row]++
		s.colCount[pos.Col]++
		if !s.hasContent || pos.Row > s.maxRow {
			s.maxRow = pos.Row
		}
		if !s.hasContent || pos.Col > s.maxCol {
			s.maxCol = pos.Col
		}
		s.hasContent = true
		return
	}

	s.rowCount[pos.Row]--
	s.colCount[pos.Col]--
	s.shrinkPrintArea()
}

// shrinkPrintArea pulls the printable rectangle's far edges inward past any
// now-empty trailing rows/columns, mirroring the original's boundary
// shrink loop.
func (s *Sheet) shrinkPrintArea() {
	if !s.hasContent {
		return
	}
	for s.maxRow >= 0 && s.rowCount[s.maxRow] == 0 {
		s.maxRow--
	}
	for s.maxCol >= 0 && s.colCount[s.maxCol] == 0 {
		s.maxCol--
	}
	if s.maxRow < 0 || s.maxCol < 0 {
		s.hasContent = false
		s.maxRow, s.maxCol = 0, 0
	}
}

// PrintValues writes the printable rectangle to w as tab-separated rows of
// computed values: numbers in shortest round-trip form, text cells
// verbatim, and formula errors as their printed representation (e.g.
// "#ARITHM!"). Untouched cells within the rectangle print as "".
func (s *Sheet) PrintValues(w io.Writer) error {
	return s.printGrid(w, func(pos Position) string {
		cell, ok := s.store.Get(pos)
		if !ok {
			return ""
		}
		return formatValue(cell.GetValue(s.store))
	})
}

// PrintTexts writes the printable rectangle to w as tab-separated rows of
// editable source text (the same strings GetCell(pos).GetText() would
// return).
func (s *Sheet) PrintTexts(w io.Writer) error {
	return s.printGrid(w, func(pos Position) string {
		cell, ok := s.store.Get(pos)
		if !ok {
			return ""
		}
		return cell.GetText()
	})
}

func (s *Sheet) printGrid(w io.Writer, cellText func(Position) string) error {
	rows, cols := s.GetPrintableSize()
	var b strings.Builder
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(cellText(Position{Row: row, Col: col}))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// formatValue renders a Value for display. Unlike the formula grammar's
// number literals, display output is free to use the shortest
// representation strconv can produce, since it is never reparsed.
func formatValue(v Value) string {
	switch v.Kind {
	case ValText:
		return v.Text
	case ValNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValError:
		return v.Err.Error()
	}
	return ""
}
