package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseFormula(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Expr
		wantErr  bool
	}{
		{
			name:     "basic formula",
			input:    "1+1",
			expected: add(val(1), val(1)),
		},
		{
			name:     "ignore whitespace",
			input:    "  12 + 14",
			expected: add(val(12), val(14)),
		},
		{
			name:     "cell ref formula",
			input:    "A1*13",
			expected: mul(cellRef(0, 0), val(13)),
		},
		{
			name:  "mul before add",
			input: "A1*B2+C3*D4",
			expected: add(
				mul(cellRef(0, 0), cellRef(1, 1)),
				mul(cellRef(2, 2), cellRef(3, 3)),
			),
		},
		{
			name:     "unary expr",
			input:    "-123",
			expected: val(-123),
		},
		{
			name:     "multiply a negative",
			input:    "-123*-456",
			expected: mul(val(-123), val(-456)),
		},
		{
			name:     "subtract from a negative",
			input:    "-123-456",
			expected: sub(val(-123), val(456)),
		},
		{
			name:     "division chain",
			input:    "A1/B2/C3/D4",
			expected: div(div(div(cellRef(0, 0), cellRef(1, 1)), cellRef(2, 2)), cellRef(3, 3)),
		},
		{
			name:     "decimal literal",
			input:    "1.5+2.25",
			expected: add(val(1.5), val(2.25)),
		},
		{
			name:     "unary plus",
			input:    "+A1",
			expected: unaryPos(cellRef(0, 0)),
		},
		{
			name:    "bad expr",
			input:   "A1*",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			input:   "1+1)",
			wantErr: true,
		},
		{
			name:    "letters without digits",
			input:   "ABC",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseFormula(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, tt.expected, parsed)
		})
	}
}

func Test_PrintFormula(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "1+2*3", "1+2*3"},
		{"left assoc sub", "1-2-3", "1-2-3"},
		{"needs parens left of mul", "(1+2)*3", "(1+2)*3"},
		{"no parens needed right of add", "1+(2-3)", "1+2-3"},
		{"parens needed right of sub", "1-(2+3)", "1-(2+3)"},
		{"parens needed right of sub same op", "1-(2-3)", "1-(2-3)"},
		{"no parens right of mul", "1*(2/3)", "1*2/3"},
		{"parens needed right of div", "1/(2*3)", "1/(2*3)"},
		{"parens needed right of div same op", "1/(2/3)", "1/(2/3)"},
		{"unary over add needs parens", "-(1+2)", "-(1+2)"},
		{"unary over mul no parens", "-(1*2)", "-1*2"},
		{"cell ref", "A1+B2", "A1+B2"},
		{"nested parens collapse", "((1+2))", "1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFormula(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, PrintFormula(expr))
		})
	}
}

func Test_PrintFormula_idempotent(t *testing.T) {
	// R2: canonical_print(parse(canonical_print(parse(s)))) = canonical_print(parse(s))
	inputs := []string{
		"1+2*3", "(1+2)*3", "1-2-3", "1-(2-3)", "-(1+2)", "-A1*B1",
		"A1/B2/C3", "1/(2/3)", "-123*-456", "1.5+2.25/A9",
	}
	for _, in := range inputs {
		expr, err := ParseFormula(in)
		require.NoError(t, err)
		once := PrintFormula(expr)

		reparsed, err := ParseFormula(once)
		require.NoError(t, err)
		twice := PrintFormula(reparsed)

		assert.Equal(t, once, twice, "input %q", in)
	}
}

func Test_CellRefs(t *testing.T) {
	expr, err := ParseFormula("A1+B2*C3+A1")
	require.NoError(t, err)
	refs := CellRefs(expr)
	assert.Equal(t, []Position{cellPos(0, 0), cellPos(1, 1), cellPos(2, 2)}, refs)
}

func Test_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr ErrorKind
		isErr   bool
	}{
		{name: "arithmetic", input: "1+2*3", want: 7},
		{name: "division by zero", input: "1/0", isErr: true, wantErr: ErrArithmetic},
		{name: "cell ref resolves through resolver", input: "A1", want: 0},
		{name: "ref to out-of-range position is a Ref error", input: "AAAAA99999999", isErr: true, wantErr: ErrRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseFormula(tt.input)
			require.NoError(t, err)
			got, ferr := Evaluate(expr, zeroResolver{})
			if tt.isErr {
				require.NotNil(t, ferr)
				assert.Equal(t, tt.wantErr, ferr.Kind)
				return
			}
			require.Nil(t, ferr)
			assert.Equal(t, tt.want, got)
		})
	}
}

// zeroResolver resolves every cell reference to 0, for tests that only
// exercise arithmetic, not cross-cell lookups.
type zeroResolver struct{}

func (zeroResolver) Resolve(Position) (float64, *FormulaError) { return 0, nil }

func sub(x, y Expr) Expr { return BinaryExpr{X: x, Y: y, Op: '-'} }
func add(x, y Expr) Expr { return BinaryExpr{X: x, Y: y, Op: '+'} }
func mul(x, y Expr) Expr { return BinaryExpr{X: x, Y: y, Op: '*'} }
func div(x, y Expr) Expr { return BinaryExpr{X: x, Y: y, Op: '/'} }

func val(x float64) Expr { return NumExpr{Value: x} }

func cellPos(row, col int) Position { return Position{Row: row, Col: col} }

func cellRef(row, col int) Expr { return CellRefExpr{Ref: cellPos(row, col)} }

func unaryPos(x Expr) Expr { return UnaryExpr{Op: '+', X: x} }
