package expr

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/specialistvlad/paragrid/internal/refpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntity struct{ name string }

// mapScope resolves single-segment paths to entities and two-segment paths
// to values stored under "Entity.prop".
type mapScope struct {
	entities map[string]*fakeEntity
	values   map[string]any
}

func newScope() *mapScope {
	return &mapScope{entities: map[string]*fakeEntity{}, values: map[string]any{}}
}

func (s *mapScope) add(name string, props map[string]any) *fakeEntity {
	e := &fakeEntity{name: name}
	s.entities[name] = e
	for k, v := range props {
		s.values[name+"."+k] = v
	}
	return e
}

func (s *mapScope) Resolve(p *refpath.Path) (Resolution, error) {
	e, ok := s.entities[p.Head().Name]
	if !ok {
		return Resolution{}, fmt.Errorf("no entity %q", p.Head().Name)
	}
	if p.Len() == 1 {
		return Resolution{Value: e, Target: e}, nil
	}
	v, ok := s.values[p.String()]
	if !ok {
		return Resolution{}, fmt.Errorf("no property %q", p.String())
	}
	return Resolution{Value: v, Target: e}, nil
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		raw  string
		want Class
	}{
		{`"hello"`, ClassString},
		{`"a+b"`, ClassString},
		{"3.0", ClassNumber},
		{"-3.5e2", ClassNumber},
		{".5", ClassNumber},
		{"[1, 2]", ClassCollection},
		{"{a}", ClassCollection},
		{"Point01", ClassReference},
		{"@Point01.X", ClassReference},
		{"Profile.Samples[1]", ClassReference},
		{"sin(x)", ClassFunctionCall},
		{"3.0+4.0", ClassCompound},
		{"a && b", ClassCompound},
		{"!flag", ClassCompound},
		{"(1)", ClassCompound},
		{`"a"+"b"`, ClassCompound},
		{"", ClassInvalid},
		{"a b", ClassInvalid},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.raw))
		})
	}
}

func TestParse_Trees(t *testing.T) {
	testCases := []struct {
		raw  string
		want string
	}{
		{"3.0+4.0", "(3+4)"},
		{"2+3*4", "(2+(3*4))"},
		{"(2+3)*4", "((2+3)*4)"},
		{"2^3^2", "(2^(3^2))"},
		{"-2^2", "-(2^2)"},
		{"a - b - c", "((a-b)-c)"},
		{"!a && b || c", "((!a&&b)||c)"},
		{"P.X * 2", "(P.X*2)"},
		{`"x" + name`, `("x"+name)`},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			n, err := Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n.String())
		})
	}
}

func TestParse_LiteralKinds(t *testing.T) {
	n, err := Parse(" -3.0 ")
	require.NoError(t, err)
	assert.Equal(t, NumberLiteral{Value: -3}, n)

	n, err = Parse(`"a + b"`)
	require.NoError(t, err)
	assert.Equal(t, StringLiteral{Value: "a + b"}, n)

	n, err = Parse("@Point01")
	require.NoError(t, err)
	assert.Equal(t, ReferenceKind, n.Kind())
	assert.Equal(t, "Point01", n.String())
}

func TestParse_Errors(t *testing.T) {
	var syntaxErr *SyntaxError
	var unsupported *UnsupportedError

	_, err := Parse("   ")
	assert.ErrorIs(t, err, ErrEmptyExpression)

	for _, raw := range []string{"1 +", "* 2", "(1+2", "1+2)", "a ! b", `"open + 1`, "1 & 2"} {
		_, err := Parse(raw)
		assert.True(t, errors.As(err, &syntaxErr), "%q: expected syntax error, got %v", raw, err)
	}

	for _, raw := range []string{"[1,2]", "max(a, b)", "1 + max(a)", "1 + [2]"} {
		_, err := Parse(raw)
		assert.True(t, errors.As(err, &unsupported), "%q: expected unsupported error, got %v", raw, err)
	}
}

func TestSolve_Literals(t *testing.T) {
	e, err := New("3.0+4.0", nil)
	require.NoError(t, err)
	v, err := e.Solve()
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)

	e, err = New(`"para" + "grid"`, nil)
	require.NoError(t, err)
	v, err = e.Solve()
	require.NoError(t, err)
	assert.Equal(t, "paragrid", v)

	// A prefix minus applies to the whole power.
	e, err = New("-2.0 ^ 2.0", nil)
	require.NoError(t, err)
	v, err = e.Solve()
	require.NoError(t, err)
	assert.Equal(t, -4.0, v)
}

func TestSolve_References(t *testing.T) {
	scope := newScope()
	point := scope.add("Point01", map[string]any{"X": 0.5, "Y": 0.5, "Z": 0.5})
	scope.add("Counter", map[string]any{"N": int64(3), "Flag": true, "Small": 2})

	testCases := []struct {
		raw  string
		want any
	}{
		{"Point01", point},
		{"Point01.X", 0.5},
		{"Point01.X + Point01.Y * 2", 1.5},
		{"Counter.N * 4", nil}, // mixed Integer/Double
		{"Counter.N * Counter.N", int64(9)},
		{"Counter.N ^ Counter.Small", int64(9)},
		{"Counter.N % Counter.Small", int64(1)},
		{"!Counter.Flag", false},
		{"-Point01.Z", -0.5},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			e, err := New(tc.raw, scope)
			require.NoError(t, err)
			v, err := e.Solve()
			if tc.want == nil {
				var typeErr *OperandTypeError
				require.ErrorAs(t, err, &typeErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestSolve_Failures(t *testing.T) {
	scope := newScope()
	scope.add("A", map[string]any{"I": int64(1), "Zero": int64(0), "S": "text", "Empty": nil})

	var arith *ArithmeticError
	e, err := New("A.I / A.Zero", scope)
	require.NoError(t, err)
	_, err = e.Solve()
	assert.ErrorAs(t, err, &arith)

	var typeErr *OperandTypeError
	e, err = New("A.S - A.S", scope)
	require.NoError(t, err)
	_, err = e.Solve()
	assert.ErrorAs(t, err, &typeErr)

	e, err = New("Missing.X + 1", scope)
	require.NoError(t, err)
	_, err = e.Solve()
	assert.Error(t, err)

	e, err = New("Missing", nil)
	require.NoError(t, err)
	_, err = e.Solve()
	assert.Error(t, err)

	e, err = New("A.Empty", scope)
	require.NoError(t, err)
	_, err = e.Solve()
	assert.ErrorContains(t, err, "has no value")
	deps, err := e.Dependencies()
	require.NoError(t, err)
	assert.Len(t, deps, 1)
}

func TestSolve_IntegerOverflow(t *testing.T) {
	scope := newScope()
	scope.add("I", map[string]any{
		"Max":      int64(math.MaxInt64),
		"Min":      int64(math.MinInt64),
		"One":      int64(1),
		"MinusOne": int64(-1),
		"Two":      int64(2),
		"Big":      int64(1) << 32,
		"Exp":      int64(63),
		"Exp62":    int64(62),
	})

	testCases := []struct {
		raw  string
		want int64
		fail bool
	}{
		{raw: "I.Max + I.One", fail: true},
		{raw: "I.Min - I.One", fail: true},
		{raw: "I.Big * I.Big", fail: true},
		{raw: "I.Min * I.MinusOne", fail: true},
		{raw: "I.Min / I.MinusOne", fail: true},
		{raw: "-I.Min", fail: true},
		{raw: "I.Two ^ I.Exp", fail: true},
		{raw: "I.Max - I.One + I.One", want: math.MaxInt64},
		{raw: "I.Min % I.MinusOne", want: 0},
		{raw: "I.Two ^ I.Exp62", want: 1 << 62},
		{raw: "I.MinusOne ^ I.Exp", want: -1},
		{raw: "(I.Big - I.One) * I.Two", want: (1<<32 - 1) * 2},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			e, err := New(tc.raw, scope)
			require.NoError(t, err)
			v, err := e.Solve()
			if tc.fail {
				var arith *ArithmeticError
				require.ErrorAs(t, err, &arith)
				assert.Contains(t, arith.Error(), "integer overflow")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestDependencies(t *testing.T) {
	scope := newScope()
	p1 := scope.add("P1", map[string]any{"X": 1.0})
	p2 := scope.add("P2", map[string]any{"X": 2.0})

	e, err := New("P1.X + P2.X * P1.X - 3", scope)
	require.NoError(t, err)
	deps, err := e.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []any{p1, p2}, deps)

	e, err = New("4.0", scope)
	require.NoError(t, err)
	deps, err = e.Dependencies()
	require.NoError(t, err)
	assert.Empty(t, deps)

	e, err = New("P1 + Ghost", scope)
	require.NoError(t, err)
	_, err = e.Dependencies()
	assert.Error(t, err, "an unresolved reference must not be silently dropped")
}

func TestReferences(t *testing.T) {
	n, err := Parse("A.x + B * (C.y - 1)")
	require.NoError(t, err)
	var got []string
	for _, p := range References(n) {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"A.x", "B", "C.y"}, got)
}

func TestCompiler_Cache(t *testing.T) {
	c, err := NewCompiler(2)
	require.NoError(t, err)

	scope := newScope()
	scope.add("P", map[string]any{"X": 2.0})

	first, err := c.Compile("P.X * 2", scope)
	require.NoError(t, err)
	second, err := c.Compile("  P.X * 2  ", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Cached())
	assert.Equal(t, first.Root(), second.Root())

	v, err := first.Solve()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)

	_, err = c.Compile("1+", scope)
	require.Error(t, err)
	assert.Equal(t, 1, c.Cached(), "failed parses are not cached")

	_, err = c.Compile("1", nil)
	require.NoError(t, err)
	_, err = c.Compile("2", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Cached())
}
