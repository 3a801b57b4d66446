// Package evaluator computes the numeric value of plain arithmetic
// expressions such as "2+3*4" or "sqrt(16) + sin(pi/2)".
package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
)

// ErrEmpty is returned when there is nothing to evaluate.
var ErrEmpty = errors.New("empty expression")

// ErrNotNumeric is returned when an expression evaluates to something
// other than a number (a bool, a string, nil).
var ErrNotNumeric = errors.New("expression is not numeric")

// constants available to every expression.
var constants = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

// unary maps function names to their float implementations. abs, floor,
// ceil and round are expr builtins and are not redefined here.
var unary = map[string]func(float64) float64{
	"sqrt": math.Sqrt,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"log":  math.Log10,
	"log2": math.Log2,
	"cbrt": math.Cbrt,
}

// modFunc is the name "%" is rewritten to once operands are floats.
const modFunc = "mod"

// Evaluate compiles and runs expression, returning its value as float64.
// Integer results are widened. The result may be ±Inf or NaN (for
// example "1/0"); callers decide whether that is acceptable.
func Evaluate(expression string) (float64, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return 0, ErrEmpty
	}

	program, err := compile(expression)
	if err != nil {
		return 0, fmt.Errorf("compile %q: %w", expression, err)
	}

	out, err := expr.Run(program, constants)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q: %w", expression, err)
	}
	return ToFloat(out)
}

// MustBeFinite is Evaluate that also rejects ±Inf and NaN results.
func MustBeFinite(expression string) (float64, error) {
	v, err := Evaluate(expression)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v, fmt.Errorf("evaluate %q: non-finite result %v", expression, v)
	}
	return v, nil
}

// compile builds a program in which every number is a float64, so large
// products lose precision instead of wrapping around.
func compile(expression string) (*vm.Program, error) {
	opts := []expr.Option{
		expr.Env(constants),
		expr.Patch(floatPatcher{}),
		expr.Function(modFunc, func(params ...any) (any, error) {
			if len(params) != 2 {
				return nil, fmt.Errorf("%% expects 2 operands, got %d", len(params))
			}
			x, err := ToFloat(params[0])
			if err != nil {
				return nil, err
			}
			y, err := ToFloat(params[1])
			if err != nil {
				return nil, err
			}
			return math.Mod(x, y), nil
		}),
	}
	for name, fn := range unary {
		opts = append(opts, expr.Function(name, wrapUnary(name, fn)))
	}
	return expr.Compile(floatLiterals(expression), opts...)
}

// floatPatcher turns integer literals into floats and the integer-only
// "%" operator into a call to math.Mod.
type floatPatcher struct{}

func (floatPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: modFunc},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

// floatLiterals appends ".0" to plain decimal integer literals. The expr
// parser reads those as int64 and rejects anything past MaxInt64 before a
// patch could widen it. Digits inside identifiers ("log2") and hex, octal
// or binary literals are left alone.
func floatLiterals(expression string) string {
	var b strings.Builder
	b.Grow(len(expression) + 8)
	for i := 0; i < len(expression); {
		c := expression[i]
		if !isDigit(c) || (i > 0 && isWordByte(expression[i-1])) || inExponent(expression, i) {
			b.WriteByte(c)
			i++
			continue
		}
		j := i
		for j < len(expression) && (isDigit(expression[j]) || expression[j] == '_') {
			j++
		}
		b.WriteString(expression[i:j])
		if j == len(expression) || !isNumberTail(expression[j]) {
			b.WriteString(".0")
		}
		i = j
	}
	return b.String()
}

// inExponent reports whether position i starts the digits of a signed
// exponent such as the "3" in "2e-3".
func inExponent(s string, i int) bool {
	return i >= 3 && (s[i-1] == '-' || s[i-1] == '+') && s[i-2]|0x20 == 'e' && isDigit(s[i-3])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordByte(c byte) bool {
	return isDigit(c) || c == '_' || c == '.' || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

// isNumberTail reports whether c continues a literal that is already a
// float ("1.5", "1e3") or uses a radix prefix ("0x1f").
func isNumberTail(c byte) bool {
	return c == '.' || (c|0x20 >= 'a' && c|0x20 <= 'z')
}

func wrapUnary(name string, fn func(float64) float64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := ToFloat(params[0])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fn(x), nil
	}
}

// ToFloat converts the numeric kinds produced by the expression VM to float64.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
