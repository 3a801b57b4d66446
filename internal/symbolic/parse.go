package symbolic

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// Parse reads a single-variable expression. Implicit multiplication is
// accepted ("3x", "2(x+1)", "(x+1)(x-1)"), and both "^" and "**" mean
// exponentiation.
func Parse(input string) (Expr, error) {
	src := insertImplicitMul(strings.TrimSpace(input))
	if src == "" {
		return nil, fmt.Errorf("parse: empty expression")
	}
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", input, err)
	}
	return fromAST(tree.Node)
}

// Derivative parses input and returns the printed derivative with
// respect to v.
func Derivative(input, v string) (string, error) {
	e, err := Parse(input)
	if err != nil {
		return "", err
	}
	d, err := Diff(e, v)
	if err != nil {
		return "", fmt.Errorf("differentiate %q: %w", input, err)
	}
	return d.String(), nil
}

func fromAST(node ast.Node) (Expr, error) {
	switch n := node.(type) {
	case *ast.IntegerNode:
		return Num{float64(n.Value)}, nil
	case *ast.FloatNode:
		return Num{n.Value}, nil
	case *ast.IdentifierNode:
		return Var{n.Value}, nil
	case *ast.UnaryNode:
		x, err := fromAST(n.Node)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "-":
			return neg(x), nil
		case "+":
			return x, nil
		}
		return nil, fmt.Errorf("%w: unary %s", ErrUnsupported, n.Operator)
	case *ast.BinaryNode:
		l, err := fromAST(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := fromAST(n.Right)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "+":
			return Add{l, r}, nil
		case "-":
			return Sub{l, r}, nil
		case "*":
			return Mul{l, r}, nil
		case "/":
			return Div{l, r}, nil
		case "**", "^":
			return Pow{l, r}, nil
		}
		return nil, fmt.Errorf("%w: operator %s", ErrUnsupported, n.Operator)
	case *ast.CallNode:
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return nil, fmt.Errorf("%w: call target", ErrUnsupported)
		}
		return fromCall(ident.Value, n.Arguments)
	case *ast.BuiltinNode:
		return fromCall(n.Name, n.Arguments)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, node)
}

func fromCall(name string, args []ast.Node) (Expr, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s with %d arguments", ErrUnsupported, name, len(args))
	}
	arg, err := fromAST(args[0])
	if err != nil {
		return nil, err
	}
	return Call{name, arg}, nil
}

// insertImplicitMul writes the '*' a reader leaves out: between a number
// and a letter or '(' and after ')' when another operand follows. Digits
// that belong to an identifier (log2) are left alone.
func insertImplicitMul(s string) string {
	var b strings.Builder
	var prev rune
	inIdent := false
	prevInIdent := false

	for i, r := range s {
		if i > 0 {
			numberEnd := (unicode.IsDigit(prev) || prev == '.') && !prevInIdent
			if numberEnd && (unicode.IsLetter(r) || r == '(') {
				b.WriteByte('*')
			} else if prev == ')' && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '(') {
				b.WriteByte('*')
			}
		}

		switch {
		case unicode.IsLetter(r):
			inIdent = true
		case unicode.IsDigit(r):
			// keeps inIdent as is
		default:
			inIdent = false
		}

		b.WriteRune(r)
		if r != ' ' {
			prev = r
			prevInIdent = inIdent
		}
	}
	return b.String()
}
