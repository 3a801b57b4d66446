// Package symbolic differentiates single-variable expressions such as
// "3x^2 + sin(x)". It covers polynomials, products, quotients, powers
// and the elementary functions sin, cos, tan, exp, ln, log and sqrt.
package symbolic

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node in an expression tree.
type Expr interface {
	String() string
	prec() int
}

// Operator precedence used when printing.
const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

type (
	// Num is a numeric constant.
	Num struct{ V float64 }

	// Var is a named symbol. Symbols other than the differentiation
	// variable are treated as constants.
	Var struct{ Name string }

	Add struct{ L, R Expr }
	Sub struct{ L, R Expr }
	Mul struct{ L, R Expr }
	Div struct{ L, R Expr }

	// Pow is Base raised to Exp.
	Pow struct{ Base, Exp Expr }

	// Neg is unary minus.
	Neg struct{ X Expr }

	// Call applies a named elementary function to one argument.
	Call struct {
		Fn  string
		Arg Expr
	}
)

func (n Num) prec() int {
	if n.V < 0 {
		return precUnary
	}
	return precAtom
}
func (Var) prec() int  { return precAtom }
func (Add) prec() int  { return precSum }
func (Sub) prec() int  { return precSum }
func (Mul) prec() int  { return precProduct }
func (Div) prec() int  { return precProduct }
func (Pow) prec() int  { return precPower }
func (Neg) prec() int  { return precUnary }
func (Call) prec() int { return precAtom }

func (n Num) String() string { return formatNum(n.V) }
func (v Var) String() string { return v.Name }

func (a Add) String() string {
	if pos, ok := negated(a.R); ok {
		return a.L.String() + " - " + wrap(pos, precProduct)
	}
	return a.L.String() + " + " + a.R.String()
}

func (s Sub) String() string {
	return s.L.String() + " - " + wrap(s.R, precProduct)
}

func (m Mul) String() string {
	right := m.R.String()
	if _, ok := m.R.(Mul); !ok {
		right = wrap(m.R, precPower)
	}
	if n, ok := m.L.(Num); ok && juxtaposable(m.R) {
		if n.V == -1 {
			return "-" + right
		}
		return n.String() + right
	}
	return wrap(m.L, precProduct) + "*" + right
}

func (d Div) String() string {
	return wrap(d.L, precProduct) + "/" + wrap(d.R, precUnary+1)
}

func (p Pow) String() string {
	return wrap(p.Base, precAtom) + "^" + wrap(p.Exp, precAtom)
}

func (n Neg) String() string { return "-" + wrap(n.X, precProduct) }

func (c Call) String() string { return c.Fn + "(" + c.Arg.String() + ")" }

func wrap(e Expr, min int) string {
	if e.prec() < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// juxtaposable reports whether a numeric coefficient can be written
// directly in front of e ("3x", "2cos(x)", "4x^3").
func juxtaposable(e Expr) bool {
	switch t := e.(type) {
	case Var, Call:
		return true
	case Pow:
		_, ok := t.Base.(Var)
		return ok
	}
	return false
}

// negated returns the positive form of e when e reads as a negative term.
func negated(e Expr) (Expr, bool) {
	switch t := e.(type) {
	case Num:
		if t.V < 0 {
			return Num{-t.V}, true
		}
	case Neg:
		return t.X, true
	case Mul:
		if n, ok := t.L.(Num); ok && n.V < 0 {
			return mul(Num{-n.V}, t.R), true
		}
	}
	return nil, false
}

func formatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// dependsOn reports whether e contains the variable v.
func dependsOn(e Expr, v string) bool {
	switch t := e.(type) {
	case Num:
		return false
	case Var:
		return t.Name == v
	case Add:
		return dependsOn(t.L, v) || dependsOn(t.R, v)
	case Sub:
		return dependsOn(t.L, v) || dependsOn(t.R, v)
	case Mul:
		return dependsOn(t.L, v) || dependsOn(t.R, v)
	case Div:
		return dependsOn(t.L, v) || dependsOn(t.R, v)
	case Pow:
		return dependsOn(t.Base, v) || dependsOn(t.Exp, v)
	case Neg:
		return dependsOn(t.X, v)
	case Call:
		return dependsOn(t.Arg, v)
	}
	return false
}
