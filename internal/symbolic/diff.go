package symbolic

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for functions or operators that have no
// differentiation rule.
var ErrUnsupported = errors.New("unsupported expression")

// Diff returns d(e)/d(v).
func Diff(e Expr, v string) (Expr, error) {
	switch t := e.(type) {
	case Num:
		return Num{0}, nil
	case Var:
		if t.Name == v {
			return Num{1}, nil
		}
		return Num{0}, nil
	case Neg:
		dx, err := Diff(t.X, v)
		if err != nil {
			return nil, err
		}
		return neg(dx), nil
	case Add:
		dl, dr, err := diffPair(t.L, t.R, v)
		if err != nil {
			return nil, err
		}
		return add(dl, dr), nil
	case Sub:
		dl, dr, err := diffPair(t.L, t.R, v)
		if err != nil {
			return nil, err
		}
		return sub(dl, dr), nil
	case Mul:
		dl, dr, err := diffPair(t.L, t.R, v)
		if err != nil {
			return nil, err
		}
		return add(mul(t.L, dr), mul(dl, t.R)), nil
	case Div:
		dl, dr, err := diffPair(t.L, t.R, v)
		if err != nil {
			return nil, err
		}
		if !dependsOn(t.R, v) {
			return div(dl, t.R), nil
		}
		return div(sub(mul(dl, t.R), mul(t.L, dr)), pow(t.R, Num{2})), nil
	case Pow:
		return diffPow(t, v)
	case Call:
		return diffCall(t, v)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, e)
}

func diffPair(l, r Expr, v string) (Expr, Expr, error) {
	dl, err := Diff(l, v)
	if err != nil {
		return nil, nil, err
	}
	dr, err := Diff(r, v)
	if err != nil {
		return nil, nil, err
	}
	return dl, dr, nil
}

func diffPow(p Pow, v string) (Expr, error) {
	baseVaries := dependsOn(p.Base, v)
	expVaries := dependsOn(p.Exp, v)

	switch {
	case !baseVaries && !expVaries:
		return Num{0}, nil
	case !expVaries:
		// n * u^(n-1) * u'
		du, err := Diff(p.Base, v)
		if err != nil {
			return nil, err
		}
		return mul(mul(p.Exp, pow(p.Base, sub(p.Exp, Num{1}))), du), nil
	case !baseVaries:
		// b^w * ln(b) * w'
		dw, err := Diff(p.Exp, v)
		if err != nil {
			return nil, err
		}
		return mul(mul(p, call("ln", p.Base)), dw), nil
	default:
		// u^w * (w' ln(u) + w u'/u)
		du, dw, err := diffPair(p.Base, p.Exp, v)
		if err != nil {
			return nil, err
		}
		inner := add(mul(dw, call("ln", p.Base)), div(mul(p.Exp, du), p.Base))
		return mul(p, inner), nil
	}
}

func diffCall(c Call, v string) (Expr, error) {
	du, err := Diff(c.Arg, v)
	if err != nil {
		return nil, err
	}
	u := c.Arg

	var outer Expr
	switch c.Fn {
	case "sin":
		outer = call("cos", u)
	case "cos":
		outer = neg(call("sin", u))
	case "tan":
		outer = div(Num{1}, pow(call("cos", u), Num{2}))
	case "exp":
		outer = call("exp", u)
	case "ln":
		return div(du, u), nil
	case "log":
		return div(du, mul(u, call("ln", Num{10}))), nil
	case "sqrt":
		return div(du, mul(Num{2}, call("sqrt", u))), nil
	default:
		return nil, fmt.Errorf("%w: function %s", ErrUnsupported, c.Fn)
	}
	return mul(outer, du), nil
}
