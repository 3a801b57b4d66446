package symbolic

import "math"

// The constructors below fold constants and drop identities as they
// build, so derivative output stays readable without a separate
// simplification pass.

func isNum(e Expr, v float64) bool {
	n, ok := e.(Num)
	return ok && n.V == v
}

func add(a, b Expr) Expr {
	na, aok := a.(Num)
	nb, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{na.V + nb.V}
	case isNum(a, 0):
		return b
	case isNum(b, 0):
		return a
	}
	if pos, ok := negated(b); ok {
		return Sub{a, pos}
	}
	return Add{a, b}
}

func sub(a, b Expr) Expr {
	na, aok := a.(Num)
	nb, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{na.V - nb.V}
	case isNum(b, 0):
		return a
	case isNum(a, 0):
		return neg(b)
	}
	if pos, ok := negated(b); ok {
		return Add{a, pos}
	}
	return Sub{a, b}
}

func neg(e Expr) Expr {
	switch t := e.(type) {
	case Num:
		return Num{-t.V}
	case Neg:
		return t.X
	case Mul:
		if n, ok := t.L.(Num); ok {
			return mul(Num{-n.V}, t.R)
		}
	}
	return Neg{e}
}

func mul(a, b Expr) Expr {
	// Keep numeric coefficients on the left.
	if _, ok := b.(Num); ok {
		if _, ok := a.(Num); !ok {
			a, b = b, a
		}
	}
	na, aok := a.(Num)
	nb, bok := b.(Num)
	switch {
	case aok && bok:
		return Num{na.V * nb.V}
	case isNum(a, 0) || isNum(b, 0):
		return Num{0}
	case isNum(a, 1):
		return b
	case isNum(b, 1):
		return a
	case isNum(a, -1):
		return neg(b)
	}
	if aok {
		switch t := b.(type) {
		case Mul:
			if inner, ok := t.L.(Num); ok {
				return mul(Num{na.V * inner.V}, t.R)
			}
		case Neg:
			return mul(Num{-na.V}, t.X)
		}
	}
	if t, ok := a.(Neg); ok {
		return neg(mul(t.X, b))
	}
	if t, ok := b.(Neg); ok {
		return neg(mul(a, t.X))
	}
	return Mul{a, b}
}

func div(a, b Expr) Expr {
	na, aok := a.(Num)
	nb, bok := b.(Num)
	switch {
	case aok && bok && nb.V != 0:
		return Num{na.V / nb.V}
	case isNum(a, 0):
		return Num{0}
	case isNum(b, 1):
		return a
	}
	return Div{a, b}
}

func pow(base, exp Expr) Expr {
	nb, bok := base.(Num)
	ne, eok := exp.(Num)
	switch {
	case bok && eok:
		return Num{math.Pow(nb.V, ne.V)}
	case isNum(exp, 0):
		return Num{1}
	case isNum(exp, 1):
		return base
	}
	return Pow{base, exp}
}

func call(fn string, arg Expr) Expr {
	if v, ok := arg.(Var); ok && v.Name == "e" && fn == "ln" {
		return Num{1}
	}
	if isNum(arg, 0) {
		switch fn {
		case "sin", "tan", "sqrt":
			return Num{0}
		case "cos", "exp":
			return Num{1}
		}
	}
	return Call{fn, arg}
}
