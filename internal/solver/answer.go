package solver

import (
	"fmt"
	"strings"
)

// AnswerKind tags the concrete shape of an Answer.
type AnswerKind string

const (
	KindNumber        AnswerKind = "number"
	KindRoots         AnswerKind = "roots"
	KindNoRealRoots   AnswerKind = "no_real_roots"
	KindExpression    AnswerKind = "expression"
	KindEquationSides AnswerKind = "equation_sides"
	KindCircle        AnswerKind = "circle"
	KindRectangle     AnswerKind = "rectangle"
	KindTriangle      AnswerKind = "triangle"
	KindSquare        AnswerKind = "square"
	KindSphere        AnswerKind = "sphere"
	KindCube          AnswerKind = "cube"
	KindTrig          AnswerKind = "trigonometry"
	KindStats         AnswerKind = "statistics"
	KindWord          AnswerKind = "word"
	KindLabel         AnswerKind = "label"
	KindFailure       AnswerKind = "failure"
)

// FailureText is the answer shown for every failed solve.
const FailureText = "Xatolik"

// Answer is the result of a solve. The set of implementations is closed.
type Answer interface {
	Kind() AnswerKind

	// String is the compact display form of the answer.
	String() string

	isAnswer()
}

// NumberAnswer is a single numeric result.
type NumberAnswer struct {
	Value float64 `json:"value"`
}

// RootsAnswer holds the two real roots of a quadratic. When the
// discriminant is zero X1 == X2.
type RootsAnswer struct {
	X1           float64 `json:"x1"`
	X2           float64 `json:"x2"`
	Discriminant float64 `json:"discriminant"`
}

// NoRealRootsAnswer reports a quadratic with a negative discriminant.
type NoRealRootsAnswer struct {
	Discriminant float64 `json:"discriminant"`
}

// ExpressionAnswer is a symbolic result from the calculus solver.
type ExpressionAnswer struct {
	Expr string `json:"expr"`

	// Exact is false when the result is a placeholder rather than a
	// computed or tabulated antiderivative.
	Exact bool `json:"exact"`
}

// EquationSidesAnswer holds both sides of an equation that had no unknown
// and could be evaluated directly.
type EquationSidesAnswer struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

type CircleAnswer struct {
	Radius        float64 `json:"radius"`
	Circumference float64 `json:"circumference"`
	Area          float64 `json:"area"`
}

type RectangleAnswer struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Perimeter float64 `json:"perimeter"`
	Area      float64 `json:"area"`
}

type TriangleAnswer struct {
	Sides     [3]float64 `json:"sides"`
	Perimeter float64    `json:"perimeter"`
	Area      float64    `json:"area"`
}

type SquareAnswer struct {
	Side      float64 `json:"side"`
	Perimeter float64 `json:"perimeter"`
	Area      float64 `json:"area"`
	Diagonal  float64 `json:"diagonal"`
}

type SphereAnswer struct {
	Radius      float64 `json:"radius"`
	SurfaceArea float64 `json:"surface_area"`
	Volume      float64 `json:"volume"`
}

type CubeAnswer struct {
	Edge        float64 `json:"edge"`
	SurfaceArea float64 `json:"surface_area"`
	Volume      float64 `json:"volume"`
}

// TrigAnswer holds the three basic functions of one angle.
type TrigAnswer struct {
	// Angle is the value as written, in degrees unless InRadians.
	Angle     float64 `json:"angle"`
	InRadians bool    `json:"in_radians"`
	Radians   float64 `json:"radians"`
	Sin       float64 `json:"sin"`
	Cos       float64 `json:"cos"`
	Tan       float64 `json:"tan"`

	// TanUndefined is set when cos is numerically zero; Tan then holds
	// whatever huge value the float computation produced.
	TanUndefined bool `json:"tan_undefined"`
}

type StatsAnswer struct {
	Count    int       `json:"count"`
	Mean     float64   `json:"mean"`
	Median   float64   `json:"median"`
	Mode     []float64 `json:"mode"`
	Variance float64   `json:"variance"`
	StdDev   float64   `json:"std_dev"`
}

// WordAnswer is the result of folding the numbers of a word problem with
// the detected operation.
type WordAnswer struct {
	Operation string    `json:"operation"`
	Numbers   []float64 `json:"numbers"`
	Result    float64   `json:"result"`
}

// LabelAnswer is a fixed text answer.
type LabelAnswer struct {
	Text string `json:"text"`
}

// FailureAnswer is the sentinel answer of a failed solve.
type FailureAnswer struct{}

func (NumberAnswer) Kind() AnswerKind        { return KindNumber }
func (RootsAnswer) Kind() AnswerKind         { return KindRoots }
func (NoRealRootsAnswer) Kind() AnswerKind   { return KindNoRealRoots }
func (ExpressionAnswer) Kind() AnswerKind    { return KindExpression }
func (EquationSidesAnswer) Kind() AnswerKind { return KindEquationSides }
func (CircleAnswer) Kind() AnswerKind        { return KindCircle }
func (RectangleAnswer) Kind() AnswerKind     { return KindRectangle }
func (TriangleAnswer) Kind() AnswerKind      { return KindTriangle }
func (SquareAnswer) Kind() AnswerKind        { return KindSquare }
func (SphereAnswer) Kind() AnswerKind        { return KindSphere }
func (CubeAnswer) Kind() AnswerKind          { return KindCube }
func (TrigAnswer) Kind() AnswerKind          { return KindTrig }
func (StatsAnswer) Kind() AnswerKind         { return KindStats }
func (WordAnswer) Kind() AnswerKind          { return KindWord }
func (LabelAnswer) Kind() AnswerKind         { return KindLabel }
func (FailureAnswer) Kind() AnswerKind       { return KindFailure }

func (NumberAnswer) isAnswer()        {}
func (RootsAnswer) isAnswer()         {}
func (NoRealRootsAnswer) isAnswer()   {}
func (ExpressionAnswer) isAnswer()    {}
func (EquationSidesAnswer) isAnswer() {}
func (CircleAnswer) isAnswer()        {}
func (RectangleAnswer) isAnswer()     {}
func (TriangleAnswer) isAnswer()      {}
func (SquareAnswer) isAnswer()        {}
func (SphereAnswer) isAnswer()        {}
func (CubeAnswer) isAnswer()          {}
func (TrigAnswer) isAnswer()          {}
func (StatsAnswer) isAnswer()         {}
func (WordAnswer) isAnswer()          {}
func (LabelAnswer) isAnswer()         {}
func (FailureAnswer) isAnswer()       {}

func (a NumberAnswer) String() string { return formatAnswerNumber(a.Value) }

func (a RootsAnswer) String() string {
	return fmt.Sprintf("x₁ = %s, x₂ = %s", formatAnswerNumber(a.X1), formatAnswerNumber(a.X2))
}

func (NoRealRootsAnswer) String() string { return "Haqiqiy ildiz yo'q" }

func (a ExpressionAnswer) String() string { return a.Expr }

func (a EquationSidesAnswer) String() string {
	return fmt.Sprintf("chap = %s, o'ng = %s", formatAnswerNumber(a.Left), formatAnswerNumber(a.Right))
}

func (a CircleAnswer) String() string {
	return fmt.Sprintf("C = %s, S = %s", formatRounded(a.Circumference), formatRounded(a.Area))
}

func (a RectangleAnswer) String() string {
	return fmt.Sprintf("P = %s, S = %s", formatRounded(a.Perimeter), formatRounded(a.Area))
}

func (a TriangleAnswer) String() string {
	return fmt.Sprintf("P = %s, S = %s", formatRounded(a.Perimeter), formatRounded(a.Area))
}

func (a SquareAnswer) String() string {
	return fmt.Sprintf("P = %s, S = %s, d = %s",
		formatRounded(a.Perimeter), formatRounded(a.Area), formatRounded(a.Diagonal))
}

func (a SphereAnswer) String() string {
	return fmt.Sprintf("S = %s, V = %s", formatRounded(a.SurfaceArea), formatRounded(a.Volume))
}

func (a CubeAnswer) String() string {
	return fmt.Sprintf("S = %s, V = %s", formatRounded(a.SurfaceArea), formatRounded(a.Volume))
}

func (a TrigAnswer) String() string {
	return fmt.Sprintf("sin = %s, cos = %s, tan = %s",
		formatFixed(a.Sin, 4), formatFixed(a.Cos, 4), a.tanText())
}

func (a TrigAnswer) tanText() string {
	if a.TanUndefined {
		return "∞"
	}
	return formatFixed(a.Tan, 4)
}

func (a StatsAnswer) String() string {
	return fmt.Sprintf("x̄ = %s, Med = %s, Mode = %s, σ = %s",
		formatFixed(a.Mean, 2), formatNumber(a.Median), joinNumbers(a.Mode), formatFixed(a.StdDev, 2))
}

func (a WordAnswer) String() string { return formatAnswerNumber(a.Result) }

func (a LabelAnswer) String() string { return a.Text }

func (FailureAnswer) String() string { return FailureText }

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}
