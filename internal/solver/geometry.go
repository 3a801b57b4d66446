package solver

import (
	"fmt"
	"math"
)

// shapeDimensions is how many numbers each shape needs.
var shapeDimensions = map[string]int{
	"circle":    1,
	"rectangle": 2,
	"triangle":  3,
	"square":    1,
	"sphere":    1,
	"cube":      1,
}

func (s *Solver) solveGeometry(problem string) (outcome, error) {
	var shape string
	switch {
	case containsAny(problem, "circle"):
		shape = "circle"
	case containsAny(problem, "rectangle", "rectangular"):
		shape = "rectangle"
	case containsAny(problem, "triangle"):
		shape = "triangle"
	case containsAny(problem, "square"):
		shape = "square"
	case containsAny(problem, "sphere"):
		shape = "sphere"
	case containsAny(problem, "cube"):
		shape = "cube"
	case containsAny(problem, "radius", "circumference", "diameter"):
		shape = "circle"
	default:
		return outcome{}, newError(KindUnknownShape, "no shape keyword found", nil)
	}

	nums := scanNumbers(problem)
	if need := shapeDimensions[shape]; len(nums) < need {
		return outcome{}, newErrorf(KindInsufficientDimensions, "%s needs %d number(s), found %d", shape, need, len(nums))
	}

	switch shape {
	case "circle":
		return solveCircle(nums[0]), nil
	case "rectangle":
		return solveRectangle(nums[0], nums[1]), nil
	case "triangle":
		return solveTriangle(nums[0], nums[1], nums[2])
	case "square":
		return solveSquare(nums[0]), nil
	case "sphere":
		return solveSphere(nums[0]), nil
	default:
		return solveCube(nums[0]), nil
	}
}

func solveCircle(r float64) outcome {
	var out outcome
	out.steps.add("Berilgan", "Radius (r) = "+formatNumber(r), "Doira radiusi")

	circumference := 2 * math.Pi * r
	out.steps.add("Aylana uzunligi",
		fmt.Sprintf("C = 2πr = 2 × π × %s = %s", formatNumber(r), formatFixed(circumference, 2)),
		"Formula: C = 2πr")

	area := math.Pi * r * r
	out.steps.add("Doira yuzasi",
		fmt.Sprintf("S = πr² = π × %s² = %s", formatNumber(r), formatFixed(area, 2)),
		"Formula: S = πr²")

	out.answer = CircleAnswer{Radius: r, Circumference: circumference, Area: area}
	out.explanation = fmt.Sprintf("Radius %s bo'lgan doiraning aylana uzunligi %s va yuzasi %s.",
		formatNumber(r), formatFixed(circumference, 2), formatFixed(area, 2))
	return out
}

func solveRectangle(length, width float64) outcome {
	var out outcome
	out.steps.add("Berilgan",
		fmt.Sprintf("Uzunlik = %s, Kenglik = %s", formatNumber(length), formatNumber(width)),
		"To'rtburchak o'lchamlari")

	perimeter := 2 * (length + width)
	out.steps.add("Perimetr",
		fmt.Sprintf("P = 2(l + w) = 2(%s + %s) = %s", formatNumber(length), formatNumber(width), formatRounded(perimeter)),
		"Formula: P = 2(l + w)")

	area := length * width
	out.steps.add("Yuza",
		fmt.Sprintf("S = l × w = %s × %s = %s", formatNumber(length), formatNumber(width), formatRounded(area)),
		"Formula: S = l × w")

	out.answer = RectangleAnswer{Length: length, Width: width, Perimeter: perimeter, Area: area}
	out.explanation = fmt.Sprintf("To'rtburchakning perimetri %s va yuzasi %s.", formatRounded(perimeter), formatRounded(area))
	return out
}

func solveTriangle(a, b, c float64) (outcome, error) {
	var out outcome
	out.steps.add("Berilgan tomonlar",
		fmt.Sprintf("a = %s, b = %s, c = %s", formatNumber(a), formatNumber(b), formatNumber(c)),
		"Uchburchak tomonlari")

	perimeter := a + b + c
	out.steps.add("Perimetr",
		fmt.Sprintf("P = a + b + c = %s + %s + %s = %s", formatNumber(a), formatNumber(b), formatNumber(c), formatRounded(perimeter)),
		"Barcha tomonlar yig'indisi")

	semi := perimeter / 2
	out.steps.add("Yarim perimetr",
		fmt.Sprintf("s = P/2 = %s/2 = %s", formatRounded(perimeter), formatRounded(semi)),
		"Heron formulasi uchun")

	radicand := semi * (semi - a) * (semi - b) * (semi - c)
	if radicand <= 0 {
		return out, newErrorf(KindGeometricDomainError,
			"sides %s, %s, %s do not form a triangle", formatNumber(a), formatNumber(b), formatNumber(c))
	}

	area := math.Sqrt(radicand)
	out.steps.add("Yuza (Heron formulasi)",
		"S = √[s(s-a)(s-b)(s-c)] = "+formatFixed(area, 2),
		"S = √[s(s-a)(s-b)(s-c)]")

	out.answer = TriangleAnswer{Sides: [3]float64{a, b, c}, Perimeter: perimeter, Area: area}
	out.explanation = fmt.Sprintf("Uchburchakning perimetri %s va yuzasi %s.", formatRounded(perimeter), formatFixed(area, 2))
	return out, nil
}

func solveSquare(side float64) outcome {
	var out outcome
	out.steps.add("Berilgan", "Tomon (a) = "+formatNumber(side), "Kvadrat tomoni")

	perimeter := 4 * side
	out.steps.add("Perimetr",
		fmt.Sprintf("P = 4a = 4 × %s = %s", formatNumber(side), formatRounded(perimeter)),
		"Formula: P = 4a")

	area := side * side
	out.steps.add("Yuza",
		fmt.Sprintf("S = a² = %s² = %s", formatNumber(side), formatRounded(area)),
		"Formula: S = a²")

	diagonal := side * math.Sqrt2
	out.steps.add("Diagonal",
		fmt.Sprintf("d = a√2 = %s√2 = %s", formatNumber(side), formatFixed(diagonal, 2)),
		"Formula: d = a√2")

	out.answer = SquareAnswer{Side: side, Perimeter: perimeter, Area: area, Diagonal: diagonal}
	out.explanation = fmt.Sprintf("Kvadratning perimetri %s, yuzasi %s, diagonali %s.",
		formatRounded(perimeter), formatRounded(area), formatFixed(diagonal, 2))
	return out
}

func solveSphere(r float64) outcome {
	var out outcome
	out.steps.add("Berilgan", "Radius (r) = "+formatNumber(r), "Shar radiusi")

	surface := 4 * math.Pi * r * r
	out.steps.add("Sirt yuzasi",
		fmt.Sprintf("S = 4πr² = 4 × π × %s² = %s", formatNumber(r), formatFixed(surface, 2)),
		"Formula: S = 4πr²")

	volume := 4.0 / 3.0 * math.Pi * r * r * r
	out.steps.add("Hajm",
		fmt.Sprintf("V = (4/3)πr³ = (4/3) × π × %s³ = %s", formatNumber(r), formatFixed(volume, 2)),
		"Formula: V = (4/3)πr³")

	out.answer = SphereAnswer{Radius: r, SurfaceArea: surface, Volume: volume}
	out.explanation = fmt.Sprintf("Sharning sirt yuzasi %s va hajmi %s.", formatFixed(surface, 2), formatFixed(volume, 2))
	return out
}

func solveCube(edge float64) outcome {
	var out outcome
	out.steps.add("Berilgan", "Qirra (a) = "+formatNumber(edge), "Kub qirrasi")

	surface := 6 * edge * edge
	out.steps.add("Sirt yuzasi",
		fmt.Sprintf("S = 6a² = 6 × %s² = %s", formatNumber(edge), formatRounded(surface)),
		"Formula: S = 6a²")

	volume := edge * edge * edge
	out.steps.add("Hajm",
		fmt.Sprintf("V = a³ = %s³ = %s", formatNumber(edge), formatRounded(volume)),
		"Formula: V = a³")

	out.answer = CubeAnswer{Edge: edge, SurfaceArea: surface, Volume: volume}
	out.explanation = fmt.Sprintf("Kubning sirt yuzasi %s va hajmi %s.", formatRounded(surface), formatRounded(volume))
	return out
}
