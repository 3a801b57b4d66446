package solver

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var angleRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:degrees?|deg|°)?`)

// defaultAngle is used when the problem names no angle.
const defaultAngle = 30.0

// cosZeroTolerance is how close cos must be to zero for tan to be
// reported as undefined.
const cosZeroTolerance = 1e-12

func (s *Solver) solveTrigonometry(problem string) (outcome, error) {
	var out outcome

	angle := defaultAngle
	if m := angleRe.FindStringSubmatch(problem); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return out, newError(KindInvalidExpression, "angle "+m[1], err)
		}
		angle = v
	}

	inRadians := strings.Contains(problem, "radian")
	radians := angle
	unit := "°"
	if inRadians {
		unit = " rad"
		out.steps.add("Berilgan burchak", "θ = "+formatNumber(angle)+" rad", "Burchak radianda")
	} else {
		radians = angle * math.Pi / 180
		out.steps.add("Berilgan burchak",
			fmt.Sprintf("θ = %s° = %s rad", formatNumber(angle), formatFixed(radians, 4)),
			"Burchak daraja va radianda")
	}
	label := formatNumber(angle) + unit

	sin, cos := math.Sincos(radians)
	tan := math.Tan(radians)
	tanUndefined := math.Abs(cos) < cosZeroTolerance

	out.steps.add("Sinus", fmt.Sprintf("sin(%s) = %s", label, formatFixed(sin, 4)), "Sinus qiymati")
	out.steps.add("Kosinus", fmt.Sprintf("cos(%s) = %s", label, formatFixed(cos, 4)), "Kosinus qiymati")

	answer := TrigAnswer{
		Angle:        angle,
		InRadians:    inRadians,
		Radians:      radians,
		Sin:          sin,
		Cos:          cos,
		Tan:          tan,
		TanUndefined: tanUndefined,
	}
	tanNote := "Tangens qiymati"
	if tanUndefined {
		tanNote = "cos θ = 0, tangens aniqlanmagan"
	}
	out.steps.add("Tangens", fmt.Sprintf("tan(%s) = %s", label, answer.tanText()), tanNote)

	identity := sin*sin + cos*cos
	out.steps.add("Asosiy identifikatsiya",
		fmt.Sprintf("sin²θ + cos²θ = %s ≈ 1", formatFixed(identity, 4)),
		"sin²θ + cos²θ = 1 (tekshirish)")

	out.answer = answer
	out.explanation = label + " burchak uchun trigonometrik funksiyalar hisoblab chiqildi."
	return out, nil
}
