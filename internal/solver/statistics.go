package solver

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

func (s *Solver) solveStatistics(problem string) (outcome, error) {
	var out outcome

	data := scanNumbers(problem)
	if len(data) == 0 {
		return out, newError(KindNoData, "no numbers in data set", nil)
	}
	n := float64(len(data))

	out.steps.add("Ma'lumotlar", joinNumbers(data), strconv.Itoa(len(data))+" ta element")

	var sum float64
	for _, v := range data {
		sum += v
	}
	mean := sum / n
	out.steps.add("O'rtacha (Mean)", "x̄ = Σx/n = "+formatFixed(mean, 2),
		"Barcha qiymatlar yig'indisini elementlar soniga bo'lish")

	med := median(data)
	out.steps.add("Mediana", "Med = "+formatNumber(med), "O'rtadagi qiymat")

	modes := mode(data)
	out.steps.add("Moda", "Mode = "+joinNumbers(modes), "Eng ko'p takrorlangan qiymat")

	var squares float64
	for _, v := range data {
		squares += (v - mean) * (v - mean)
	}
	variance := squares / n
	stdDev := math.Sqrt(variance)
	out.steps.add("Standart og'ish",
		fmt.Sprintf("σ² = %s, σ = %s", formatFixed(variance, 2), formatFixed(stdDev, 2)),
		"Ma'lumotlarning tarqalishi")

	out.answer = StatsAnswer{
		Count:    len(data),
		Mean:     mean,
		Median:   med,
		Mode:     modes,
		Variance: variance,
		StdDev:   stdDev,
	}
	out.explanation = fmt.Sprintf("Statistik tahlil: O'rtacha %s, Mediana %s, Standart og'ish %s.",
		formatFixed(mean, 2), formatNumber(med), formatFixed(stdDev, 2))
	return out, nil
}

func median(data []float64) float64 {
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// mode returns every value with the highest frequency, in the order each
// value first appears in data.
func mode(data []float64) []float64 {
	counts := make(map[float64]int, len(data))
	var order []float64
	best := 0
	for _, v := range data {
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
		best = max(best, counts[v])
	}

	var out []float64
	for _, v := range order {
		if counts[v] == best {
			out = append(out, v)
		}
	}
	return out
}
