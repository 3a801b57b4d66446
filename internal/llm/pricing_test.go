package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		in    int
		out   int
		want  float64
	}{
		{"claude-sonnet-4-5-20250929", 1_000_000, 0, 3},
		{"gpt-4o", 1000, 1000, 0.0125},
		{"google/gemini-2.5-flash", 0, 1_000_000, 2.5},
	}
	for _, tt := range tests {
		c := LookupCost(tt.model)
		if c == nil {
			t.Fatalf("LookupCost(%q) = nil", tt.model)
		}
		if got := c.Cost(tt.in, tt.out); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s cost = %v, want %v", tt.model, got, tt.want)
		}
	}

	if LookupCost("mock") != nil {
		t.Error("expected nil cost for unknown model")
	}
}
