package layout

import (
	"strings"
	"testing"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{120, 23, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v", tt.w, tt.h, got)
		}
	}
}

func TestRenderHeaderShowsStats(t *testing.T) {
	out := RenderHeader("Solve", HeaderStats{Solved: 12, Accuracy: 91.6}, 100)
	for _, want := range []string{"Yechim", "Solve", "✓ 12", "◎ 92%"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q:\n%s", want, out)
		}
	}
}

func TestRenderFooterJoinsHints(t *testing.T) {
	out := RenderFooter([]KeyHint{{"Enter", "Solve"}, {"Esc", "Back"}}, 80)
	if !strings.Contains(out, "Enter") || !strings.Contains(out, "Back") {
		t.Errorf("footer = %s", out)
	}
}
