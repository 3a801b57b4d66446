package symbolic

import (
	"errors"
	"testing"
)

func TestDerivative(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"5", "0"},
		{"x", "1"},
		{"x^2", "2x"},
		{"x**3", "3x^2"},
		{"3x^2 + 2x", "6x + 2"},
		{"3x^2 - 2x + 7", "6x - 2"},
		{"sin(x)", "cos(x)"},
		{"cos(x)", "-sin(x)"},
		{"e^x", "e^x"},
		{"ln(x)", "1/x"},
		{"1/x", "-1/x^2"},
		{"x*sin(x)", "x*cos(x) + sin(x)"},
		{"sin(2x)", "2cos(2x)"},
		{"exp(x)", "exp(x)"},
		{"y", "0"},
	}

	for _, tc := range tests {
		got, err := Derivative(tc.input, "x")
		if err != nil {
			t.Errorf("Derivative(%q) error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Derivative(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestDerivative_Unsupported(t *testing.T) {
	_, err := Derivative("gamma(x)", "x")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestDerivative_ParseError(t *testing.T) {
	if _, err := Derivative("3x +", "x"); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := Derivative("", "x"); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestInsertImplicitMul(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"3x", "3*x"},
		{"2(x+1)", "2*(x+1)"},
		{"(x+1)(x-1)", "(x+1)*(x-1)"},
		{"log2(x)", "log2(x)"},
		{"x**2", "x**2"},
		{"2 x", "2 *x"},
	}
	for _, tc := range tests {
		if got := insertImplicitMul(tc.in); got != tc.want {
			t.Errorf("insertImplicitMul(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
