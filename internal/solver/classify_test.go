package solver

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		problem string
		want    Topic
	}{
		{"2 + 3 * 4", TopicArithmetic},
		{"2x + 3 = 7", TopicAlgebra},
		{"x^2 - 5x + 6 = 0", TopicAlgebra},
		{"solve for a: a = 4", TopicAlgebra},
		{"derivative of x^2", TopicCalculus},
		{"∫ x dx", TopicCalculus},
		{"limit of 1/x", TopicCalculus},
		{"sin 30", TopicTrigonometry},
		{"area of circle with radius 5", TopicGeometry},
		{"sphere radius 3", TopicGeometry},
		{"3x^2 = 12", TopicAlgebra},
		{"mean of 2 4 4 4 5 5 7 9", TopicStatistics},
		{"[1 2; 3 4]", TopicMatrix},
		{"determinant of A", TopicMatrix},
		{"ali had 5 apples and his friend gave him 3 more, find the sum of apples", TopicWord},
		{"", TopicArithmetic},
	}

	for _, tc := range tests {
		if got := Classify(tc.problem); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.problem, got, tc.want)
		}
	}
}

func TestClassify_Priority(t *testing.T) {
	// Calculus wins over trigonometry.
	if got := Classify("derivative of sin(x)"); got != TopicCalculus {
		t.Errorf("derivative of sin(x) = %s, want calculus", got)
	}
	// Geometry wins over algebra even when an x is present.
	if got := Classify("rectangle 4 by 7"); got != TopicGeometry {
		t.Errorf("rectangle 4 by 7 = %s, want geometry", got)
	}
	// A stray x anywhere means algebra.
	if got := Classify("what is six plus four"); got != TopicAlgebra {
		t.Errorf("what is six plus four = %s, want algebra", got)
	}
}

func TestClassify_ShortProseIsArithmetic(t *testing.T) {
	if got := Classify("what is 5 and 3"); got != TopicArithmetic {
		t.Errorf("got %s, want arithmetic", got)
	}
}

func TestParseTopic(t *testing.T) {
	for _, topic := range AllTopics {
		got, ok := ParseTopic(string(topic))
		if !ok || got != topic {
			t.Errorf("ParseTopic(%q) = %q, %v", topic, got, ok)
		}
	}
	if _, ok := ParseTopic("astrology"); ok {
		t.Error("unknown topic should not parse")
	}
}
