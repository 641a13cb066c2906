package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	s := NewScorer(0)

	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "python developer with django", "python developer with django", 1},
		{"disjoint", "python developer", "marketing manager", 0},
		{"only stop words", "the and of", "python developer", 0},
		{"empty", "", "python", 0},
		// a: python, developer, python developer (df=1 each, idf=ln(1.5)+1)
		// b: python (df=2, idf=1), java, python java (idf=ln(1.5)+1)
		{"partial overlap", "python developer", "python java", 1 / (1 + 2*sq(math.Log(1.5)+1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func sq(x float64) float64 { return x * x }

func TestTermsDropsShortTokensAndStopWords(t *testing.T) {
	s := NewScorer(0)
	got := s.terms("I am a Go and C developer, building APIs")

	want := map[string]int{
		"developer":          1,
		"building":           1,
		"apis":               1,
		"developer building": 1,
		"building apis":      1,
	}
	if len(got) != len(want) {
		t.Fatalf("terms() = %v, want %v", got, want)
	}
	for term, count := range want {
		if got[term] != count {
			t.Errorf("terms()[%q] = %d, want %d", term, got[term], count)
		}
	}
}

func TestScoreScalesAndDoesNotClamp(t *testing.T) {
	s := NewScorer(DefaultMultiplier)

	if got := s.Score("kubernetes operator", "kubernetes operator"); got != 300 {
		t.Errorf("Score(identical) = %v, want 300", got)
	}
	if got := s.Scale(0.123456); math.Abs(got-12.35*3) > 1e-9 {
		t.Errorf("Scale() = %v, want %v", got, 12.35*3)
	}
	if got := NewScorer(1).Score("a b", "c d"); got != 0 {
		t.Errorf("Score(no terms) = %v, want 0", got)
	}
}

func TestCosineIsSymmetric(t *testing.T) {
	s := NewScorer(0)
	a := "senior golang engineer building distributed systems on kubernetes"
	b := "we need a golang engineer with kubernetes and terraform experience"
	if x, y := s.Cosine(a, b), s.Cosine(b, a); math.Abs(x-y) > 1e-12 {
		t.Errorf("Cosine not symmetric: %v vs %v", x, y)
	}
}
