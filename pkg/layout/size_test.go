package layout

import (
	"strings"
	"sync"
	"testing"
)

func TestSizeEstimator_Estimate(t *testing.T) {
	tests := []struct {
		name  string
		title string
		width float64
		want  float64
	}{
		{"empty title is one line", "", 220, 56},
		{"short title", "Add index", 220, 56},
		{"wraps to three lines", strings.Repeat("x", 60), 220, 92},
		{"narrow card", strings.Repeat("x", 20), 60, 16 + 4*18 + 22},
		{"width below padding", strings.Repeat("x", 10), 10, 16 + 10*18 + 22},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSizeEstimator()
			got := s.Estimate(tt.title, tt.width)
			if got.Height != tt.want || got.Width != tt.width {
				t.Errorf("Estimate() = %+v, want height %v", got, tt.want)
			}
		})
	}
}

func TestSizeEstimator_Buckets(t *testing.T) {
	s := NewSizeEstimator()
	a := s.Estimate(strings.Repeat("a", 56), 220)
	b := s.Estimate(strings.Repeat("b", 64), 220)
	if a != b || s.Len() != 1 {
		t.Errorf("titles of 56 and 64 runes do not share a bucket: %+v %+v (len %d)", a, b, s.Len())
	}

	s.Estimate("short", 300)
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2 after a new width", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Clear", s.Len())
	}
}

func TestSizeEstimator_ZeroValue(t *testing.T) {
	var s SizeEstimator
	if got := s.Estimate("hello", 220); got.Height != 56 {
		t.Errorf("Estimate() = %+v", got)
	}
	s.Clear()
}

func TestSizeEstimator_Concurrent(t *testing.T) {
	s := NewSizeEstimator()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Estimate(strings.Repeat("t", (i*j)%90), 220)
			}
		}(i)
	}
	wg.Wait()
	if s.Len() == 0 || s.Len() > 10 {
		t.Errorf("Len() = %d, want between 1 and 10 buckets", s.Len())
	}
}

func TestHeaderWidth(t *testing.T) {
	// "#12 Schema" is 10 runes.
	if got := headerWidth(12, "Schema", 20); got != 10*7.5+72+40 {
		t.Errorf("headerWidth() = %v", got)
	}
	if got := digits(-305); got != 3 {
		t.Errorf("digits(-305) = %d", got)
	}
}
