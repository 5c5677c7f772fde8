package layout

import (
	"math"
	"sync"
	"unicode/utf8"
)

// Text metrics used to estimate card heights.
const (
	FontSize      = 13.0
	GlyphRatio    = 0.55 // average glyph width relative to font size
	CardPaddingX  = 12.0 // per side
	LineHeight    = 18.0
	CardPaddingY  = 16.0
	FooterHeight  = 22.0 // issue number and status row
	titleBucket   = 10
	HeaderRuneW   = 7.5
	ProgressWidth = 72.0 // progress indicator reserve in batch headers
)

// Size is an estimated card size.
type Size struct {
	Width  float64
	Height float64
}

type sizeKey struct {
	bucket int
	width  float64
}

// SizeEstimator estimates task card sizes from title length. Estimates are
// memoized by title length rounded to the nearest ten runes and card width,
// so similar titles share a height class.
//
// A SizeEstimator is safe for concurrent use. The zero value is ready to use.
type SizeEstimator struct {
	mu    sync.RWMutex
	cache map[sizeKey]Size
}

// NewSizeEstimator returns an empty estimator.
func NewSizeEstimator() *SizeEstimator {
	return &SizeEstimator{cache: make(map[sizeKey]Size)}
}

// Estimate returns the size of a card of the given width showing title. The
// height is not clamped; callers apply the configured minimum.
func (s *SizeEstimator) Estimate(title string, width float64) Size {
	key := sizeKey{bucket: bucketLength(utf8.RuneCountInString(title)), width: width}

	s.mu.RLock()
	sz, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return sz
	}

	sz = Size{Width: width, Height: estimateHeight(key.bucket, width)}
	s.mu.Lock()
	if s.cache == nil {
		s.cache = make(map[sizeKey]Size)
	}
	s.cache[key] = sz
	s.mu.Unlock()
	return sz
}

// Clear drops every memoized estimate. Call it when the card width or font
// configuration changes.
func (s *SizeEstimator) Clear() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// Len returns the number of memoized estimates.
func (s *SizeEstimator) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func bucketLength(n int) int {
	return int(math.Round(float64(n)/titleBucket)) * titleBucket
}

// CharsPerLine is the number of title glyphs that fit on one line of a card
// of the given width. Renderers wrap titles with it so drawn cards match the
// estimated heights.
func CharsPerLine(width float64) int {
	n := int(math.Floor((width - 2*CardPaddingX) / (FontSize * GlyphRatio)))
	return max(n, 1)
}

func estimateHeight(runes int, width float64) float64 {
	lines := int(math.Ceil(float64(runes) / float64(CharsPerLine(width))))
	lines = max(lines, 1)
	return CardPaddingY + float64(lines)*LineHeight + FooterHeight
}

// headerWidth is the minimum batch width that fits the "#n title" label,
// the progress indicator and horizontal header padding.
func headerWidth(number int, title string, padding float64) float64 {
	label := utf8.RuneCountInString(title) + len("#") + digits(number) + 1
	return float64(label)*HeaderRuneW + ProgressWidth + 2*padding
}

func digits(n int) int {
	if n < 0 {
		n = -n
	}
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
