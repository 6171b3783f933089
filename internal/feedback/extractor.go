// Package feedback interprets raw coaching text produced by the external
// generative model and turns it into a bounded, storable record.
package feedback

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// defaultScore is used when the text carries no recognizable score.
	defaultScore = 70.0
	// fallbackScore marks records produced by the failure path.
	fallbackScore = 50.0

	maxPointRunes       = 15
	maxAdviceRunes      = 20
	maxPointsPerSection = 10

	minScore = 0.0
	maxScore = 100.0
)

// Record is the structured result of interpreting one feedback text.
// The point lists are never nil; RawText keeps the untouched input for audit.
type Record struct {
	Score            float64  `json:"score"`
	GoodPoints       []string `json:"good_points"`
	ImprovementAreas []string `json:"improvement_areas"`
	SpecificAdvice   []string `json:"specific_advice"`
	RawText          string   `json:"raw_text"`
}

// Markers holds the literal strings the parser recognizes. They are the
// contract with the model prompt; each section accepts an ordered list of
// variants so locale or format drift can be absorbed without code changes.
type Markers struct {
	Score   []string
	Good    []string
	Improve []string
	Advice  []string
	Bullets []string
}

// DefaultMarkers returns the marker set the coaching prompt asks the model
// to use. The advice section accepts both the long and the short form.
func DefaultMarkers() Markers {
	return Markers{
		Score:   []string{"スコア:"},
		Good:    []string{"良い点:"},
		Improve: []string{"改善点:"},
		Advice:  []string{"具体的なアドバイス:", "アドバイス:"},
		Bullets: []string{"- ", "・"},
	}
}

type section int

const (
	sectionNone section = iota
	sectionGood
	sectionImprove
	sectionAdvice
)

// Extractor parses feedback text. It is stateless between calls and safe
// for concurrent use.
type Extractor struct {
	markers      Markers
	bulletCutset string
}

type Option func(*Extractor)

// WithMarkers replaces the recognized marker literals.
func WithMarkers(m Markers) Option {
	return func(e *Extractor) { e.markers = m }
}

// NewExtractor creates an Extractor with the default marker set.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{markers: DefaultMarkers()}
	for _, opt := range opts {
		opt(e)
	}
	e.bulletCutset = strings.Join(e.markers.Bullets, "") + " \t"
	return e
}

// Extract converts raw feedback text into a Record. It never fails: any
// panic while interpreting the text is absorbed and surfaced as the fixed
// fallback record, because the caller has already spent its model-call
// budget and must still store a result.
func (e *Extractor) Extract(raw string) (rec Record) {
	defer func() {
		if r := recover(); r != nil {
			rec = Fallback(fmt.Errorf("extract: %v", r))
		}
	}()
	return e.parse(raw)
}

// Fallback returns the fixed record used when analysis or extraction fails
// entirely. RawText encodes the failure reason for later inspection.
func Fallback(err error) Record {
	return Record{
		Score:            fallbackScore,
		GoodPoints:       []string{"動いてる！"},
		ImprovementAreas: []string{"もっと大きく"},
		SpecificAdvice:   []string{"リズムを意識"},
		RawText:          fmt.Sprintf("Analysis error: %v", err),
	}
}

func (e *Extractor) parse(raw string) Record {
	rec := Record{
		Score:            defaultScore,
		GoodPoints:       []string{},
		ImprovementAreas: []string{},
		SpecificAdvice:   []string{},
		RawText:          raw,
	}

	current := sectionNone
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Markers are substring matches: minor surrounding punctuation from
		// the model must not break section detection.
		switch {
		case containsAny(line, e.markers.Score):
			if v, ok := firstDigitRun(afterMarker(line, e.markers.Score)); ok {
				rec.Score = clampScore(v)
			}
		case containsAny(line, e.markers.Good):
			current = sectionGood
		case containsAny(line, e.markers.Improve):
			current = sectionImprove
		case containsAny(line, e.markers.Advice):
			current = sectionAdvice
		default:
			point, ok := e.stripBullet(line)
			if !ok || point == "" {
				continue
			}
			switch current {
			case sectionGood:
				rec.GoodPoints = appendPoint(rec.GoodPoints, point, maxPointRunes)
			case sectionImprove:
				rec.ImprovementAreas = appendPoint(rec.ImprovementAreas, point, maxPointRunes)
			case sectionAdvice:
				rec.SpecificAdvice = appendPoint(rec.SpecificAdvice, point, maxAdviceRunes)
			}
		}
	}
	return rec
}

func containsAny(line string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func afterMarker(line string, markers []string) string {
	for _, m := range markers {
		if i := strings.Index(line, m); i >= 0 {
			return line[i+len(m):]
		}
	}
	return line
}

// firstDigitRun extracts the first contiguous run of decimal digits, so
// values like "85点" yield 85.
func firstDigitRun(s string) (float64, bool) {
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.ParseFloat(s[start:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func clampScore(v float64) float64 {
	if v < minScore {
		return minScore
	}
	if v > maxScore {
		return maxScore
	}
	return v
}

func (e *Extractor) stripBullet(line string) (string, bool) {
	for _, b := range e.markers.Bullets {
		if strings.HasPrefix(line, b) {
			return strings.TrimSpace(strings.TrimLeft(line, e.bulletCutset)), true
		}
	}
	return "", false
}

// appendPoint truncates by runes, not bytes: the limits are display
// characters and most content is Japanese.
func appendPoint(list []string, point string, maxRunes int) []string {
	if len(list) >= maxPointsPerSection {
		return list
	}
	return append(list, truncateRunes(point, maxRunes))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
