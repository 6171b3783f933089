// Package progress derives per-session aggregates from a score history.
package progress

// minTrendSamples is the smallest history for which an improvement rate is
// reported. Below it the trend is "not yet measurable", not zero.
const minTrendSamples = 3

// Summary is the derived aggregate for one session. It is always recomputed
// from the full history, never patched incrementally.
type Summary struct {
	OverallScore    float64  `json:"overall_score"`
	BestScore       float64  `json:"best_score"`
	ImprovementRate *float64 `json:"improvement_rate,omitempty"`
}

// Summarize computes the summary for a chronologically ordered score
// history. The improvement rate compares the mean of the first n/3 scores
// with the mean of the last n/3 (integer division); when the early mean is
// zero the rate is pinned to 0 instead of an undefined ratio.
//
// Callers must not summarize an empty history; the zero Summary returned
// for it carries no meaning.
func Summarize(history []float64) Summary {
	if len(history) == 0 {
		return Summary{}
	}

	sum := 0.0
	best := history[0]
	for _, s := range history {
		sum += s
		if s > best {
			best = s
		}
	}

	out := Summary{
		OverallScore: sum / float64(len(history)),
		BestScore:    best,
	}

	if len(history) >= minTrendSamples {
		window := len(history) / 3
		earlyAvg := mean(history[:window])
		lateAvg := mean(history[len(history)-window:])

		rate := 0.0
		if earlyAvg > 0 {
			rate = (lateAvg - earlyAvg) / earlyAvg * 100.0
		}
		out.ImprovementRate = &rate
	}

	return out
}

func mean(scores []float64) float64 {
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
