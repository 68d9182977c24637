package ratings

// DefaultThreshold is the junior score a posting must strictly exceed to be
// considered junior-friendly.
const DefaultThreshold = 10.0

// Classification is the verdict for a single posting.
type Classification struct {
	// Score is the sum of the first and second work-term percentages.
	Score float64
	// Match is true when Score strictly exceeds the threshold.
	Match bool
}

// Classify sums the first and second work-term percentages, treating missing
// slots as zero, and compares the result against the threshold. The
// comparison is strict: a score exactly at the threshold is not a match.
func Classify(p Percentages, threshold float64) Classification {
	score := p[SlotFirst] + p[SlotSecond]

	return Classification{
		Score: score,
		Match: score > threshold,
	}
}
