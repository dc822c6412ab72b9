package reviews

import "villfinder-backend/internal/pkg/apperrors"

var ratingBands = []struct {
	min   float64
	label string
}{
	{4.5, "Very Positive"},
	{3.5, "Positive"},
	{2.5, "Neutral"},
	{1.5, "Negative"},
	{0, "Very Negative"},
}

// LabelForScore buckets an average star rating in [0, 5]. A score sitting on a band
// boundary belongs to the higher band.
func LabelForScore(score float64) (string, error) {
	if score < 0 || score > 5 || score != score {
		return "", apperrors.Validation("score", "score must be between 0 and 5")
	}
	for _, b := range ratingBands {
		if score >= b.min {
			return b.label, nil
		}
	}
	return ratingBands[len(ratingBands)-1].label, nil
}
