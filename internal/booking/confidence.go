package booking

// Field weights for the completeness/confidence score. Presence contributes
// the full weight; there is no partial credit for uncertain matches.
const (
	weightDate     = 25
	weightTime     = 25
	weightName     = 20
	weightEmail    = 20
	weightPhone    = 5
	weightTimezone = 5
	weightTotal    = weightDate + weightTime + weightName + weightEmail + weightPhone + weightTimezone
)

// Confidence scores how much of a bookable request the extracted fields
// cover, normalized to [0,1]. The score is advisory: it is surfaced to the
// caller and the prompt, but only the four required fields gate creation.
func Confidence(f ExtractedFields) float64 {
	score := 0
	if f.Date != "" {
		score += weightDate
	}
	if f.Time != "" {
		score += weightTime
	}
	if f.Name != "" {
		score += weightName
	}
	if f.Email != "" {
		score += weightEmail
	}
	if f.Phone != "" {
		score += weightPhone
	}
	if f.Timezone != "" {
		score += weightTimezone
	}
	return float64(score) / float64(weightTotal)
}
