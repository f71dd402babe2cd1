package advisor

import (
	"strings"
	"unicode"

	"intillasense/internal/domain/model"
)

// mapRecommendation normalizes the endpoint payload into the domain record.
// Pure and deterministic: free text is sentence-cased, categorical labels
// (equipment, soil type, crop) are word-capitalized, costs pass through
// unmodified.
func mapRecommendation(w *wireResponse) *model.Recommendation {
	rec := &model.Recommendation{
		ResponseText: sentenceCase(w.ResponseToUser),
		Primary: model.Option{
			Label:         titleCase(w.PrimaryOption.Equipment),
			EstimatedCost: w.PrimaryOption.TotalCost,
		},
		FieldFactors: []model.Factor{
			{Label: "Soil Type", Value: titleCase(w.FieldFactors.SoilType)},
			{Label: "Previous Crop", Value: titleCase(w.FieldFactors.PreviouslyPlantedCrop)},
			{Label: "Rainfall", Value: rainfallTrendLabel(w.FieldFactors.RainfallTrend)},
		},
		Alternatives: []model.Option{
			{Label: titleCase(w.Alternative1.Equipment), EstimatedCost: w.Alternative1.TotalCost},
			{Label: titleCase(w.Alternative2.Equipment), EstimatedCost: w.Alternative2.TotalCost},
		},
		Summary: sentenceCase(w.Summary),
	}
	for _, b := range w.Benefits {
		rec.Benefits = append(rec.Benefits, sentenceCase(b))
	}
	if w.TillageDates != nil {
		rec.Window = &model.TillageWindow{
			FallDate:   w.TillageDates.Fall,
			SpringDate: w.TillageDates.Spring,
			Rationale:  sentenceCase(w.TillageDates.Reason),
		}
	}
	return rec
}

// rainfallTrendLabel maps the endpoint's numeric trend code to a label.
// Only 0, 1 and 2 are meaningful per the endpoint contract; anything else
// collapses to "Decreasing".
func rainfallTrendLabel(code int) string {
	switch code {
	case 2:
		return "Steady"
	case 1:
		return "Increasing"
	default:
		return "Decreasing"
	}
}

// sentenceCase upper-cases the first letter of each sentence, leaving the
// rest of the text as received.
func sentenceCase(s string) string {
	runes := []rune(s)
	start := true
	for i, r := range runes {
		switch {
		case start && unicode.IsLetter(r):
			runes[i] = unicode.ToUpper(r)
			start = false
		case r == '.' || r == '!' || r == '?':
			start = true
		case start && !unicode.IsSpace(r):
			start = false
		}
	}
	return string(runes)
}

// titleCase word-capitalizes a categorical label such as an equipment or
// soil type name.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
