package model

import "fmt"

// Option is a tillage method with its estimated per-acre cost.
type Option struct {
	Label         string  `json:"label"`
	EstimatedCost float64 `json:"estimated_cost"`
}

// CostString renders the cost with fixed two-decimal currency formatting.
func (o Option) CostString() string {
	return fmt.Sprintf("$%.2f", o.EstimatedCost)
}

// Factor is one field-specific condition that influenced the recommendation.
type Factor struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (f Factor) String() string {
	return f.Label + ": " + f.Value
}

// TillageWindow holds the suggested fall/spring tillage dates and why.
type TillageWindow struct {
	FallDate   string `json:"fall_date"`
	SpringDate string `json:"spring_date"`
	Rationale  string `json:"rationale,omitempty"`
}

// Recommendation is the normalized result of one endpoint call: a free-form
// reply plus the structured method, cost and context data shown beneath it.
type Recommendation struct {
	ResponseText string         `json:"response_text,omitempty"`
	Primary      Option         `json:"primary"`
	Benefits     []string       `json:"benefits,omitempty"`
	FieldFactors []Factor       `json:"field_factors,omitempty"`
	Alternatives []Option       `json:"alternatives,omitempty"`
	Summary      string         `json:"summary,omitempty"`
	Window       *TillageWindow `json:"tillage_window,omitempty"`
}
