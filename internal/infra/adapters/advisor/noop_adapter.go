package advisor

import (
	"context"
	"time"

	"intillasense/internal/domain/model"
	"intillasense/internal/domain/ports/adapter"
)

var _ adapter.AdvisorAdapter = (*NoopAdapter)(nil)

// NoopAdapter implements adapter.AdvisorAdapter for local/dev runs: it
// returns a canned conservation-tillage recommendation instead of calling
// the real endpoint.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Recommend(ctx context.Context, req adapter.RecommendationRequest) (*model.Recommendation, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(200 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &model.Recommendation{
		ResponseText: "Based on your field conditions, Conservation Tillage is recommended as it provides the best balance between soil conservation and crop establishment.",
		Primary:      model.Option{Label: "Conservation Tillage", EstimatedCost: 45.50},
		Benefits: []string{
			"Reduces soil erosion by 60%",
			"Improves soil moisture retention",
			"Decreases fuel consumption",
			"Maintains soil organic matter",
		},
		FieldFactors: []model.Factor{
			{Label: "Soil Type", Value: "Clay Loam"},
			{Label: "Previous Crop", Value: "Corn"},
			{Label: "Rainfall", Value: "Steady"},
		},
		Alternatives: []model.Option{
			{Label: "No-Till System", EstimatedCost: 35.75},
			{Label: "Strip Tillage", EstimatedCost: 52.25},
		},
		Summary: "The clay loam soil type will benefit from reduced compaction, while the moderate slope makes erosion control crucial.",
	}, nil
}
