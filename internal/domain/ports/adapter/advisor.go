package adapter

import (
	"context"

	"intillasense/internal/domain/model"
)

// RecommendationRequest carries one submission to the advisory endpoint:
// which farm it concerns, the user's text, an optional image, and the prior
// transcript of the active session for conversational context.
type RecommendationRequest struct {
	Farm    model.Farm
	Text    string
	Image   *model.ImageAttachment
	History []model.Message
}

// AdvisorAdapter is the port for the external tillage-recommendation
// endpoint. Implementations return the already-normalized recommendation;
// transport failures, non-2xx statuses and malformed payloads are all
// reported as domain.ErrRequestFailed.
type AdvisorAdapter interface {
	Recommend(ctx context.Context, req RecommendationRequest) (*model.Recommendation, error)
}
