// Package advisor implements the client for the external tillage
// recommendation endpoint and the mapping of its payload into the domain
// Recommendation record.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"intillasense/internal/domain"
	"intillasense/internal/domain/ports/adapter"

	"intillasense/internal/domain/model"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AdvisorAdapter = (*HTTPAdapter)(nil)

// HTTPAdapter talks JSON to the recommendation endpoint. The endpoint is an
// opaque black box: one POST per submission, carrying the farm selector, the
// text, the base64 image and the prior transcript.
type HTTPAdapter struct {
	base   string
	apiKey string
	client *http.Client
}

func NewHTTPAdapter(base, apiKey string, timeout time.Duration) *HTTPAdapter {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPAdapter{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	FarmNum     int           `json:"farm_num"`
	Text        string        `json:"text,omitempty"`
	Image       string        `json:"image,omitempty"`
	ChatHistory []wireMessage `json:"chat_history"`
}

type wireOption struct {
	Equipment string  `json:"equipment"`
	TotalCost float64 `json:"total_cost_of_this_option"`
}

type wireFieldFactors struct {
	SoilType              string `json:"soil_type"`
	PreviouslyPlantedCrop string `json:"previously_planted_crop"`
	RainfallTrend         int    `json:"rainfall_trend"`
}

type wireTillageDates struct {
	Fall   string `json:"optimal_fall_tillage_date"`
	Spring string `json:"optimal_spring_tillage_date"`
	Reason string `json:"reason_for_tillage_dates"`
}

type wireResponse struct {
	ResponseToUser string            `json:"response_to_user"`
	PrimaryOption  wireOption        `json:"primary_option"`
	Benefits       []string          `json:"benefits_of_primary_option"`
	FieldFactors   wireFieldFactors  `json:"field_factors"`
	Alternative1   wireOption        `json:"alternative_option_1"`
	Alternative2   wireOption        `json:"alternative_option_2"`
	Summary        string            `json:"summary"`
	TillageDates   *wireTillageDates `json:"tillage_dates,omitempty"`
}

// Recommend performs the endpoint call. Transport failures, non-2xx statuses
// and malformed payloads are all the same condition to the caller:
// domain.ErrRequestFailed.
func (a *HTTPAdapter) Recommend(ctx context.Context, req adapter.RecommendationRequest) (*model.Recommendation, error) {
	body := wireRequest{
		FarmNum:     int(req.Farm),
		Text:        req.Text,
		Image:       req.Image.Base64(),
		ChatHistory: historyToWire(req.History),
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", domain.ErrRequestFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.base+"/recommend", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrRequestFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: http %d", domain.ErrRequestFailed, resp.StatusCode)
	}

	var payload wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrRequestFailed, err)
	}
	return mapRecommendation(&payload), nil
}

func historyToWire(history []model.Message) []wireMessage {
	out := make([]wireMessage, 0, len(history))
	for _, m := range history {
		content := m.Text
		if content == "" && m.Image != nil {
			content = "[image attached]"
		}
		out = append(out, wireMessage{Role: string(m.Role), Content: content})
	}
	return out
}
