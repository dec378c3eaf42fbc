package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"beltsense/internal/llm"
	"beltsense/internal/logger"
	"beltsense/internal/models"
)

// ErrRecommendationUnavailable reports a network/transport failure or a
// non-success reply from the model endpoint. The caller must leave any
// prior alert for the affected source untouched; the next reading is a
// fresh, independent attempt (no automatic retry here).
var ErrRecommendationUnavailable = errors.New("recommendation unavailable")

// sampleShipmentID is embedded into the request when a chute hits 100% so
// the model has a concrete anchor for equipment-log root-cause hints.
const sampleShipmentID = "SHP-2381-7745"

// diagnosisSystemPrompt pins the reply to the labeled-section format that
// ParseDiagnosis extracts. The format is a prompt-enforced contract; the
// parser still tolerates deviations.
const diagnosisSystemPrompt = `You are a Logistics Digital Twin AI assistant for a parcel warehouse.
Diagnose the reported chute condition for the operations team.
Format the response exactly like this, one section per label:

Summary: <one-line summary>
Problems: <observed problems>
Prediction: <what happens if nothing is done>
Root Cause: <most likely root cause>
Recommendations: 1. <first action> 2. <second action> ...
Severity: <LOW|MEDIUM|HIGH|CRITICAL>`

type RecommendationService struct {
	model Chatter
	log   *logger.Logger
}

func NewRecommendationService(model Chatter, log *logger.Logger) *RecommendationService {
	return &RecommendationService{model: model, log: log}
}

// RequestRecommendation asks the model for a diagnosis of one reading and
// returns the parsed alert record. On any endpoint failure it returns
// ErrRecommendationUnavailable and no record: partial records only ever
// come from ParseDiagnosis defaulting, never from a failed request.
func (s *RecommendationService) RequestRecommendation(ctx context.Context, source string, fillLevel int) (models.AlertRecord, error) {
	messages := []llm.Message{
		{Role: models.RoleSystem, Content: diagnosisSystemPrompt},
		{Role: models.RoleUser, Content: readingContent(source, fillLevel)},
	}

	raw, err := s.model.Chat(ctx, messages)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("recommendation_request_failed", "source", source, "err", err)
		}
		return models.AlertRecord{}, fmt.Errorf("%w: %s", ErrRecommendationUnavailable, err)
	}

	rec := ParseDiagnosis(raw)
	rec.ID = uuid.NewString()
	rec.Source = source
	rec.CreatedAt = time.Now().UTC()
	return rec, nil
}

// readingContent builds the single natural-language line describing the
// reading. A completely full chute gets the sample shipment id appended.
func readingContent(source string, fillLevel int) string {
	content := fmt.Sprintf("%s reports a fill level of %d%%. Diagnose the condition and recommend operator actions.", source, fillLevel)
	if fillLevel >= 100 {
		content += fmt.Sprintf(" A sample shipment id for equipment log analysis: %s.", sampleShipmentID)
	}
	return content
}
