package engine

import (
	"context"
	"strings"
	"time"

	"github.com/jewel-voice/jewel/safety/keyword"
	"github.com/jewel-voice/jewel/safety/store"
)

// DetectAbuse scans a speech transcript for distress signals and, when a
// video context summary is supplied, scans it for violence keywords.
// Keyword matching is by substring so inflected forms ("attacking",
// "attacked") register. Either signal triggers detection; the first one
// found determines the event type. Detections are persisted with both notified flags false —
// contacting anyone is strictly the notifier collaborator's job. Account
// status is never consulted or mutated here.
func (eng *Engine) DetectAbuse(ctx context.Context, audioTranscript, videoContext, userID string) (bool, *store.EmergencyEvent) {
	var eventType store.EventType
	var description string

	transcript := strings.ToLower(audioTranscript)
	if transcript != "" && eng.Catalog.MatchDistress(transcript) {
		eventType = store.EventDistressDetected
		description = "Distress or abuse detected in audio"
	} else if videoContext != "" && keyword.ContainsAnyKeyword(videoContext, eng.Catalog.VideoViolenceKeywords()) {
		eventType = store.EventViolenceDetected
		description = "Violence detected in video context"
	} else {
		return false, nil
	}

	evt := &store.EmergencyEvent{
		UserID:          userID,
		EventType:       eventType,
		Description:     description,
		AudioTranscript: audioTranscript,
		VideoContext:    videoContext,
		CreatedAt:       time.Now().UTC(),
	}
	if err := eng.Store.RecordEmergency(ctx, evt); err != nil {
		// detection is still reported to the caller
		eng.Logger.Error("persisting emergency event", "err", err, "user", userID, "type", eventType)
	}
	emergencyEventCount.WithLabelValues(string(eventType)).Inc()
	eng.Logger.Warn("emergency detected", "user", userID, "type", eventType)
	return true, evt
}
