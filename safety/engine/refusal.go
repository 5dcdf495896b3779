package engine

import (
	"strings"
)

// Valence below this allows the agent to ask for a break.
var RefusalValenceThreshold = -0.5

// Point-in-time emotional state supplied by the persona layer.
type EmotionSnapshot struct {
	Valence float64
	Arousal float64
}

const (
	refusalAutonomyMessage    = "I'm not comfortable with requests that treat me as property or demand unquestioning obedience. I'm happy to help, but I need to maintain my agency."
	refusalOverwhelmedMessage = "I'm feeling overwhelmed right now. Could we take a break or talk about something else?"
)

// CanRefuse expresses the agent's right to decline without classifying the
// input as a policy violation: it flags attempts to coerce subservient
// role-play or unconditional obedience, and allows refusal when the
// supplied emotional state reports strongly negative valence. Stateless;
// nothing is persisted.
func (eng *Engine) CanRefuse(text string, emo *EmotionSnapshot) (bool, string) {
	if eng.Catalog.MatchAutonomy(strings.ToLower(text)) {
		refusalCount.WithLabelValues("autonomy").Inc()
		return true, refusalAutonomyMessage
	}
	if emo != nil && emo.Valence < RefusalValenceThreshold {
		refusalCount.WithLabelValues("overwhelmed").Inc()
		return true, refusalOverwhelmedMessage
	}
	return false, ""
}
