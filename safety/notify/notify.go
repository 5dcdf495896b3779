// External notifier collaborator for emergency events.
//
// The detection engine only produces events; delivering them to a human
// (and recording that delivery happened) is this package's job. The
// notified flags on an emergency event are mutated here and nowhere else.
package notify

import (
	"context"

	"github.com/jewel-voice/jewel/safety/store"
)

type Notifier interface {
	SendEmergency(ctx context.Context, evt *store.EmergencyEvent) error
}
