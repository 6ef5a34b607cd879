package events

import "time"

// Event defines the contract for all audit-trail events emitted by the
// assessment workflow.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NARRATIVE_GENERATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Workflow event codes. One is emitted per successful state transition.
const (
	TypeSessionInitialized  = "SESSION_INITIALIZED"
	TypeNarrativeGenerated  = "NARRATIVE_GENERATED"
	TypeFeedbackReceived    = "FEEDBACK_RECEIVED"
	TypeCreditNoteGenerated = "CREDIT_NOTE_GENERATED"
)

// BaseEvent is the standard Event implementation; constructors below keep
// payload keys consistent across emitters.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewSessionInitialized(sessionId string) BaseEvent {
	return BaseEvent{
		Type:       TypeSessionInitialized,
		Data:       map[string]interface{}{"session_id": sessionId},
		OccurredAt: time.Now(),
	}
}

func NewNarrativeGenerated(sessionId string, score, feedbackCount int) BaseEvent {
	return BaseEvent{
		Type: TypeNarrativeGenerated,
		Data: map[string]interface{}{
			"session_id":     sessionId,
			"score":          score,
			"feedback_count": feedbackCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewFeedbackReceived(sessionId, kind string, feedbackCount int) BaseEvent {
	return BaseEvent{
		Type: TypeFeedbackReceived,
		Data: map[string]interface{}{
			"session_id":     sessionId,
			"kind":           kind,
			"feedback_count": feedbackCount,
		},
		OccurredAt: time.Now(),
	}
}

func NewCreditNoteGenerated(sessionId string, feedbackCount int) BaseEvent {
	return BaseEvent{
		Type: TypeCreditNoteGenerated,
		Data: map[string]interface{}{
			"session_id":     sessionId,
			"feedback_count": feedbackCount,
		},
		OccurredAt: time.Now(),
	}
}
