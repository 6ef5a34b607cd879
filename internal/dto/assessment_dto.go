package dto

type InitAssessmentRequest struct {
	Query       string                 `json:"query" validate:"required"`
	LoanDetails map[string]interface{} `json:"loan_details,omitempty"`
}

type InitAssessmentResponse struct {
	SessionId string `json:"session_id"`
	Token     string `json:"token"`
}

type GenerateNarrativeResponse struct {
	Narrative     string `json:"narrative"`
	Score         int    `json:"score"`
	FeedbackCount int    `json:"feedback_count"`
}

// SubmitFeedbackRequest carries raw reviewer text for either track; the
// route decides which track it lands on.
type SubmitFeedbackRequest struct {
	Text string `json:"text" validate:"required"`
}

type SubmitFeedbackResponse struct {
	FeedbackCount int `json:"feedback_count"`
}

type GenerateCreditNoteResponse struct {
	CreditNote    string                 `json:"credit_note"`
	Query         string                 `json:"query"`
	LoanDetails   map[string]interface{} `json:"loan_details"`
	FeedbackCount int                    `json:"feedback_count"`
}

// AssessmentEventMessage is the wire shape of audit events on the event bus.
type AssessmentEventMessage struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt string                 `json:"occurred_at"`
}
