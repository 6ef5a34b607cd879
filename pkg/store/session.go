package store

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned by every store backing when the id is
// unknown or the record has been evicted. An expired session is
// indistinguishable from one that never existed.
var ErrSessionNotFound = errors.New("assessment session not found")

// Status is the lifecycle stage of an assessment session. A record that does
// not exist in the store is implicitly uninitialized.
type Status string

const (
	StatusInitialized     Status = "INITIALIZED"
	StatusNarrativeReady  Status = "NARRATIVE_READY"
	StatusCreditNoteReady Status = "CREDIT_NOTE_READY"
)

// FeedbackKind scopes a feedback record to the narrative track or the
// credit-note track. The two tracks never mix.
type FeedbackKind string

const (
	FeedbackKindNarrative  FeedbackKind = "narrative"
	FeedbackKindCreditNote FeedbackKind = "credit_note"
)

// FeedbackRecord is the structured result of interpreting free-text reviewer
// feedback. Instruction is what gets replayed into later generation prompts.
type FeedbackRecord struct {
	Kind        FeedbackKind `json:"kind"`
	RawText     string       `json:"raw_text"`
	Instruction string       `json:"instruction"`
	SubmittedAt time.Time    `json:"submitted_at"`
}

// Session is the full workflow state for one loan assessment. Records are
// read and written whole; the store never merges partial updates.
type Session struct {
	ID                 string                 `json:"id"`
	OriginalQuery      string                 `json:"original_query"`
	LoanDetails        map[string]interface{} `json:"loan_details"`
	NarrativeFeedback  []FeedbackRecord       `json:"narrative_feedback"`
	CreditNoteFeedback []FeedbackRecord       `json:"credit_note_feedback"`
	CurrentNarrative   *string                `json:"current_narrative,omitempty"`
	CurrentScore       *int                   `json:"current_score,omitempty"`
	Status             Status                 `json:"status"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// NewSession builds a fresh Initialized record. Re-initializing an existing
// id goes through here too, so every prior field is discarded.
func NewSession(id, originalQuery string, loanDetails map[string]interface{}) *Session {
	now := time.Now()
	if loanDetails == nil {
		loanDetails = map[string]interface{}{}
	}
	return &Session{
		ID:                 id,
		OriginalQuery:      originalQuery,
		LoanDetails:        loanDetails,
		NarrativeFeedback:  []FeedbackRecord{},
		CreditNoteFeedback: []FeedbackRecord{},
		Status:             StatusInitialized,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// HasNarrative reports whether a narrative has been generated. True exactly
// when Status is NARRATIVE_READY or CREDIT_NOTE_READY.
func (s *Session) HasNarrative() bool {
	return s.CurrentNarrative != nil
}

// Clone returns a deep copy. Store backings hand out clones so concurrent
// readers never share mutable slices or maps with a writer.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s

	cp.NarrativeFeedback = make([]FeedbackRecord, len(s.NarrativeFeedback))
	copy(cp.NarrativeFeedback, s.NarrativeFeedback)

	cp.CreditNoteFeedback = make([]FeedbackRecord, len(s.CreditNoteFeedback))
	copy(cp.CreditNoteFeedback, s.CreditNoteFeedback)

	cp.LoanDetails = make(map[string]interface{}, len(s.LoanDetails))
	for k, v := range s.LoanDetails {
		cp.LoanDetails[k] = v
	}

	if s.CurrentNarrative != nil {
		narrative := *s.CurrentNarrative
		cp.CurrentNarrative = &narrative
	}
	if s.CurrentScore != nil {
		score := *s.CurrentScore
		cp.CurrentScore = &score
	}
	return &cp
}

// SetNarrative overwrites the narrative and score together and moves the
// session to NARRATIVE_READY. Prior feedback history is untouched.
func (s *Session) SetNarrative(narrative string, score int) {
	s.CurrentNarrative = &narrative
	s.CurrentScore = &score
	s.Status = StatusNarrativeReady
	s.UpdatedAt = time.Now()
}

// AppendFeedback routes the record to the matching track by its kind.
func (s *Session) AppendFeedback(record FeedbackRecord) {
	switch record.Kind {
	case FeedbackKindCreditNote:
		s.CreditNoteFeedback = append(s.CreditNoteFeedback, record)
	default:
		s.NarrativeFeedback = append(s.NarrativeFeedback, record)
	}
	s.UpdatedAt = time.Now()
}
