package prompt

import (
	"fmt"
	"strings"

	"credit-assess-be/pkg/store"
)

// Builder renders feedback-augmented generation inputs for one session.
// Feedback is always replayed oldest-first: later entries appear after
// earlier ones so the model weighs recency from narrative order. History is
// never compacted between regenerations.
type Builder struct {
	session *store.Session
}

func NewBuilder(session *store.Session) *Builder {
	return &Builder{session: session}
}

// NarrativeInput is the full input for the narrative generator: the original
// loan query followed by the accumulated narrative-track feedback.
func (b *Builder) NarrativeInput() string {
	return b.compose(b.session.NarrativeFeedback, "Previous Feedback:")
}

// CreditNoteContext is the query-plus-context string handed to the
// credit-note generator alongside the current narrative. Only the
// credit-note track is replayed here.
func (b *Builder) CreditNoteContext() string {
	return b.compose(b.session.CreditNoteFeedback, "Credit Note Feedback:")
}

func (b *Builder) compose(feedback []store.FeedbackRecord, heading string) string {
	if len(feedback) == 0 {
		return b.session.OriginalQuery
	}

	var sb strings.Builder
	sb.WriteString(b.session.OriginalQuery)
	sb.WriteString("\n\n")
	sb.WriteString(heading)
	sb.WriteString("\n")
	for i, record := range feedback {
		// Numbered so the model reads these as prior corrections, not facts
		// about the applicant.
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, record.Instruction))
		if i < len(feedback)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
