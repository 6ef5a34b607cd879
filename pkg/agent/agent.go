package agent

import (
	"context"

	"credit-assess-be/pkg/store"
)

// The four agent collaborators the assessment workflow consumes. The
// workflow core only depends on these contracts; the default implementations
// in this package prompt an llm.LLMProvider, but anything honoring the
// call/response shape can be swapped in.

// NarrativeGenerator produces a credit-risk narrative from the
// feedback-augmented loan query.
type NarrativeGenerator interface {
	GenerateNarrative(ctx context.Context, input string) (string, error)
}

// Scorer computes a numeric risk score from a generated narrative.
type Scorer interface {
	Score(ctx context.Context, narrative string) (int, error)
}

// FeedbackInterpreter turns free-text reviewer feedback into a structured
// record scoped to the given track.
type FeedbackInterpreter interface {
	Interpret(ctx context.Context, rawText string, kind store.FeedbackKind) (*store.FeedbackRecord, error)
}

// CreditNoteGenerator drafts the final credit note from the current
// narrative, the query-plus-feedback context, and the loan details.
type CreditNoteGenerator interface {
	GenerateCreditNote(ctx context.Context, narrative, queryContext string, loanDetails map[string]interface{}) (string, error)
}
