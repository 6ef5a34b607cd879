package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"credit-assess-be/pkg/llm"
)

// CreditNoteAgent drafts the final credit note from an approved narrative
// and the credit-note-track feedback context.
type CreditNoteAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

var _ CreditNoteGenerator = &CreditNoteAgent{}

func NewCreditNoteAgent(llmProvider llm.LLMProvider, logger *log.Logger) *CreditNoteAgent {
	return &CreditNoteAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *CreditNoteAgent) GenerateCreditNote(ctx context.Context, narrative, queryContext string, loanDetails map[string]interface{}) (string, error) {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("Draft a formal credit note summarizing the loan assessment below.\n")
	prompt.WriteString("Structure: applicant overview, assessment summary, loan terms, recommendation.\n")
	prompt.WriteString("If a \"Credit Note Feedback\" section is present in the application, apply each entry as a reviewer correction, later entries over earlier ones.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<risk_narrative>\n")
	prompt.WriteString(narrative)
	prompt.WriteString("\n</risk_narrative>\n\n")

	prompt.WriteString("<application>\n")
	prompt.WriteString(queryContext)
	prompt.WriteString("\n</application>\n\n")

	if len(loanDetails) > 0 {
		detailsJSON, err := json.Marshal(loanDetails)
		if err == nil {
			prompt.WriteString("<loan_details>\n")
			prompt.Write(detailsJSON)
			prompt.WriteString("\n</loan_details>")
		}
	}

	response, err := a.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.3))
	if err != nil {
		a.logger.Printf("[CREDIT-NOTE] generation failed: %v", err)
		return "", fmt.Errorf("credit note generation: %w", err)
	}

	document := strings.TrimSpace(response)
	if document == "" {
		return "", fmt.Errorf("credit note generation: model returned empty output")
	}

	a.logger.Printf("[CREDIT-NOTE] generated %d chars", len(document))
	return document, nil
}
