package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"credit-assess-be/pkg/llm"
)

// RiskNarrativeAgent writes credit-risk narratives with an LLM backend.
type RiskNarrativeAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

var _ NarrativeGenerator = &RiskNarrativeAgent{}

func NewRiskNarrativeAgent(llmProvider llm.LLMProvider, logger *log.Logger) *RiskNarrativeAgent {
	return &RiskNarrativeAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *RiskNarrativeAgent) GenerateNarrative(ctx context.Context, input string) (string, error) {
	promptText := a.buildPrompt(input)

	response, err := a.llmProvider.Generate(ctx, promptText, llm.WithTemperature(0.4))
	if err != nil {
		a.logger.Printf("[NARRATIVE] generation failed: %v", err)
		return "", fmt.Errorf("narrative generation: %w", err)
	}

	narrative := strings.TrimSpace(response)
	if narrative == "" {
		return "", fmt.Errorf("narrative generation: model returned empty output")
	}

	a.logger.Printf("[NARRATIVE] generated %d chars", len(narrative))
	return narrative, nil
}

func (a *RiskNarrativeAgent) buildPrompt(input string) string {
	var prompt strings.Builder

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a senior credit analyst. Write a credit-risk narrative for the loan application described below.\n")
	prompt.WriteString("Cover the applicant's business profile, repayment capacity, and the key risk drivers.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Base the narrative strictly on the application material provided\n")
	prompt.WriteString("2. If a \"Previous Feedback\" section is present, treat each entry as a reviewer correction to apply, not as new facts about the applicant\n")
	prompt.WriteString("3. Apply later feedback entries over earlier ones where they conflict\n")
	prompt.WriteString("4. Write in plain prose, no markdown headings\n")
	prompt.WriteString("</guidelines>\n\n")

	prompt.WriteString("<application>\n")
	prompt.WriteString(input)
	prompt.WriteString("\n</application>")

	return prompt.String()
}
