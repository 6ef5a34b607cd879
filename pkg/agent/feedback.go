package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"credit-assess-be/pkg/llm"
	"credit-assess-be/pkg/store"
)

// FeedbackAgent rewrites raw reviewer feedback into a single actionable
// instruction that later generation prompts can replay verbatim.
type FeedbackAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

var _ FeedbackInterpreter = &FeedbackAgent{}

func NewFeedbackAgent(llmProvider llm.LLMProvider, logger *log.Logger) *FeedbackAgent {
	return &FeedbackAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *FeedbackAgent) Interpret(ctx context.Context, rawText string, kind store.FeedbackKind) (*store.FeedbackRecord, error) {
	target := "credit-risk narrative"
	if kind == store.FeedbackKindCreditNote {
		target = "final credit note"
	}

	var prompt strings.Builder
	prompt.WriteString("<task>\n")
	prompt.WriteString(fmt.Sprintf("A reviewer left feedback on a generated %s. Restate it as one imperative instruction for the next generation pass.\n", target))
	prompt.WriteString("Keep the reviewer's intent exactly; do not add requirements they did not raise.\n")
	prompt.WriteString("Respond with the instruction sentence only.\n")
	prompt.WriteString("</task>\n\n")
	prompt.WriteString("<feedback>\n")
	prompt.WriteString(rawText)
	prompt.WriteString("\n</feedback>")

	response, err := a.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.2))
	if err != nil {
		a.logger.Printf("[FEEDBACK] interpretation failed (%s): %v", kind, err)
		return nil, fmt.Errorf("feedback interpretation: %w", err)
	}

	instruction := strings.TrimSpace(response)
	if instruction == "" {
		return nil, fmt.Errorf("feedback interpretation: model returned empty output")
	}

	return &store.FeedbackRecord{
		Kind:        kind,
		RawText:     rawText,
		Instruction: instruction,
		SubmittedAt: time.Now(),
	}, nil
}
