package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"credit-assess-be/pkg/llm"
)

// RiskScoringAgent derives a 0-100 risk score from a narrative. The model is
// asked for a bare integer; anything non-numeric in the reply is treated as
// a generation failure rather than guessed at.
type RiskScoringAgent struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

var _ Scorer = &RiskScoringAgent{}

var scorePattern = regexp.MustCompile(`-?\d+`)

func NewRiskScoringAgent(llmProvider llm.LLMProvider, logger *log.Logger) *RiskScoringAgent {
	return &RiskScoringAgent{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

func (a *RiskScoringAgent) Score(ctx context.Context, narrative string) (int, error) {
	var prompt strings.Builder
	prompt.WriteString("<task>\n")
	prompt.WriteString("Read the credit-risk narrative below and assign a risk score from 0 (no risk) to 100 (certain default).\n")
	prompt.WriteString("Respond with the integer only. No words, no punctuation.\n")
	prompt.WriteString("</task>\n\n")
	prompt.WriteString("<narrative>\n")
	prompt.WriteString(narrative)
	prompt.WriteString("\n</narrative>")

	response, err := a.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.0), llm.WithMaxTokens(8))
	if err != nil {
		a.logger.Printf("[SCORING] generation failed: %v", err)
		return 0, fmt.Errorf("risk scoring: %w", err)
	}

	score, err := parseScore(response)
	if err != nil {
		a.logger.Printf("[SCORING] unusable model output %q: %v", response, err)
		return 0, fmt.Errorf("risk scoring: %w", err)
	}

	a.logger.Printf("[SCORING] score=%d", score)
	return score, nil
}

func parseScore(response string) (int, error) {
	match := scorePattern.FindString(strings.TrimSpace(response))
	if match == "" {
		return 0, fmt.Errorf("no numeric score in model output")
	}

	score, err := strconv.Atoi(match)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", match, err)
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("score %d outside 0-100 range", score)
	}
	return score, nil
}
