// Package studygen turns study material into flashcards, summaries, quizzes,
// study plans and explanations through an LLM backend.
package studygen

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"studyspace-be/internal/pkg/logger"
	"studyspace-be/pkg/llm"
	"studyspace-be/pkg/workspace"
)

var (
	_ workspace.Generator          = (*Generator)(nil)
	_ workspace.CandidateExtractor = (*Generator)(nil)
)

// mathHint is a cheap prefilter so prose without any formula never reaches the model.
var mathHint = regexp.MustCompile(`[=<>≤≥∑∫√^]|\\(frac|sqrt|sum|int)`)

type Generator struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{provider: provider, logger: log}
}

func (g *Generator) Generate(ctx context.Context, req workspace.GenerationRequest) (string, error) {
	prompt, err := buildPrompt(req.Tab, req.Mode, req.Input)
	if err != nil {
		return "", err
	}

	out, err := g.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}, llm.WithTemperature(0.4))
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("llm returned an empty answer")
	}

	g.logger.Debug("STUDYGEN", "Content generated", map[string]interface{}{
		"tab":    string(req.Tab),
		"mode":   string(req.Mode),
		"length": len(out),
	})
	return out, nil
}

type extractionResponse struct {
	Equations []string `json:"equations"`
}

func (g *Generator) ExtractCandidates(ctx context.Context, input string) ([]string, error) {
	if !mathHint.MatchString(input) {
		return nil, nil
	}

	out, err := g.provider.Generate(ctx, buildExtractionPrompt(input), llm.WithJSON(), llm.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("llm extract: %w", err)
	}

	var resp extractionResponse
	if err := json.Unmarshal([]byte(cleanJSON(out)), &resp); err != nil {
		return nil, fmt.Errorf("parse extraction response: %w", err)
	}
	return dedupe(resp.Equations), nil
}

// cleanJSON strips a Markdown code fence some models wrap around JSON.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
