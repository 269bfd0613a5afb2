// Package reasoning separates the agent's <think> segments from its final answer.
package reasoning

import (
	"regexp"
	"strings"
)

var (
	// a block closes with the marker it opened with
	blockRegex = regexp.MustCompile(`(?is)<think>(.*?)</think>|<thinking>(.*?)</thinking>`)
	openRegex  = regexp.MustCompile(`(?i)<think(?:ing)?>`)
)

// Parsed is a final message split into reasoning and answer
type Parsed struct {
	Reasoning    string
	Answer       string
	HasReasoning bool
}

// Split removes every reasoning segment from text. An opening marker without
// a closing one sends the remainder of the text to Reasoning.
func Split(text string) Parsed {
	var parts []string
	for _, m := range blockRegex.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1] + m[2]); s != "" {
			parts = append(parts, s)
		}
	}
	answer := blockRegex.ReplaceAllString(text, "")

	// stream cut mid-thought
	if loc := openRegex.FindStringIndex(answer); loc != nil {
		if s := strings.TrimSpace(answer[loc[1]:]); s != "" {
			parts = append(parts, s)
		}
		answer = answer[:loc[0]]
	}

	return Parsed{
		Reasoning:    strings.Join(parts, "\n\n"),
		Answer:       strings.TrimSpace(answer),
		HasReasoning: len(parts) > 0,
	}
}

// LineCount returns how many lines the reasoning occupies, used for collapsed summaries
func (p Parsed) LineCount() int {
	if p.Reasoning == "" {
		return 0
	}
	return strings.Count(p.Reasoning, "\n") + 1
}
