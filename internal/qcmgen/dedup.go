package qcmgen

import (
	"fmt"
	"strings"
)

// normalizeText folds case and whitespace so near-identical prompts compare equal.
func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// seenSet tracks prompts that must not be generated again.
type seenSet map[string]bool

func newSeenSet(prompts []string) seenSet {
	s := make(seenSet, len(prompts))
	for _, p := range prompts {
		s.add(p)
	}
	return s
}

func (s seenSet) add(prompt string) { s[normalizeText(prompt)] = true }

func (s seenSet) has(prompt string) bool { return s[normalizeText(prompt)] }

// buildDedup formats known prompts for the prompt, keeping the most recent max.
// Returns "None" if there are none.
func buildDedup(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}

	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
