package qcmgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write multiple-choice quiz questions (QCM) for self-study.

Rules:
- Every question tests one precise fact or concept about the requested topic.
- Give between 3 and 6 choices. Choices are short, distinct and plausible; distractors reflect common misconceptions.
- "answer" lists the zero-based indices of ALL correct choices. Several choices may be correct, but never all of them.
- Question text is self-contained: do not refer to other questions or to "the text above".
- Use plain text. No markdown, no numbering inside choices.
- Do not repeat or paraphrase any question from the "already asked" list.`

// buildUserMessage constructs the user message for one generation round.
func buildUserMessage(topic string, count int, known []string, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Number of questions: %d\n", count)

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(known, cfg.MaxPriorQuestions))

	return b.String()
}
