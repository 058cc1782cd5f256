package qcmgen

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/qcm/internal/llm"
	"github.com/abhisek/qcm/internal/question"
)

// OfflineBatch answers a generation request without a model. It returns
// placeholder questions about the requested topic, each tagged with a short
// random id so repeated runs never collide with earlier output. It is the
// fallback of the mock provider.
func OfflineBatch(req llm.Request) (json.RawMessage, error) {
	topic, count := "general knowledge", 1
	for _, m := range req.Messages {
		if m.Role != llm.RoleUser {
			continue
		}
		sc := bufio.NewScanner(strings.NewReader(m.Content))
		for sc.Scan() {
			line := sc.Text()
			if v, ok := strings.CutPrefix(line, "Topic: "); ok && v != "" {
				topic = v
			}
			if v, ok := strings.CutPrefix(line, "Number of questions: "); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					count = n
				}
			}
		}
	}

	qs := make([]question.Question, count)
	for i := range qs {
		id := uuid.NewString()[:8]
		qs[i] = question.Question{
			Text:    fmt.Sprintf("[%s] Placeholder question %d on %s: which choices are marked correct?", id, i+1, topic),
			Choices: []string{"This one", "Not this one", "This one too", "Neither"},
			Answer:  []int{0, 2},
		}
	}
	return json.Marshal(question.File{QCM: qs})
}
