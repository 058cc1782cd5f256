package qcmgen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated question; the first
	// failure drops the question.
	Validators []Validator

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many known prompts are listed in the
	// prompt as "do not repeat".
	MaxPriorQuestions int

	// MaxRounds is the number of LLM calls made to fill a batch when
	// earlier responses come back short or with rejected questions.
	MaxRounds int

	// Timeout bounds one Generate call. Zero means no extra deadline.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoiceValidator{},
		},
		MaxTokens:         4096,
		Temperature:       0.7,
		MaxPriorQuestions: 40,
		MaxRounds:         3,
		Timeout:           2 * time.Minute,
	}
}
