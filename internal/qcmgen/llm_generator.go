package qcmgen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/llm"
	"github.com/abhisek/qcm/internal/question"
)

// ErrNoQuestions is returned when every round produced nothing usable.
var ErrNoQuestions = errors.New("no usable questions generated")

// Purpose labels generation requests in the LLM event log.
const Purpose = "question-gen"

// Result is the outcome of one Generate call.
type Result struct {
	// Questions are the accepted questions, at most Request.Count.
	Questions []question.Question

	// Rejected explains every dropped question.
	Rejected []error

	// Rounds is the number of LLM calls made.
	Rounds int
}

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	logger   *zap.Logger
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *LLMGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMGenerator{provider: provider, config: cfg, logger: logger}
}

// Generate asks the model for req.Count questions, dropping duplicates and
// questions that fail validation, and asks again for the shortfall up to
// Config.MaxRounds times.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	if req.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if req.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", req.Count)
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	seen := newSeenSet(req.Existing)
	known := append([]string(nil), req.Existing...)
	res := &Result{}

	rounds := max(g.config.MaxRounds, 1)
	var lastErr error
	for res.Rounds < rounds && len(res.Questions) < req.Count {
		res.Rounds++
		want := req.Count - len(res.Questions)

		qs, problems, err := g.round(ctx, req.Topic, want, known)
		if err != nil {
			lastErr = err
			g.logger.Warn("generation round failed", zap.Int("round", res.Rounds), zap.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		res.Rejected = append(res.Rejected, problems...)

		for _, q := range qs {
			if len(res.Questions) == req.Count {
				break
			}
			if seen.has(q.Text) {
				res.Rejected = append(res.Rejected, &ValidationError{
					Validator: "dedup",
					Message:   fmt.Sprintf("duplicate question %q", q.Text),
				})
				continue
			}
			if verr := g.validate(q); verr != nil {
				res.Rejected = append(res.Rejected, verr)
				continue
			}
			seen.add(q.Text)
			known = append(known, q.Text)
			res.Questions = append(res.Questions, q)
		}
	}

	g.logger.Info("questions generated",
		zap.String("topic", req.Topic),
		zap.Int("requested", req.Count),
		zap.Int("accepted", len(res.Questions)),
		zap.Int("rejected", len(res.Rejected)),
		zap.Int("rounds", res.Rounds),
	)

	if len(res.Questions) == 0 {
		if lastErr != nil {
			return res, fmt.Errorf("%w: %w", ErrNoQuestions, lastErr)
		}
		return res, ErrNoQuestions
	}
	return res, nil
}

// round performs one LLM call and decodes its response leniently.
func (g *LLMGenerator) round(ctx context.Context, topic string, count int, known []string) ([]question.Question, []error, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(topic, count, known, g.config)},
		},
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	qs, problems, err := question.Parse("llm-response", resp.Content, question.WithSkipInvalid(true))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	for i := range qs {
		qs[i].Source = ""
	}
	return qs, problems, nil
}

func (g *LLMGenerator) validate(q question.Question) *ValidationError {
	for _, v := range g.config.Validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}
