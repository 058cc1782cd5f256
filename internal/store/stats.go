package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) QuerySourceStats(ctx context.Context) ([]SourceStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT source_file, COUNT(*), SUM(correct), CAST(AVG(time_ms) AS INTEGER)
		FROM answer_events
		GROUP BY source_file
		ORDER BY CAST(SUM(correct) AS REAL) / COUNT(*) ASC, source_file ASC`)
	if err != nil {
		return nil, fmt.Errorf("query source stats: %w", err)
	}
	defer rows.Close()

	var out []SourceStats
	for rows.Next() {
		var st SourceStats
		if err := rows.Scan(&st.SourceFile, &st.Attempts, &st.Correct, &st.AvgTimeMs); err != nil {
			return nil, fmt.Errorf("scan source stats: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose", func(u *LLMUsage) *string { return &u.Purpose })
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model", func(u *LLMUsage) *string { return &u.Model })
}

// llmUsage groups llm_request_events by column. column is one of a fixed set
// of names, never user input.
func (r *eventRepo) llmUsage(ctx context.Context, column string, key func(*LLMUsage) *string) ([]LLMUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+column+`, COUNT(*), SUM(1 - success), SUM(input_tokens), SUM(output_tokens),
		       CAST(AVG(latency_ms) AS INTEGER)
		FROM llm_request_events
		GROUP BY `+column+`
		ORDER BY COUNT(*) DESC, `+column+` ASC`)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(key(&u), &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
