package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	err := r.appendEvent(ctx, "session_events",
		[]string{"session_id", "action", "source_dir", "questions_total", "questions_answered", "correct_answers", "duration_secs"},
		data.SessionID, data.Action, data.SourceDir,
		data.QuestionsTotal, data.QuestionsAnswered, data.CorrectAnswers, data.DurationSecs,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	selected, err := json.Marshal(nonNil(data.Selected))
	if err != nil {
		return fmt.Errorf("marshal selection: %w", err)
	}
	answer, err := json.Marshal(nonNil(data.CorrectAnswer))
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}

	err = r.appendEvent(ctx, "answer_events",
		[]string{"session_id", "source_file", "question_text", "selected", "correct_answer", "correct", "time_ms"},
		data.SessionID, data.SourceFile, data.QuestionText,
		string(selected), string(answer), data.Correct, data.TimeMs,
	)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	query := `
		SELECT session_id, timestamp, source_dir, questions_total,
		       questions_answered, correct_answers, duration_secs
		FROM session_events
		WHERE action = 'end'
		ORDER BY sequence DESC`
	args := []any{}
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SessionSummaryRecord
	for rows.Next() {
		var rec SessionSummaryRecord
		var ts int64
		if err := rows.Scan(&rec.SessionID, &ts, &rec.SourceDir, &rec.QuestionsTotal,
			&rec.QuestionsAnswered, &rec.CorrectAnswers, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sequence, timestamp, session_id, source_file, question_text,
		       selected, correct_answer, correct, time_ms
		FROM answer_events
		WHERE session_id = ?
		ORDER BY sequence ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var rec AnswerRecord
		var ts int64
		var selected, answer string
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.SourceFile,
			&rec.QuestionText, &selected, &answer, &rec.Correct, &rec.TimeMs); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		if err := json.Unmarshal([]byte(selected), &rec.Selected); err != nil {
			return nil, fmt.Errorf("decode selection of answer %d: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(answer), &rec.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("decode answer %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
