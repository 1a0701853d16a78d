package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/scoring"
)

// AnswerLog is the append-only record of answered questions.
type AnswerLog struct {
	db      *sql.DB
	dialect string
	seq     *sequenceCounter
}

var answerColumns = []string{
	"id", "seq", "question_id", "test_type", "step", "module", "value",
	"correct", "score", "max_score", "latency_ms", "started_at", "ended_at",
}

// Append stores an answer at the end of the log.
func (l *AnswerLog) Append(ctx context.Context, a scoring.Answer) error {
	seq, err := l.seq.Next(ctx)
	if err != nil {
		return err
	}
	correct := 0
	if a.Correct {
		correct = 1
	}
	query, args := entsql.Dialect(l.dialect).
		Insert(tableAnswers).
		Columns(answerColumns...).
		Values(
			a.ID, seq, a.QuestionID, string(a.TestType), a.Step, string(a.Module), a.Value,
			correct, a.Score, a.MaxScore, a.Latency.Milliseconds(),
			a.StartedAt.UnixMilli(), a.EndedAt.UnixMilli(),
		).
		Query()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append answer: %w", err)
	}
	return nil
}

// List returns the answers of one test type in append order.
func (l *AnswerLog) List(ctx context.Context, t catalog.TestType) ([]scoring.Answer, error) {
	query, args := entsql.Dialect(l.dialect).
		Select(answerColumns...).
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("test_type", string(t))).
		OrderBy("seq").
		Query()
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var out []scoring.Answer
	for rows.Next() {
		var (
			a                            scoring.Answer
			seq, latency, started, ended int64
			correct                      int
			testType, module             string
		)
		if err := rows.Scan(
			&a.ID, &seq, &a.QuestionID, &testType, &a.Step, &module, &a.Value,
			&correct, &a.Score, &a.MaxScore, &latency, &started, &ended,
		); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.TestType = catalog.TestType(testType)
		a.Module = catalog.Module(module)
		a.Correct = correct != 0
		a.Latency = time.Duration(latency) * time.Millisecond
		a.StartedAt = time.UnixMilli(started).UTC()
		a.EndedAt = time.UnixMilli(ended).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// Clear removes the answers of one test type, used when a test is retaken.
func (l *AnswerLog) Clear(ctx context.Context, t catalog.TestType) error {
	query, args := entsql.Dialect(l.dialect).
		Delete(tableAnswers).
		Where(entsql.EQ("test_type", string(t))).
		Query()
	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear answers: %w", err)
	}
	return nil
}
