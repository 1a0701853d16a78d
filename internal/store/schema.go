package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableKV      = "kv_entries"
	tableAnswers = "answer_log"
	tableSeq     = "global_sequence"
)

// Booleans are stored as 0/1 and times as unix milliseconds, so every table
// sticks to string and integer columns that both engines map natively.
var (
	kvColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	kvTable = &schema.Table{
		Name:       tableKV,
		Columns:    kvColumns,
		PrimaryKey: []*schema.Column{kvColumns[0]},
	}

	answerLogColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "seq", Type: field.TypeInt64},
		{Name: "question_id", Type: field.TypeString},
		{Name: "test_type", Type: field.TypeString},
		{Name: "step", Type: field.TypeString},
		{Name: "module", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "correct", Type: field.TypeInt},
		{Name: "score", Type: field.TypeInt},
		{Name: "max_score", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "ended_at", Type: field.TypeInt64},
	}
	answerLogTable = &schema.Table{
		Name:       tableAnswers,
		Columns:    answerLogColumns,
		PrimaryKey: []*schema.Column{answerLogColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "answer_log_test_seq",
				Columns: []*schema.Column{answerLogColumns[3], answerLogColumns[1]},
			},
		},
	}

	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64},
	}
	sequenceTable = &schema.Table{
		Name:       tableSeq,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	tables = []*schema.Table{kvTable, answerLogTable, sequenceTable}
)

// ensureSchema creates or upgrades the tables. The driver wraps db without
// owning it, so it is not closed here.
func ensureSchema(ctx context.Context, db *sql.DB, dia string) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dia, db))
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
