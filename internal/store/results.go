package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/scoring"
)

const resultPrefix = "result/"

// Results keeps the latest result of each test type in the KV table.
type Results struct {
	kv *KV
}

func resultKey(t catalog.TestType) string { return resultPrefix + string(t) }

// Save replaces the stored result for r.TestType.
func (r *Results) Save(ctx context.Context, res scoring.Result) error {
	if !res.TestType.Valid() {
		return fmt.Errorf("save result: invalid test type %q", res.TestType)
	}
	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return r.kv.Put(ctx, resultKey(res.TestType), b)
}

// Latest returns the stored result, or nil when the test has none.
func (r *Results) Latest(ctx context.Context, t catalog.TestType) (*scoring.Result, error) {
	b, ok, err := r.kv.Get(ctx, resultKey(t))
	if err != nil || !ok {
		return nil, err
	}
	var res scoring.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return nil, fmt.Errorf("unmarshal result %s: %w", t, err)
	}
	return &res, nil
}

// All returns the stored results keyed by test type.
func (r *Results) All(ctx context.Context) (map[catalog.TestType]scoring.Result, error) {
	out := make(map[catalog.TestType]scoring.Result)
	for _, t := range catalog.AllTests() {
		res, err := r.Latest(ctx, t)
		if err != nil {
			return nil, err
		}
		if res != nil {
			out[t] = *res
		}
	}
	return out, nil
}

// Clear removes every stored result.
func (r *Results) Clear(ctx context.Context) error {
	keys, err := r.kv.Keys(ctx, resultPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := r.kv.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}
