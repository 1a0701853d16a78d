package minigame

import (
	"context"
	"encoding/json"
	"fmt"
)

// RewardsKey is the storage key for the word-builder counters.
const RewardsKey = "minigame_rewards"

// Storage is the key-value persistence rewards are kept in.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Rewards are the word-builder counters.
type Rewards struct {
	Buildings int `json:"buildings"`
	Stars     int `json:"stars"`
	Level     int `json:"level"`
}

// Apply folds one play-through into the counters: a building per completed
// level, stars from the best score, and the highest level reached. Levels are
// capped at the game's MaxLevels.
func (r Rewards) Apply(o Outcome, score int) Rewards {
	levels := max(o.Levels, 0)
	if g, err := Lookup(o.Game); err == nil && g.MaxLevels > 0 {
		levels = min(levels, g.MaxLevels)
	}
	r.Buildings += levels
	if s := score / 20; s > r.Stars {
		r.Stars = s
	}
	r.Level = max(r.Level, levels)
	return r
}

// RewardStore reads and writes Rewards.
type RewardStore struct {
	storage Storage
}

// NewRewardStore returns a RewardStore backed by s.
func NewRewardStore(s Storage) *RewardStore {
	return &RewardStore{storage: s}
}

// Load returns the stored counters, or zero Rewards when none are saved.
func (s *RewardStore) Load(ctx context.Context) (Rewards, error) {
	raw, ok, err := s.storage.Get(ctx, RewardsKey)
	if err != nil {
		return Rewards{}, fmt.Errorf("load rewards: %w", err)
	}
	if !ok {
		return Rewards{}, nil
	}
	var r Rewards
	if err := json.Unmarshal(raw, &r); err != nil {
		return Rewards{}, fmt.Errorf("decode rewards: %w", err)
	}
	return r, nil
}

// Record applies a word-builder outcome and persists the new counters.
// Outcomes of other games leave the counters unchanged.
func (s *RewardStore) Record(ctx context.Context, o Outcome, score int) (Rewards, error) {
	r, err := s.Load(ctx)
	if err != nil {
		return Rewards{}, err
	}
	if o.Game != WordBuilder {
		return r, nil
	}
	r = r.Apply(o, score)
	raw, err := json.Marshal(r)
	if err != nil {
		return Rewards{}, fmt.Errorf("encode rewards: %w", err)
	}
	if err := s.storage.Put(ctx, RewardsKey, raw); err != nil {
		return Rewards{}, fmt.Errorf("save rewards: %w", err)
	}
	return r, nil
}

const attemptsPrefix = "minigame_attempts/"

// NextAttempt bumps and returns the play count of game, starting at 1.
func (s *RewardStore) NextAttempt(ctx context.Context, game string) (int, error) {
	if _, err := Lookup(game); err != nil {
		return 0, err
	}
	key := attemptsPrefix + game
	n := 0
	raw, ok, err := s.storage.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("load attempts: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, fmt.Errorf("decode attempts: %w", err)
		}
	}
	n++
	raw, _ = json.Marshal(n)
	if err := s.storage.Put(ctx, key, raw); err != nil {
		return 0, fmt.Errorf("save attempts: %w", err)
	}
	return n, nil
}
