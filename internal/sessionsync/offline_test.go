package sessionsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/dyscreen/internal/catalog"
	"github.com/abhisek/dyscreen/internal/progress"
	"github.com/abhisek/dyscreen/internal/scoring"
)

func TestOfflineCompleteTest(t *testing.T) {
	ctx := context.Background()
	tracker, err := progress.New(ctx, newMemKV())
	require.NoError(t, err)
	saved := &savedResults{}
	o := NewOffline(tracker, saved, nil)

	res := scoring.Result{TestType: catalog.Auditory, Percentage: 66.6, Risk: scoring.RiskMedium}
	out, err := o.CompleteTest(ctx, catalog.Auditory, res, 4)
	require.NoError(t, err)

	assert.True(t, tracker.IsComplete(catalog.Auditory))
	assert.Equal(t, 67, tracker.Snapshot().Tests[catalog.Auditory].Score)
	assert.Equal(t, 4, tracker.Snapshot().Tests[catalog.Auditory].DifficultyRating)
	assert.Empty(t, tracker.SessionID())
	assert.True(t, out.HasNext)
	assert.Equal(t, catalog.Visual, out.Next)
	require.Len(t, saved.got, 1)
}

func TestOfflineRejectsUnknownTest(t *testing.T) {
	ctx := context.Background()
	tracker, err := progress.New(ctx, newMemKV())
	require.NoError(t, err)

	_, err = NewOffline(tracker, nil, nil).CompleteTest(ctx, "spelling", scoring.Result{}, 1)
	assert.ErrorIs(t, err, progress.ErrUnknownTest)
}
