package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helios-hq/triton/pkg/validator/report"
)

func TestPrunerPrune(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	oldRep := report.NewReport("s", "t")
	oldRep.Timestamp = time.Now().UTC().AddDate(0, 0, -90)
	newRep := report.NewReport("s", "t")
	require.NoError(t, s.SaveReport(ctx, oldRep))
	require.NoError(t, s.SaveReport(ctx, newRep))

	pruner := NewPruner(s, RetentionConfig{RetentionDays: 30})
	deleted, err := pruner.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPrunerDisabledRetention(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	ancient := report.NewReport("s", "t")
	ancient.Timestamp = time.Now().UTC().AddDate(-1, 0, 0)
	require.NoError(t, s.SaveReport(ctx, ancient))

	pruner := NewPruner(s, RetentionConfig{RetentionDays: 0})
	deleted, err := pruner.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted, "zero retention keeps reports forever")
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "not a cron expression",
	})
	err := NewScheduler(pruner).Start(context.Background())
	assert.Error(t, err)
}

func TestSchedulerStartStop(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	})
	scheduler := NewScheduler(pruner)
	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()
}

func TestSchedulerDisabledWithoutSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), RetentionConfig{RetentionDays: 30})
	scheduler := NewScheduler(pruner)
	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()
}
